package engine

import (
	"github.com/google/uuid"

	"github.com/uhyunpark/btcusdc-exchange/internal/book"
	"github.com/uhyunpark/btcusdc-exchange/internal/errs"
	"github.com/uhyunpark/btcusdc-exchange/internal/ledger"
	"github.com/uhyunpark/btcusdc-exchange/internal/money"
)

// admitOrder implements §4.3 "Order admission (CreateOrder)": validate,
// reserve, match, and either rest the remainder (releasing any bid reserve
// beyond the remainder's own cost) or refund the taker's truncation
// residual on a full fill.
func (e *Engine) admitOrder(user ledger.UserID, side book.Side, price, qty uint64) createOrderResult {
	if price == 0 || qty == 0 {
		return createOrderResult{Err: errs.New(errs.KindInvalidInput, "price and quantity must be positive")}
	}
	if !e.ledger.Exists(user) {
		return createOrderResult{Err: errs.New(errs.KindUnknownUser, "user %s not found", user)}
	}

	if e.cfg.MaxOpenOrdersPerUser > 0 && e.openOrders[user] >= e.cfg.MaxOpenOrdersPerUser {
		return createOrderResult{Err: errs.New(errs.KindRateLimited, "user %s has reached the open-order cap", user)}
	}

	var reserveAsset ledger.AssetCode
	var reserveAmount uint64

	if side == book.Bid {
		cost, err := money.Cost(price, qty)
		if err != nil {
			return createOrderResult{Err: err}
		}
		reserveAsset, reserveAmount = ledger.USDC, cost
	} else {
		reserveAsset, reserveAmount = ledger.BTC, qty
	}

	if err := e.ledger.Lock(user, reserveAsset, reserveAmount); err != nil {
		return createOrderResult{Err: err}
	}

	taker := &book.Order{User: user, Side: side, Price: price, Remaining: qty}
	fills := e.book.Match(taker)

	var costDrained uint64
	for _, f := range fills {
		tradeCost, err := money.Cost(f.Price, f.Qty)
		if err != nil {
			// The reserve was sized to cover this trade already, so a
			// failure here is a logic bug, not a user-facing condition.
			panic("engine: cost computation overflowed during a settlement path that must be total: " + err.Error())
		}
		e.settleFill(side, user, f, tradeCost)
		if side == book.Bid {
			costDrained += tradeCost
		}
		if f.MakerFilled {
			e.decOpenOrders(f.Maker.User)
		}
	}

	if taker.Remaining == 0 {
		if side == book.Bid {
			// Refund the truncation residual between the reserve sized
			// at the taker's limit price and the sum of per-trade costs
			// executed at (possibly better) maker prices — P8.
			if residual := reserveAmount - costDrained; residual > 0 {
				e.ledger.Unlock(user, ledger.USDC, residual)
			}
		}
		return createOrderResult{Filled: true}
	}

	if side == book.Bid {
		// Fills at better maker prices drained less than the reserve set
		// aside for their quantity; keep locked only cost(price, remaining)
		// for the resting remainder (I2) and release the rest.
		restCost, err := money.Cost(price, taker.Remaining)
		if err != nil {
			panic("engine: cost computation overflowed on a path sized at order admission: " + err.Error())
		}
		if excess := reserveAmount - costDrained - restCost; excess > 0 {
			e.ledger.Unlock(user, ledger.USDC, excess)
		}
	}
	orderID := uuid.New().String()
	taker.ID = orderID
	e.book.Rest(taker)
	e.incOpenOrders(user)
	e.journalWrite("rest", map[string]any{
		"order_id": orderID, "user": user.Hex(), "side": side.String(),
		"price": price, "remaining": taker.Remaining,
	})
	return createOrderResult{OrderID: orderID}
}

// settleFill applies one trade's balance effects to both sides of the
// ledger, re-looking up each user's account by key rather than holding
// simultaneous mutable handles into the ledger's map (see §9: re-indexing
// per trade is the normative pattern here, not a shared borrow).
func (e *Engine) settleFill(takerSide book.Side, taker ledger.UserID, f book.Fill, cost uint64) {
	maker := f.Maker.User

	if takerSide == book.Bid {
		// taker buys BTC, pays USDC; maker (resting ask) sells BTC, receives USDC.
		e.ledger.CreditAvailable(taker, ledger.BTC, f.Qty)
		e.ledger.DebitLocked(taker, ledger.USDC, cost)

		e.ledger.DebitLocked(maker, ledger.BTC, f.Qty)
		e.ledger.CreditAvailable(maker, ledger.USDC, cost)
	} else {
		// taker sells BTC, receives USDC; maker (resting bid) buys BTC, pays USDC.
		e.ledger.DebitLocked(taker, ledger.BTC, f.Qty)
		e.ledger.CreditAvailable(taker, ledger.USDC, cost)

		e.ledger.CreditAvailable(maker, ledger.BTC, f.Qty)
		e.ledger.DebitLocked(maker, ledger.USDC, cost)
	}

	e.journalWrite("trade", map[string]any{
		"maker_order_id": f.Maker.ID, "price": f.Price, "qty": f.Qty,
	})
	if e.onTrade != nil {
		e.onTrade(f.Price, f.Qty)
	}
}

// cancelOrder implements §4.3 "Cancellation". Ownership is enforced per
// the hardening point in §9 Open Question (a): a mismatched requester
// never mutates state.
func (e *Engine) cancelOrder(user ledger.UserID, orderID string) error {
	if !e.ledger.Exists(user) {
		return errs.New(errs.KindUnknownUser, "user %s not found", user)
	}
	existing, ok := e.book.Lookup(orderID)
	if !ok {
		return errs.New(errs.KindOrderNotFound, "order %s not resting", orderID)
	}
	if existing.User != user {
		return errs.New(errs.KindNotOwner, "order %s is not owned by %s", orderID, user)
	}

	removed, ok := e.book.Cancel(orderID)
	if !ok {
		// Index said it was there; this would violate I4.
		return errs.New(errs.KindOrderNotFound, "order %s not resting", orderID)
	}

	if removed.Side == book.Bid {
		refund, err := money.Cost(removed.Price, removed.Remaining)
		if err != nil {
			panic("engine: cost computation overflowed on a path sized at order admission: " + err.Error())
		}
		e.ledger.Unlock(user, ledger.USDC, refund)
	} else {
		e.ledger.Unlock(user, ledger.BTC, removed.Remaining)
	}

	e.decOpenOrders(user)
	e.journalWrite("cancel", map[string]any{"order_id": orderID, "user": user.Hex()})
	return nil
}

func (e *Engine) incOpenOrders(user ledger.UserID) {
	e.openOrders[user]++
}

func (e *Engine) decOpenOrders(user ledger.UserID) {
	if n := e.openOrders[user]; n > 0 {
		e.openOrders[user] = n - 1
	}
}
