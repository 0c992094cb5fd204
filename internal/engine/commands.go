package engine

import (
	"strconv"

	"github.com/uhyunpark/btcusdc-exchange/internal/book"
	"github.com/uhyunpark/btcusdc-exchange/internal/ledger"
)

// command is the inbound-queue element the dispatch loop consumes. Each
// concrete command carries its own one-shot reply channel and knows how to
// execute itself against the engine's state — the dispatcher (Run) never
// needs a type switch, just command.execute(e).
type command interface {
	execute(e *Engine)
}

type initializeUserCmd struct {
	reply chan initializeUserResult
}

type initializeUserResult struct {
	UserID ledger.UserID
}

func (c *initializeUserCmd) execute(e *Engine) {
	id := e.ledger.InitializeUser()
	e.log.Infow("initialize_user", "user", id.Hex())
	c.reply <- initializeUserResult{UserID: id}
}

type depositCmd struct {
	user   ledger.UserID
	asset  ledger.AssetCode
	amount uint64
	reply  chan depositResult
}

type depositResult struct {
	Status string
	Err    error
}

func (c *depositCmd) execute(e *Engine) {
	if err := e.ledger.Deposit(c.user, c.asset, c.amount); err != nil {
		e.log.Warnw("deposit_failed", "user", c.user.Hex(), "asset", c.asset.String(), "err", err)
		c.reply <- depositResult{Err: err}
		return
	}
	e.journalWrite("deposit", map[string]any{
		"user": c.user.Hex(), "asset": c.asset.String(), "amount": c.amount,
	})
	e.log.Infow("deposit_ok", "user", c.user.Hex(), "asset", c.asset.String(), "amount", c.amount)
	c.reply <- depositResult{Status: depositStatus(c.user, c.asset, c.amount)}
}

func depositStatus(user ledger.UserID, asset ledger.AssetCode, amount uint64) string {
	return "deposited " + strconv.FormatUint(amount, 10) + " " + asset.String() + " for user " + user.Hex()
}

type getBalancesCmd struct {
	user  ledger.UserID
	reply chan getBalancesResult
}

type getBalancesResult struct {
	Balances map[ledger.AssetCode]ledger.AssetBalance
	Found    bool
}

func (c *getBalancesCmd) execute(e *Engine) {
	snap, ok := e.ledger.Snapshot(c.user)
	c.reply <- getBalancesResult{Balances: snap, Found: ok}
}

type createOrderCmd struct {
	user  ledger.UserID
	side  book.Side
	price uint64
	qty   uint64
	reply chan createOrderResult
}

type createOrderResult struct {
	OrderID string
	Filled  bool
	Err     error
}

func (c *createOrderCmd) execute(e *Engine) {
	res := e.admitOrder(c.user, c.side, c.price, c.qty)
	if res.Err != nil {
		e.log.Warnw("create_order_failed", "user", c.user.Hex(), "side", c.side.String(), "err", res.Err)
	} else {
		e.log.Infow("create_order_ok", "user", c.user.Hex(), "side", c.side.String(),
			"price", c.price, "qty", c.qty, "filled", res.Filled, "order_id", res.OrderID)
	}
	c.reply <- res
}

type cancelOrderCmd struct {
	user    ledger.UserID
	orderID string
	reply   chan error
}

func (c *cancelOrderCmd) execute(e *Engine) {
	err := e.cancelOrder(c.user, c.orderID)
	if err != nil {
		e.log.Warnw("cancel_order_failed", "user", c.user.Hex(), "order_id", c.orderID, "err", err)
	} else {
		e.log.Infow("cancel_order_ok", "user", c.user.Hex(), "order_id", c.orderID)
	}
	c.reply <- err
}

type getUserOrdersCmd struct {
	user  ledger.UserID
	reply chan []book.Order
}

func (c *getUserOrdersCmd) execute(e *Engine) {
	c.reply <- e.book.UserOrders(c.user)
}
