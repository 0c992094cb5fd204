// Package book implements the price-time priority limit order book and
// matcher (§4.3 of the spec): two price-indexed FIFO queues plus a
// secondary order-id index, with price levels tracked via heaps for O(1)
// best-price peek and O(log n) admission (the same structure the teacher's
// orderbook package uses for its perpetual futures book, generalized here
// to the spot BTC/USDC matching rules).
//
// The book knows nothing about balances: Match returns the Fills it
// produced and the caller (the engine) is responsible for settling the
// ledger from them, the same separation the teacher draws between
// OrderBook.Place and the app layer's processFill.
package book

import (
	"container/heap"
	"sort"

	"github.com/uhyunpark/btcusdc-exchange/internal/ledger"
)

type indexEntry struct {
	side  Side
	price uint64
}

// OrderBook holds one instrument's resting bids and asks.
type OrderBook struct {
	bidHeap *MaxPriceHeap
	askHeap *MinPriceHeap

	bids map[uint64][]*Order
	asks map[uint64][]*Order

	index map[string]indexEntry
}

// New returns an empty order book.
func New() *OrderBook {
	bidHeap := &MaxPriceHeap{}
	askHeap := &MinPriceHeap{}
	heap.Init(bidHeap)
	heap.Init(askHeap)

	return &OrderBook{
		bidHeap: bidHeap,
		askHeap: askHeap,
		bids:    make(map[uint64][]*Order),
		asks:    make(map[uint64][]*Order),
		index:   make(map[string]indexEntry),
	}
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// BestBid returns the highest resting bid price, if any.
func (ob *OrderBook) BestBid() (uint64, bool) {
	if ob.bidHeap.Len() == 0 {
		return 0, false
	}
	return ob.bidHeap.Peek(), true
}

// BestAsk returns the lowest resting ask price, if any.
func (ob *OrderBook) BestAsk() (uint64, bool) {
	if ob.askHeap.Len() == 0 {
		return 0, false
	}
	return ob.askHeap.Peek(), true
}

func (ob *OrderBook) removeFromBidHeap(price uint64) {
	for i := 0; i < ob.bidHeap.Len(); i++ {
		if (*ob.bidHeap)[i] == price {
			heap.Remove(ob.bidHeap, i)
			return
		}
	}
}

func (ob *OrderBook) removeFromAskHeap(price uint64) {
	for i := 0; i < ob.askHeap.Len(); i++ {
		if (*ob.askHeap)[i] == price {
			heap.Remove(ob.askHeap, i)
			return
		}
	}
}

// Rest inserts o at the tail of its (side, price) level. Callers must only
// call this after Match has drained every crossable opposite-side level —
// Rest does not itself check for a cross (invariant I5 is the matching
// loop's responsibility, not the book's).
func (ob *OrderBook) Rest(o *Order) {
	if o.Side == Bid {
		if len(ob.bids[o.Price]) == 0 {
			heap.Push(ob.bidHeap, o.Price)
		}
		ob.bids[o.Price] = append(ob.bids[o.Price], o)
	} else {
		if len(ob.asks[o.Price]) == 0 {
			heap.Push(ob.askHeap, o.Price)
		}
		ob.asks[o.Price] = append(ob.asks[o.Price], o)
	}
	ob.index[o.ID] = indexEntry{side: o.Side, price: o.Price}
}

// Match drains crossable opposite-side levels against taker, in price-then-
// time priority, until taker.Remaining reaches 0 or no more levels cross.
// It mutates resting makers' Remaining in place and removes any maker that
// fills to 0 (freeing its index entry and, if the level empties, its price
// key). It never touches the ledger — the caller settles balances from the
// returned Fills.
func (ob *OrderBook) Match(taker *Order) []Fill {
	var fills []Fill

	if taker.Side == Bid {
		for taker.Remaining > 0 {
			askPrice, ok := ob.BestAsk()
			if !ok || askPrice > taker.Price {
				break
			}
			level := ob.asks[askPrice]
			if len(level) == 0 {
				delete(ob.asks, askPrice)
				ob.removeFromAskHeap(askPrice)
				continue
			}
			maker := level[0]
			qty := minU64(taker.Remaining, maker.Remaining)
			taker.Remaining -= qty
			maker.Remaining -= qty

			filled := maker.Remaining == 0
			fills = append(fills, Fill{Maker: maker, Price: askPrice, Qty: qty, MakerFilled: filled})

			if filled {
				ob.asks[askPrice] = level[1:]
				delete(ob.index, maker.ID)
				if len(ob.asks[askPrice]) == 0 {
					delete(ob.asks, askPrice)
					ob.removeFromAskHeap(askPrice)
				}
			}
		}
	} else {
		for taker.Remaining > 0 {
			bidPrice, ok := ob.BestBid()
			if !ok || bidPrice < taker.Price {
				break
			}
			level := ob.bids[bidPrice]
			if len(level) == 0 {
				delete(ob.bids, bidPrice)
				ob.removeFromBidHeap(bidPrice)
				continue
			}
			maker := level[0]
			qty := minU64(taker.Remaining, maker.Remaining)
			taker.Remaining -= qty
			maker.Remaining -= qty

			filled := maker.Remaining == 0
			fills = append(fills, Fill{Maker: maker, Price: bidPrice, Qty: qty, MakerFilled: filled})

			if filled {
				ob.bids[bidPrice] = level[1:]
				delete(ob.index, maker.ID)
				if len(ob.bids[bidPrice]) == 0 {
					delete(ob.bids, bidPrice)
					ob.removeFromBidHeap(bidPrice)
				}
			}
		}
	}

	return fills
}

// Cancel removes a resting order from its price level and returns it. It
// does not check ownership — Cancel is a pure book operation; the NotOwner
// check is an engine-level policy the caller performs beforehand.
func (ob *OrderBook) Cancel(id string) (*Order, bool) {
	entry, ok := ob.index[id]
	if !ok {
		return nil, false
	}

	levels := ob.bids
	removeFromHeap := ob.removeFromBidHeap
	if entry.side == Ask {
		levels = ob.asks
		removeFromHeap = ob.removeFromAskHeap
	}

	level, ok := levels[entry.price]
	if !ok {
		return nil, false
	}

	pos := -1
	for i, o := range level {
		if o.ID == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		return nil, false
	}

	removed := level[pos]
	level = append(level[:pos], level[pos+1:]...)
	if len(level) == 0 {
		delete(levels, entry.price)
		removeFromHeap(entry.price)
	} else {
		levels[entry.price] = level
	}
	delete(ob.index, id)

	return removed, true
}

// Lookup returns the currently resting order for id without removing it.
func (ob *OrderBook) Lookup(id string) (*Order, bool) {
	entry, ok := ob.index[id]
	if !ok {
		return nil, false
	}
	levels := ob.bids
	if entry.side == Ask {
		levels = ob.asks
	}
	for _, o := range levels[entry.price] {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// UserOrders returns a deep copy of every order resting for user, across
// both sides. Ordering is by (side, price, queue position) to aid tests,
// as §4.3 permits.
func (ob *OrderBook) UserOrders(user ledger.UserID) []Order {
	var out []Order
	for _, price := range sortedKeys(ob.bids) {
		for _, o := range ob.bids[price] {
			if o.User == user {
				out = append(out, *o)
			}
		}
	}
	for _, price := range sortedKeys(ob.asks) {
		for _, o := range ob.asks[price] {
			if o.User == user {
				out = append(out, *o)
			}
		}
	}
	return out
}

func sortedKeys(levels map[uint64][]*Order) []uint64 {
	keys := make([]uint64, 0, len(levels))
	for p := range levels {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
