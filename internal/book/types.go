package book

import "github.com/uhyunpark/btcusdc-exchange/internal/ledger"

// Side is the resting-order side: Bid (buy BTC with USDC) or Ask (sell
// BTC for USDC).
type Side int8

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// Order is a resting order: immutable except for Remaining, which the
// matching loop drains as trades consume it. Once Remaining reaches 0 the
// order is removed from the book and its id freed from the index.
type Order struct {
	ID        string
	User      ledger.UserID
	Side      Side
	Price     uint64 // micro-USDC per BTC
	Remaining uint64 // satoshis
}

// Fill is one trade produced by the matching loop: a taker order consuming
// quantity from the head of a resting maker's queue at the maker's price.
type Fill struct {
	Maker         *Order // the resting order that was hit (post-mutation)
	Price         uint64 // always the maker's price
	Qty           uint64
	MakerFilled   bool // true if the maker's Remaining reached 0 and it left the book
}
