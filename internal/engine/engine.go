// Package engine implements the command dispatcher (§4.1) that sequences
// every mutation of the ledger and order book strictly serially, and the
// order-admission/cancellation logic (§4.3) that runs inside it. Nothing
// outside Run's goroutine ever touches the ledger or book directly — the
// methods below only enqueue a command and block for its one-shot reply,
// exactly the dispatcher contract in §5.
package engine

import (
	"go.uber.org/zap"

	"github.com/uhyunpark/btcusdc-exchange/internal/book"
	"github.com/uhyunpark/btcusdc-exchange/internal/journal"
	"github.com/uhyunpark/btcusdc-exchange/internal/ledger"
)

// Config carries the engine's configurable knobs. MaxOpenOrdersPerUser is
// the hardening point named in §5 ("Implementations MAY impose a
// configurable cap... and reject with RateLimited beyond it"); 0 disables it.
type Config struct {
	MaxOpenOrdersPerUser uint64
}

// Engine is the single-writer matching core: a ledger, an order book, and
// the inbound command queue that serializes every mutation of both.
type Engine struct {
	ledger *ledger.Ledger
	book   *book.OrderBook

	cfg        Config
	openOrders map[ledger.UserID]uint64

	log     *zap.SugaredLogger
	journal *journal.Journal // optional; nil disables audit journaling

	onTrade func(price, qty uint64) // optional trade-tape listener

	commands chan command
}

// OnTrade registers a callback invoked once per fill as it settles, for
// the market-data feed named (but scoped out) in §1 — a pure broadcast
// side effect with no bearing on engine state.
func (e *Engine) OnTrade(fn func(price, qty uint64)) {
	e.onTrade = fn
}

// New constructs an Engine. journal may be nil — the engine runs with pure
// in-memory state either way; the journal only ever receives write-only
// audit records, never something the engine reads back.
func New(log *zap.SugaredLogger, j *journal.Journal, cfg Config) *Engine {
	return &Engine{
		ledger:     ledger.New(),
		book:       book.New(),
		cfg:        cfg,
		openOrders: make(map[ledger.UserID]uint64),
		log:        log,
		journal:    j,
		commands:   make(chan command, 64),
	}
}

// Run consumes commands off the inbound queue until it's closed. Commands
// are processed strictly one at a time, in arrival order; no command
// observes the mutation of a subsequent one (§5).
func (e *Engine) Run() {
	for cmd := range e.commands {
		cmd.execute(e)
	}
}

// Stop closes the inbound queue, letting a running Run goroutine drain and
// return. Any command already enqueued is still processed before Run exits.
func (e *Engine) Stop() {
	close(e.commands)
}

func (e *Engine) journalWrite(kind string, fields map[string]any) {
	if e.journal == nil {
		return
	}
	e.journal.Append(kind, fields)
}

// --- synchronous facade -----------------------------------------------
//
// Each of these submits one command and blocks for its reply. A dropped
// caller (e.g. a context timeout on the transport side) simply never reads
// the reply channel again — the state transition still happened, per §5,
// and the buffered, unread reply is garbage collected harmlessly.

// InitializeUser mints a new user with zeroed balances for every market
// asset and returns its id.
func (e *Engine) InitializeUser() ledger.UserID {
	reply := make(chan initializeUserResult, 1)
	e.commands <- &initializeUserCmd{reply: reply}
	return (<-reply).UserID
}

// Deposit credits amount of asset to user's available balance.
func (e *Engine) Deposit(user ledger.UserID, asset ledger.AssetCode, amount uint64) (string, error) {
	reply := make(chan depositResult, 1)
	e.commands <- &depositCmd{user: user, asset: asset, amount: amount, reply: reply}
	res := <-reply
	return res.Status, res.Err
}

// GetBalances returns an isolated snapshot of user's balances, or
// found=false if the user doesn't exist.
func (e *Engine) GetBalances(user ledger.UserID) (map[ledger.AssetCode]ledger.AssetBalance, bool) {
	reply := make(chan getBalancesResult, 1)
	e.commands <- &getBalancesCmd{user: user, reply: reply}
	res := <-reply
	return res.Balances, res.Found
}

// CreateOrder submits a limit order. orderID is non-empty iff a remainder
// rested; filled is true iff the order fully matched without resting.
func (e *Engine) CreateOrder(user ledger.UserID, side book.Side, price, qty uint64) (orderID string, filled bool, err error) {
	reply := make(chan createOrderResult, 1)
	e.commands <- &createOrderCmd{user: user, side: side, price: price, qty: qty, reply: reply}
	res := <-reply
	return res.OrderID, res.Filled, res.Err
}

// CancelOrder removes a resting order and refunds its locked reserve.
func (e *Engine) CancelOrder(user ledger.UserID, orderID string) error {
	reply := make(chan error, 1)
	e.commands <- &cancelOrderCmd{user: user, orderID: orderID, reply: reply}
	return <-reply
}

// GetUserOrders returns a snapshot of every order currently resting for user.
func (e *Engine) GetUserOrders(user ledger.UserID) []book.Order {
	reply := make(chan []book.Order, 1)
	e.commands <- &getUserOrdersCmd{user: user, reply: reply}
	return <-reply
}
