// Package ledger implements the balance half of the matching core: a
// mapping from user to per-asset available/locked holdings, with
// safe-arithmetic mutations. It is owned exclusively by the single command
// loop described in §5 of the spec — no method here takes a lock, because
// nothing outside that loop is ever allowed to touch it concurrently.
package ledger

import (
	"crypto/rand"
	"math"

	"github.com/uhyunpark/btcusdc-exchange/internal/errs"
)

// Ledger is the balance half of the core: user → asset → {available, locked}.
type Ledger struct {
	users map[UserID]*UserAccount
}

// New returns an empty ledger with no users.
func New() *Ledger {
	return &Ledger{users: make(map[UserID]*UserAccount)}
}

// InitializeUser mints a fresh, cryptographically-random user id and
// inserts a zeroed UserAccount carrying every market asset at (0, 0).
// Uniqueness is required only within process lifetime; collisions across
// 2^160 random identifiers are not a practical concern.
func (l *Ledger) InitializeUser() UserID {
	var id UserID
	for {
		_, _ = rand.Read(id[:])
		if _, exists := l.users[id]; !exists {
			break
		}
	}
	l.users[id] = newUserAccount()
	return id
}

// Account returns the live account for a user, or nil if absent.
func (l *Ledger) Account(user UserID) *UserAccount {
	return l.users[user]
}

// Deposit increases a user's available balance of asset by amount using
// checked arithmetic. No mutation occurs on any error path.
func (l *Ledger) Deposit(user UserID, asset AssetCode, amount uint64) error {
	acc, ok := l.users[user]
	if !ok {
		return errs.New(errs.KindUnknownUser, "user %s not found", user)
	}
	bal := acc.Balance(asset)
	if bal == nil {
		return errs.New(errs.KindUnknownAsset, "asset %s not recognized", asset)
	}
	if bal.Available > math.MaxUint64-amount {
		return errs.New(errs.KindOverflow, "deposit of %d %s would overflow available balance", amount, asset)
	}
	bal.Available += amount
	return nil
}

// Lock moves amount from available to locked for (user, asset). Fails with
// InsufficientFunds, without mutation, if available < amount.
func (l *Ledger) Lock(user UserID, asset AssetCode, amount uint64) error {
	acc := l.users[user]
	bal := acc.Balance(asset)
	if bal.Available < amount {
		return errs.New(errs.KindInsufficientFunds, "need %d %s, have %d available", amount, asset, bal.Available)
	}
	bal.Available -= amount
	bal.Locked += amount
	return nil
}

// Unlock moves amount from locked back to available. Total: matching-loop
// settlement relies on invariants established at order admission, so this
// never fails.
func (l *Ledger) Unlock(user UserID, asset AssetCode, amount uint64) {
	bal := l.users[user].Balance(asset)
	bal.Locked -= amount
	bal.Available += amount
}

// CreditAvailable adds amount directly to available (a trade credit to the
// receiving side of a match). Total, as settlement during matching must be.
func (l *Ledger) CreditAvailable(user UserID, asset AssetCode, amount uint64) {
	l.users[user].Balance(asset).Available += amount
}

// DebitLocked subtracts amount directly from locked (draining a taker's or
// maker's reserve as a trade consumes it). Total: the reserve was sized to
// cover exactly this.
func (l *Ledger) DebitLocked(user UserID, asset AssetCode, amount uint64) {
	l.users[user].Balance(asset).Locked -= amount
}

// Snapshot returns an isolated deep copy of a user's account, or ok=false
// if the user doesn't exist. Safe for the caller to read and retain.
func (l *Ledger) Snapshot(user UserID) (map[AssetCode]AssetBalance, bool) {
	acc, ok := l.users[user]
	if !ok {
		return nil, false
	}
	return acc.Snapshot(), true
}

// Exists reports whether user is a known account.
func (l *Ledger) Exists(user UserID) bool {
	_, ok := l.users[user]
	return ok
}
