package ledger

import "github.com/ethereum/go-ethereum/common"

// UserID is the opaque identifier InitializeUser mints. It is rendered in
// hex form on the command/reply surface (see §6 of the spec), the same way
// the teacher renders common.Address.
type UserID = common.Address

// UserAccount is the mapping from AssetCode to AssetBalance for one user.
// Every AssetCode in Assets is present the moment the account is created;
// no asset key is ever added or removed afterward.
type UserAccount struct {
	balances map[AssetCode]*AssetBalance
}

func newUserAccount() *UserAccount {
	ua := &UserAccount{balances: make(map[AssetCode]*AssetBalance, len(Assets))}
	for _, a := range Assets {
		ua.balances[a] = &AssetBalance{}
	}
	return ua
}

// Balance returns the live AssetBalance pointer for an asset, or nil if the
// asset isn't one this account carries (invariant: UnknownAsset condition).
func (ua *UserAccount) Balance(asset AssetCode) *AssetBalance {
	return ua.balances[asset]
}

// Snapshot returns a deep copy safe for a caller to read and retain; the
// core never hands out a pointer into its own live state (see §4.1).
func (ua *UserAccount) Snapshot() map[AssetCode]AssetBalance {
	out := make(map[AssetCode]AssetBalance, len(ua.balances))
	for a, b := range ua.balances {
		out[a] = *b
	}
	return out
}
