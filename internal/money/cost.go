// Package money implements the normative fixed-point cost computation the
// whole engine treats as a single source of truth (§4.3 of the spec).
package money

import (
	"math/big"

	"github.com/uhyunpark/btcusdc-exchange/internal/errs"
)

// SatsPerBTC is the satoshi/BTC scale factor used to compute cost.
const SatsPerBTC = 100_000_000

var satsPerBTC = big.NewInt(SatsPerBTC)
var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// Cost returns floor(priceMicroUSDC * qtySats / 10^8) in micro-USDC,
// computed in a 128-bit-plus domain so the intermediate product of two
// uint64s can never overflow. It is the single source of truth for the
// USDC reserved against bids, the USDC credited to sellers, and the USDC
// refunded on bid cancellation.
//
// Truncation means Cost(p, q1) + Cost(p, q2) may differ from
// Cost(p, q1+q2) by at most 1 micro-USDC — callers that need the reserve
// to drain exactly must compute cost per-trade, never by re-deriving it
// from a running quantity total.
func Cost(priceMicroUSDC, qtySats uint64) (uint64, error) {
	p := new(big.Int).SetUint64(priceMicroUSDC)
	q := new(big.Int).SetUint64(qtySats)
	total := new(big.Int).Mul(p, q)
	total.Div(total, satsPerBTC)
	if total.Cmp(maxUint64) > 0 {
		return 0, errs.New(errs.KindOverflow, "cost(%d, %d) exceeds uint64 range", priceMicroUSDC, qtySats)
	}
	return total.Uint64(), nil
}
