// Package decimalfmt is the decimal-string ↔ fixed-point-integer
// conversion collaborator named, but placed out of core scope, in §6 of
// the spec: "Decimal ↔ integer scaling of user-entered strings (a pure
// conversion module)". It exists so the transport shell has somewhere
// real to turn "0.5" into satoshis before it ever reaches the engine.
package decimalfmt

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// BTCDecimals is the maximum number of fractional digits a BTC
	// quantity string may carry (1 BTC = 10^8 satoshis).
	BTCDecimals = 8
	// USDCDecimals is the maximum number of fractional digits a USDC
	// amount or a USDC-per-BTC price string may carry (1 USDC = 10^6
	// micro-USDC).
	USDCDecimals = 6
)

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)

// ParseBTC converts a decimal BTC-quantity string into satoshis. Strings
// with more than 8 fractional digits are rejected.
func ParseBTC(s string) (uint64, error) {
	return parseScaled(s, BTCDecimals)
}

// FormatBTC renders a satoshi quantity as a decimal BTC string.
func FormatBTC(sats uint64) string {
	return formatScaled(sats, BTCDecimals)
}

// ParseUSDC converts a decimal USDC-amount string into micro-USDC.
// Strings with more than 6 fractional digits are rejected.
func ParseUSDC(s string) (uint64, error) {
	return parseScaled(s, USDCDecimals)
}

// FormatUSDC renders a micro-USDC amount as a decimal USDC string.
func FormatUSDC(micro uint64) string {
	return formatScaled(micro, USDCDecimals)
}

// ParsePrice converts a decimal USDC-per-BTC price string into
// micro-USDC-per-BTC ticks. Same 6-fractional-digit rule as ParseUSDC.
func ParsePrice(s string) (uint64, error) {
	return parseScaled(s, USDCDecimals)
}

// FormatPrice renders a micro-USDC-per-BTC tick price as a decimal string.
func FormatPrice(micro uint64) string {
	return formatScaled(micro, USDCDecimals)
}

// parseScaled parses s as a non-negative decimal with at most
// maxFractionalDigits fractional digits, and returns it scaled up by
// 10^maxFractionalDigits as an integer (satoshis or micro-USDC).
func parseScaled(s string, maxFractionalDigits int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("decimalfmt: %q is not a valid decimal: %w", s, err)
	}
	if d.Sign() < 0 {
		return 0, fmt.Errorf("decimalfmt: %q must not be negative", s)
	}
	if -d.Exponent() > maxFractionalDigits {
		return 0, fmt.Errorf("decimalfmt: %q has more than %d fractional digits", s, maxFractionalDigits)
	}

	scaled := d.Shift(maxFractionalDigits)
	if scaled.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("decimalfmt: %q overflows a 64-bit integer once scaled", s)
	}
	return scaled.BigInt().Uint64(), nil
}

// formatScaled renders an integer count of the smallest unit (satoshis or
// micro-USDC) back to a decimal string with at most decimals fractional
// digits; trailing fractional zeros are dropped (100_000_000 sats is "1").
func formatScaled(v uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -decimals).String()
}
