// Package errs defines the taxonomic error kinds the matching core can
// reply with. Callers switch on Kind rather than matching error strings.
package errs

import "fmt"

// Kind is a closed enumeration of the core's logical failure modes.
type Kind int8

const (
	// KindUnknownUser is raised by Deposit, CreateOrder and CancelOrder
	// for a user id that was never returned by InitializeUser. The read
	// commands report such a user as found=false (GetBalances) or an
	// empty list (GetUserOrders) instead.
	KindUnknownUser Kind = iota
	// KindUnknownAsset is raised by Deposit for an asset code the
	// user's account doesn't carry.
	KindUnknownAsset
	// KindOverflow is raised when a checked integer operation would
	// wrap (Deposit, or the bid reserve/cost computation).
	KindOverflow
	// KindInsufficientFunds is raised when a lock step's precondition
	// fails: available < amount.
	KindInsufficientFunds
	// KindOrderNotFound is raised by CancelOrder for an id that isn't
	// currently resting.
	KindOrderNotFound
	// KindNotOwner is raised by CancelOrder when the requester isn't
	// the order's original owner.
	KindNotOwner
	// KindInvalidInput is raised when price or quantity isn't a
	// positive integer.
	KindInvalidInput
	// KindRateLimited is raised by order admission when the optional
	// per-user open-order cap is exceeded.
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindUnknownUser:
		return "unknown_user"
	case KindUnknownAsset:
		return "unknown_asset"
	case KindOverflow:
		return "overflow"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindOrderNotFound:
		return "order_not_found"
	case KindNotOwner:
		return "not_owner"
	case KindInvalidInput:
		return "invalid_input"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error is the core's logical-failure error type. It never represents a
// partial mutation: every path that returns one leaves state untouched.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs an Error of the given kind with a formatted message.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or ok=false if err isn't one of ours.
func KindOf(err error) (Kind, bool) {
	e, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return e.Kind, true
}
