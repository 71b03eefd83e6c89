package engine

import "errors"

// Admission and draw errors. Handlers map these to HTTP status codes with
// errors.Is, so every rejection reaches the caller with a specific reason.
var (
	// Validation errors: rejected synchronously, no state change, the
	// attempted payment is never consumed.
	ErrUnknownTier    = errors.New("unknown tier")
	ErrTierInactive   = errors.New("tier is not accepting entries")
	ErrAlreadyEntered = errors.New("already entered this round")
	ErrWrongEntryFee  = errors.New("amount does not match the tier entry fee")
	ErrTierFull       = errors.New("tier has reached its participant cap")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrRoundNotFull   = errors.New("round has not reached its participant cap")

	// ErrInsufficientLiquidity aborts a draw before any state is touched.
	// The round stays full and admitted; the draw is retryable once the
	// custody balance is restored.
	ErrInsufficientLiquidity = errors.New("custody balance below required payout")

	// ErrTransferFailed wraps a payout sink rejection. The draw that hit it
	// has been fully rolled back, round included, and is retryable.
	ErrTransferFailed = errors.New("payout transfer failed")

	// ErrNotOperator guards the operator-only operations.
	ErrNotOperator = errors.New("caller is not the operator")

	// ErrReentrantCall rejects a mutating call made from inside another
	// mutating call on the same engine, e.g. from a payout receiver hook.
	ErrReentrantCall = errors.New("reentrant engine call")
)
