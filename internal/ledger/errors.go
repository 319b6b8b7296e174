package ledger

import "errors"

// Validation errors: bad input shape. Surfaced to the caller, never retried
// automatically.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidDestination  = errors.New("destination chain and address are required")
	ErrAmountMismatch      = errors.New("claimed amount does not match locked amount")
	ErrTokenMismatch       = errors.New("claimed token does not match locked token")
)

// Replay errors: unknown or already-consumed message ids. Hard rejections,
// recorded for audit, never mutate state.
var (
	ErrUnknownMessage  = errors.New("no lock record for message id")
	ErrAlreadyConsumed = errors.New("lock already unlocked")
)

// IsValidation reports whether err is a validation failure (malformed or
// mismatched input).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidDestination) ||
		errors.Is(err, ErrAmountMismatch) ||
		errors.Is(err, ErrTokenMismatch)
}

// IsReplay reports whether err is a replay rejection.
func IsReplay(err error) bool {
	return errors.Is(err, ErrUnknownMessage) || errors.Is(err, ErrAlreadyConsumed)
}
