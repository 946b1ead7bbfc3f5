package router

import "errors"

// Failure taxonomy for router operations. Every failure aborts the whole
// call; the host discards queued instructions, so no partial routing is ever
// visible.
var (
	// ErrNotInitialized is returned when config or seed is read before Initialize.
	ErrNotInitialized = errors.New("router: contract not initialised")
	// ErrNotAdmin gates the admin-only operations.
	ErrNotAdmin = errors.New("router: this function is only usable by the admin")
	// ErrDisabled is returned while the active flag is false.
	ErrDisabled = errors.New("router: contract is currently disabled")
	// ErrTokenNotRegistered is returned when a deposit notification arrives
	// from a token contract without a registry entry.
	ErrTokenNotRegistered = errors.New("router: token not registered with this contract")
	// ErrAliasNotFound is returned when the recipient alias does not resolve.
	ErrAliasNotFound = errors.New("router: alias is not linked to an address")
	// ErrAliasTaken is returned when a custom alias is already claimed.
	ErrAliasTaken = errors.New("router: custom alias unavailable")
	// ErrPayloadRequired is returned when a deposit notification carries no payload.
	ErrPayloadRequired = errors.New("router: deposit payload required")
	// ErrInvalidPayload is returned when the payload decodes to no known sub-operation.
	ErrInvalidPayload = errors.New("router: unknown deposit payload")
	// ErrFeeOverflow marks fee arithmetic exceeding unsigned 128-bit bounds.
	ErrFeeOverflow = errors.New("router: fee computation overflows 128 bits")
	// ErrFeeExceedsAmount marks a configured fee that would siphon more than
	// the deposited amount. Never clamped: it signals a configuration bug.
	ErrFeeExceedsAmount = errors.New("router: computed fee exceeds deposit amount")
)
