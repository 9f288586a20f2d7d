package ledger

import "errors"

var (
	// ErrInvalidSplit means the expense input is malformed (non-positive
	// amount, bad percentages, shares not summing to 100). Not retryable;
	// the caller must fix the input.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrUpdateFailed means the store could not apply a delta batch after
	// bounded retries. Retryable by the caller after a delay; no partial
	// mirror state is left visible.
	ErrUpdateFailed = errors.New("ledger update failed")

	// ErrNoBalances means the user has no balance records at all. This is
	// a valid terminal state ("no history"), not a store failure.
	ErrNoBalances = errors.New("no balance records")

	// ErrStoreUnavailable means a store read failed. Distinct from
	// ErrNoBalances so callers can tell "you owe nothing" from "we could
	// not check". Retryable.
	ErrStoreUnavailable = errors.New("balance store unavailable")
)
