package fees

import "errors"

// Service errors
var (
	// ErrNoActiveCharge is returned only when the resolver runs with
	// fail-open disabled and the schedule has no active charge for the
	// requested category.
	ErrNoActiveCharge = errors.New("no active charge for category")

	ErrLookupFailed = errors.New("fee lookup failed")
)
