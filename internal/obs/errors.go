package obs

import "errors"

// ErrEmptyCollection is returned when a reduction is attempted over a
// collection with zero matching observations. It indicates no coverage for
// the requested time or place and must be surfaced, never silently defaulted.
var ErrEmptyCollection = errors.New("no observations match filter")
