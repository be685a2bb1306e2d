package matching

import "errors"

// Domain errors. The scoring path itself never returns an error; these cover
// construction around it.
var (
	// ErrInvalidSlot - a slot key that does not parse to (weekday, hour).
	ErrInvalidSlot = errors.New("invalid availability slot")

	// ErrInvalidPolicy - a scoring policy with out-of-range values.
	ErrInvalidPolicy = errors.New("invalid scoring policy")
)
