package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow reports a value that does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// Integer is the set of types whose values ToInt accepts.
type Integer interface {
	~int64 | ~uint64 | ~uint32
}

// ToInt converts v to int, failing if it is negative or exceeds math.MaxInt.
// Negative values are rejected because every caller converts a count.
func ToInt[T Integer](v T) (int, error) {
	if v < 0 || uint64(v) > math.MaxInt {
		return 0, fmt.Errorf("%w: %d does not fit a non-negative int", ErrOverflow, v)
	}
	return int(v), nil
}

// IntToUint64 converts a non-negative int to uint64.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, v)
	}
	return uint64(v), nil
}
