// Package safe converts between integer types and reports values that do not fit the
// target type.
package safe

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by every conversion failure.
var ErrOutOfRange = errors.New("value out of range")

type integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

func outOfRange[T integer](v T, target string) error {
	return fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, v, target)
}

// Uint32 converts v, rejecting negatives and values above math.MaxUint32.
func Uint32[T integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, outOfRange(v, "uint32")
	}
	return uint32(v), nil
}

// Uint64 converts v, rejecting negatives.
func Uint64[T integer](v T) (uint64, error) {
	if v < 0 {
		return 0, outOfRange(v, "uint64")
	}
	return uint64(v), nil
}

// Int64 converts v, rejecting unsigned values above math.MaxInt64.
func Int64[T integer](v T) (int64, error) {
	if v >= 0 && uint64(v) > math.MaxInt64 {
		return 0, outOfRange(v, "int64")
	}
	return int64(v), nil
}
