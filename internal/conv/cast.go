package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// MaxIndex is the largest record index a row set can hold.
const MaxIndex = math.MaxUint32

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > MaxIndex {
		return 0, fmt.Errorf("%w: %d out of range [0, %d]", ErrOverflow, v, uint64(MaxIndex))
	}
	return uint32(v), nil
}
