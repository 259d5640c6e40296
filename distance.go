package glyphmatch

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DimensionMismatchError is returned when two descriptors of different
// lengths are compared. Extract always produces DescriptorLen components,
// so seeing this error indicates a programming mistake.
type DimensionMismatchError struct {
	Left, Right int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("descriptor dimension mismatch: %d vs %d", e.Left, e.Right)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Descriptor) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Left: len(a), Right: len(b)}
	}
	return floats.Distance(a, b, 2), nil
}
