package fern

import "github.com/matzehuels/barnsley/pkg/errors"

// DefaultPoints is the point count used when none is given.
const DefaultPoints = 25000

// Generate produces n points of the Barnsley fern using the fixed table.
// It fails with INVALID_ARGUMENT when n < 1 or rng is nil.
func Generate(n int, rng RandomSource) (*Sequence, error) {
	return GenerateWith(Barnsley(), n, rng)
}

// GenerateWith runs the chaos game over an arbitrary transform set.
// A nil set means [Barnsley].
func GenerateWith(set *TransformSet, n int, rng RandomSource) (*Sequence, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "point count must be >= 1, got %d", n)
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "random source is required")
	}
	if set == nil {
		set = Barnsley()
	}

	points := make([]Point, n)
	applied := make([]int8, n)
	applied[0] = NoTransform

	for i := 1; i < n; i++ {
		k := set.Select(rng.Float64())
		points[i] = set.rules[k].Apply(points[i-1])
		applied[i] = int8(k)
	}

	return &Sequence{set: set, points: points, applied: applied}, nil
}

func errInvalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}
