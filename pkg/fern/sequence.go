package fern

import "math"

// NoTransform is reported by [Sequence.TransformAt] for the origin.
const NoTransform = -1

// Sequence is a finished, read-only run of the chaos game.
type Sequence struct {
	set     *TransformSet
	points  []Point
	applied []int8
}

// Len returns the number of points.
func (s *Sequence) Len() int { return len(s.points) }

// At returns point i.
func (s *Sequence) At(i int) Point { return s.points[i] }

// TransformAt returns the index of the rule that produced point i,
// or [NoTransform] for i == 0.
func (s *Sequence) TransformAt(i int) int { return int(s.applied[i]) }

// Transforms returns the set the sequence was generated from.
func (s *Sequence) Transforms() *TransformSet { return s.set }

// Points returns a copy of all points.
func (s *Sequence) Points() []Point {
	return append([]Point(nil), s.points...)
}

// X returns a copy of the x coordinates.
func (s *Sequence) X() []float64 {
	xs := make([]float64, len(s.points))
	for i, p := range s.points {
		xs[i] = p.X
	}
	return xs
}

// Y returns a copy of the y coordinates.
func (s *Sequence) Y() []float64 {
	ys := make([]float64, len(s.points))
	for i, p := range s.points {
		ys[i] = p.Y
	}
	return ys
}

// Counts returns how many points each rule produced. The origin is not
// counted, so the counts sum to Len()-1.
func (s *Sequence) Counts() []int {
	counts := make([]int, s.set.Len())
	for _, k := range s.applied[1:] {
		counts[k]++
	}
	return counts
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the bounding box of all points.
func (s *Sequence) Bounds() Bounds {
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for _, p := range s.points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// FromPoints rebuilds a sequence from stored points and rule indices, as
// written by an earlier run. applied[0] must be [NoTransform] and every other
// entry must index into set.
func FromPoints(set *TransformSet, points []Point, applied []int) (*Sequence, error) {
	if set == nil {
		set = Barnsley()
	}
	if len(points) == 0 {
		return nil, errInvalid("sequence is empty")
	}
	if len(applied) != len(points) {
		return nil, errInvalid("have %d points but %d transform indices", len(points), len(applied))
	}
	if points[0] != (Point{}) {
		return nil, errInvalid("first point must be the origin, got (%v, %v)", points[0].X, points[0].Y)
	}
	if applied[0] != NoTransform {
		return nil, errInvalid("origin must not record a transform, got %d", applied[0])
	}

	idx := make([]int8, len(applied))
	idx[0] = NoTransform
	for i, k := range applied[1:] {
		if k < 0 || k >= set.Len() {
			return nil, errInvalid("point %d: transform index %d out of range", i+1, k)
		}
		idx[i+1] = int8(k)
	}

	return &Sequence{set: set, points: append([]Point(nil), points...), applied: idx}, nil
}
