package fern

import (
	"math"

	"github.com/matzehuels/barnsley/pkg/errors"
)

// Indices of the rules in the [Barnsley] transform set.
const (
	Stem = iota
	MainLeaflets
	LeftLeaflet
	RightLeaflet
)

// maxRules is the largest transform set a [Sequence] can record.
const maxRules = math.MaxInt8

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Transform is the affine map x' = A·x + B·y + E, y' = C·x + D·y + F.
type Transform struct {
	Name       string
	A, B, C, D float64
	E, F       float64
}

// Apply maps p through t.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.E,
		Y: t.C*p.X + t.D*p.Y + t.F,
	}
}

// Rule pairs a transform with the cumulative upper bound of its selection
// interval. The rule owns [previous bound, Cumulative).
type Rule struct {
	Transform
	Cumulative float64
}

// TransformSet is an ordered, validated list of rules whose cumulative bounds
// partition [0,1). It is immutable once built.
type TransformSet struct {
	rules []Rule
}

// NewTransformSet validates rules and returns a set that owns a copy of them.
//
// The bounds must be finite, lie in [0,1], never decrease, and the last one
// must equal 1.0 so every draw in [0,1) selects some rule.
func NewTransformSet(rules []Rule) (*TransformSet, error) {
	if len(rules) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "transform set needs at least one rule")
	}
	if len(rules) > maxRules {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "transform set has %d rules (max %d)", len(rules), maxRules)
	}

	prev := 0.0
	for i, r := range rules {
		c := r.Cumulative
		if math.IsNaN(c) || c < 0 || c > 1 {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "rule %d: cumulative bound %v outside [0,1]", i, c)
		}
		if c < prev {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "rule %d: cumulative bound %v below previous %v", i, c, prev)
		}
		prev = c
	}
	if prev != 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "last cumulative bound must be 1.0, got %v", prev)
	}

	return &TransformSet{rules: append([]Rule(nil), rules...)}, nil
}

// Len returns the number of rules.
func (s *TransformSet) Len() int { return len(s.rules) }

// Rule returns rule i.
func (s *TransformSet) Rule(i int) Rule { return s.rules[i] }

// Rules returns a copy of the rules in selection order.
func (s *TransformSet) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Select returns the index of the first rule whose cumulative bound exceeds r.
// Draws at or beyond 1.0 fall to the last rule.
func (s *TransformSet) Select(r float64) int {
	for i, rule := range s.rules {
		if r < rule.Cumulative {
			return i
		}
	}
	return len(s.rules) - 1
}

// Probabilities returns the nominal selection probability of each rule.
func (s *TransformSet) Probabilities() []float64 {
	out := make([]float64, len(s.rules))
	prev := 0.0
	for i, r := range s.rules {
		out[i] = r.Cumulative - prev
		prev = r.Cumulative
	}
	return out
}

var barnsley = mustTransformSet([]Rule{
	{Transform: Transform{Name: "Stem", D: 0.25}, Cumulative: 0.01},
	{Transform: Transform{Name: "Main leaflets", A: 0.80, B: 0.08, C: -0.08, D: 0.80, F: 1.8}, Cumulative: 0.86},
	{Transform: Transform{Name: "Left leaflet", A: 0.30, B: -0.35, C: 0.35, D: 0.30, F: 1.8}, Cumulative: 0.93},
	{Transform: Transform{Name: "Right leaflet", A: -0.25, B: 0.35, C: 0.35, D: 0.30, F: 0.6}, Cumulative: 1.00},
})

// Barnsley returns the fixed four-rule fern table.
func Barnsley() *TransformSet { return barnsley }

func mustTransformSet(rules []Rule) *TransformSet {
	s, err := NewTransformSet(rules)
	if err != nil {
		panic(err)
	}
	return s
}
