// Package fern generates the Barnsley Fern point cloud.
//
// The fern is the attractor of an Iterated Function System: four affine maps,
// each picked with a fixed probability, applied over and over to a single
// moving point. Every application lands somewhere on the fern, so the first N
// positions visited form an increasingly detailed picture of it.
//
// # Transforms
//
// The fixed table returned by [Barnsley] holds four rules, in order:
//
//	Stem           p=0.01  x' = 0                   y' = 0.25y
//	Main leaflets  p=0.85  x' = 0.80x + 0.08y       y' = -0.08x + 0.80y + 1.8
//	Left leaflet   p=0.07  x' = 0.30x - 0.35y       y' = 0.35x + 0.30y + 1.8
//	Right leaflet  p=0.07  x' = -0.25x + 0.35y      y' = 0.35x + 0.30y + 0.6
//
// Each rule stores its cumulative upper bound (0.01, 0.86, 0.93, 1.00). A draw
// r in [0,1) selects the first rule whose bound exceeds r.
//
// # Randomness
//
// Randomness is injected through [RandomSource], which any *rand.Rand from
// math/rand/v2 satisfies. Use [NewSource] for a reproducible stream:
//
//	seq, err := fern.Generate(25000, fern.NewSource(42))
//	if err != nil {
//	    return err
//	}
//	b := seq.Bounds()
//	fmt.Printf("%d points, %.2f x %.2f\n", seq.Len(), b.Width(), b.Height())
//
// # Sequences
//
// [Generate] returns an immutable [Sequence]. Index 0 is always the origin;
// every later point is the image of its predecessor under the rule recorded
// by [Sequence.TransformAt]. Accessors that return slices return copies.
//
// Generation is a pure function of N and the random stream: it performs no
// I/O, never retries, and either returns all N points or fails with an
// INVALID_ARGUMENT error before producing anything.
package fern
