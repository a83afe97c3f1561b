package render

import "github.com/matzehuels/barnsley/pkg/fern"

// Summary describes a generated fern for console reporting.
type Summary struct {
	Points       int         `json:"points"`
	Bounds       fern.Bounds `json:"bounds"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	Scale        float64     `json:"scale"`
	ScaledWidth  float64     `json:"scaled_width"`
	ScaledHeight float64     `json:"scaled_height"`
	Counts       []int       `json:"counts"`
}

// Summarize reports the size of seq before and after scaling.
// A zero scale means [DefaultScale].
func Summarize(seq *fern.Sequence, scale float64) Summary {
	if scale == 0 {
		scale = DefaultScale
	}
	b := seq.Bounds()
	return Summary{
		Points:       seq.Len(),
		Bounds:       b,
		Width:        b.Width(),
		Height:       b.Height(),
		Scale:        scale,
		ScaledWidth:  b.Width() * scale,
		ScaledHeight: b.Height() * scale,
		Counts:       seq.Counts(),
	}
}
