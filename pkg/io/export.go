package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
)

type document struct {
	Points     [][2]float64 `json:"points"`
	Transforms []int        `json:"transforms"`
	Rules      []rule       `json:"rules,omitempty"`
}

type rule struct {
	Name       string  `json:"name,omitempty"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	C          float64 `json:"c"`
	D          float64 `json:"d"`
	E          float64 `json:"e"`
	F          float64 `json:"f"`
	Cumulative float64 `json:"cumulative"`
}

// WriteJSON encodes seq as JSON and writes it to w.
// Rules are only written when seq was not generated from [fern.Barnsley].
func WriteJSON(seq *fern.Sequence, w io.Writer) error {
	if seq == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "sequence is required")
	}

	out := document{
		Points:     make([][2]float64, seq.Len()),
		Transforms: make([]int, seq.Len()),
	}
	for i := 0; i < seq.Len(); i++ {
		p := seq.At(i)
		out.Points[i] = [2]float64{p.X, p.Y}
		out.Transforms[i] = seq.TransformAt(i)
	}
	if set := seq.Transforms(); set != fern.Barnsley() {
		for _, r := range set.Rules() {
			out.Rules = append(out.Rules, rule{
				Name: r.Name,
				A:    r.A, B: r.B, C: r.C, D: r.D,
				E: r.E, F: r.F,
				Cumulative: r.Cumulative,
			})
		}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode")
	}
	return nil
}

// ExportJSON writes seq to a JSON file at path.
func ExportJSON(seq *fern.Sequence, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := WriteJSON(seq, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
