package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
)

// ReadJSON decodes a JSON point sequence from r.
//
// ReadJSON returns an INVALID_INPUT error if:
//   - The JSON is malformed
//   - The point list is empty or does not start at the origin
//   - The transform list is missing or differs in length from the point list
//   - A transform index does not refer to a rule
//   - The rules array does not form a valid transform set
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*fern.Sequence, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}

	set := fern.Barnsley()
	if len(data.Rules) > 0 {
		rules := make([]fern.Rule, len(data.Rules))
		for i, r := range data.Rules {
			rules[i] = fern.Rule{
				Transform: fern.Transform{
					Name: r.Name,
					A:    r.A, B: r.B, C: r.C, D: r.D,
					E: r.E, F: r.F,
				},
				Cumulative: r.Cumulative,
			}
		}
		var err error
		if set, err = fern.NewTransformSet(rules); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "rules")
		}
	}

	points := make([]fern.Point, len(data.Points))
	for i, p := range data.Points {
		points[i] = fern.Point{X: p[0], Y: p[1]}
	}
	return fern.FromPoints(set, points, data.Transforms)
}

// ImportJSON reads a JSON file at path and returns the decoded sequence.
// A missing file fails with FILE_NOT_FOUND.
func ImportJSON(path string) (*fern.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
