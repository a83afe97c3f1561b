package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
	fernio "github.com/matzehuels/barnsley/pkg/io"
	"github.com/matzehuels/barnsley/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(seq *fern.Sequence, opts Options) (map[string][]byte, error) {
	if seq == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "sequence is required")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG, FormatSVG:
			data, err = render.Render(seq, opts.RenderOptions(format))
		case FormatJSON:
			data, err = encodeSequence(seq)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func encodeSequence(seq *fern.Sequence) ([]byte, error) {
	var buf bytes.Buffer
	if err := fernio.WriteJSON(seq, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeSequence(data []byte) (*fern.Sequence, error) {
	return fernio.ReadJSON(bytes.NewReader(data))
}
