package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/pipeline"
	"github.com/matzehuels/barnsley/pkg/render"
)

// renderFlags are the rendering overrides shared by the root and plot
// commands. Only flags the user actually set replace config values.
type renderFlags struct {
	formats          string
	scale            float64
	offsetX          float64
	offsetY          float64
	width            int
	height           int
	style            string
	color            string
	dotSize          float64
	colorByTransform bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	fs.Float64Var(&f.scale, "scale", render.DefaultScale, "scale factor applied to every point")
	fs.Float64Var(&f.offsetX, "offset-x", render.DefaultOffsetX, "x offset added after scaling")
	fs.Float64Var(&f.offsetY, "offset-y", render.DefaultOffsetY, "y offset added after scaling")
	fs.IntVar(&f.width, "width", render.DefaultWidth, "image width in pixels")
	fs.IntVar(&f.height, "height", render.DefaultHeight, "image height in pixels")
	fs.StringVar(&f.style, "style", render.StyleClassic, "visual style: classic, minimal")
	fs.StringVar(&f.color, "color", render.DefaultColor, "point colour as hex")
	fs.Float64Var(&f.dotSize, "dot-size", render.DefaultDotSize, "point radius")
	fs.BoolVar(&f.colorByTransform, "color-by-transform", false, "colour points by the map that produced them")
}

// apply copies every changed flag onto opts. Explicit zero sizes are
// rejected here, since downstream a zero value means "use the default".
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	changed := cmd.Flags().Changed
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("scale") {
		if err := errors.ValidateScale(f.scale); err != nil {
			return err
		}
		opts.Scale = f.scale
	}
	if changed("offset-x") {
		opts.OffsetX = f.offsetX
	}
	if changed("offset-y") {
		opts.OffsetY = f.offsetY
	}
	if changed("width") {
		if f.width <= 0 {
			return errors.New(errors.ErrCodeInvalidArgument, "width must be positive, got %d", f.width)
		}
		opts.Width = f.width
	}
	if changed("height") {
		if f.height <= 0 {
			return errors.New(errors.ErrCodeInvalidArgument, "height must be positive, got %d", f.height)
		}
		opts.Height = f.height
	}
	if changed("style") {
		opts.Style = f.style
	}
	if changed("color") {
		opts.Color = f.color
	}
	if changed("dot-size") {
		if f.dotSize <= 0 {
			return errors.New(errors.ErrCodeInvalidArgument, "dot size must be positive, got %v", f.dotSize)
		}
		opts.DotSize = f.dotSize
	}
	if changed("color-by-transform") {
		opts.ColorByTransform = f.colorByTransform
	}
	return nil
}
