package render

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
)

// Defaults match the classic presentation of the fern.
const (
	DefaultScale    = 0.15
	DefaultOffsetX  = 1.5
	DefaultOffsetY  = 0.5
	DefaultWidth    = 1200
	DefaultHeight   = 900
	DefaultDPI      = 150
	DefaultDotSize  = 0.8
	DefaultColor    = "#000000"
	DefaultSavePath = "barnsley_fern_fractal.png"
)

// Axis window shared by both axes.
const (
	AxisMin = 0.0
	AxisMax = 3.0
)

// Image formats produced by [Render].
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Visual styles.
const (
	// StyleClassic draws the full grid, tick labels and reference guides.
	StyleClassic = "classic"
	// StyleMinimal draws the points on a bare white canvas.
	StyleMinimal = "minimal"
)

// ValidFormats is the set of image formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
}

// ValidStyles is the set of visual styles.
var ValidStyles = map[string]bool{
	StyleClassic: true,
	StyleMinimal: true,
}

// Options controls how a sequence is drawn.
type Options struct {
	Scale   float64 `json:"scale,omitempty"`
	OffsetX float64 `json:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty"`

	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	DPI     float64 `json:"dpi,omitempty"`
	Format  string  `json:"format,omitempty"`
	Style   string  `json:"style,omitempty"`
	Color   string  `json:"color,omitempty"` // hex, e.g. "#000000"
	DotSize float64 `json:"dot_size,omitempty"`

	// ColorByTransform paints each point with the colour of the rule that
	// produced it instead of Color.
	ColorByTransform bool `json:"color_by_transform,omitempty"`

	SavePath string `json:"-"`
}

// SetDefaults fills zero-valued fields. Offsets of exactly zero are kept
// only when Scale was also given, so a zero Options means "classic layout".
func (o *Options) SetDefaults() {
	if o.Scale == 0 {
		o.Scale = DefaultScale
		if o.OffsetX == 0 && o.OffsetY == 0 {
			o.OffsetX = DefaultOffsetX
			o.OffsetY = DefaultOffsetY
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Format == "" {
		o.Format = FormatFromPath(o.SavePath)
	}
	if o.Style == "" {
		o.Style = StyleClassic
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.DotSize == 0 {
		o.DotSize = DefaultDotSize
	}
	if o.SavePath == "" {
		o.SavePath = DefaultSavePath
	}
}

// Validate checks option values. Call SetDefaults first.
func (o *Options) Validate() error {
	if err := errors.ValidateScale(o.Scale); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "image size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "dpi must be positive, got %v", o.DPI)
	}
	if o.DotSize <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "dot size must be positive, got %v", o.DotSize)
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if _, err := parseHex(o.Color); err != nil {
		return err
	}
	return nil
}

// Project maps a fern coordinate into the plotted window.
func (o Options) Project(p fern.Point) fern.Point {
	return fern.Point{
		X: p.X*o.Scale + o.OffsetX,
		Y: p.Y*o.Scale + o.OffsetY,
	}
}

// ValidateFormat checks that a format is a supported image format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg)", format)
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: classic, minimal)", style)
	}
	return nil
}

// FormatFromPath infers the image format from a file extension, defaulting
// to PNG.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ValidFormats[ext] {
		return ext
	}
	return FormatPNG
}
