// Package pipeline runs the generate → render pipeline for barnsley.
//
// The CLI commands share this package so that caching, validation, and
// logging behave the same whether a fern is saved, exported, or previewed.
//
// # Stages
//
//  1. Generate: run the chaos game for Points iterations
//  2. Render: draw the sequence in each requested format (png, svg, json)
//
// Seeded runs are cached by (points, seed), so re-rendering a known fern with
// different styling skips generation. Unseeded runs draw from a fresh random
// source and never touch the point cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Points:  25000,
//	    Seed:    42,
//	    Formats: []string{"png", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/barnsley/pkg/cache"
	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
	"github.com/matzehuels/barnsley/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

// DefaultPoints is the number of chaos-game iterations.
const DefaultPoints = fern.DefaultPoints

// Format constants for output formats.
const (
	FormatPNG  = render.FormatPNG
	FormatSVG  = render.FormatSVG
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Generate options
	Points  int    `json:"points,omitempty"`
	Seed    uint64 `json:"seed,omitempty"` // 0 means unseeded
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Formats          []string `json:"formats,omitempty"`
	Scale            float64  `json:"scale,omitempty"`
	OffsetX          float64  `json:"offset_x,omitempty"`
	OffsetY          float64  `json:"offset_y,omitempty"`
	Width            int      `json:"width,omitempty"`
	Height           int      `json:"height,omitempty"`
	DPI              float64  `json:"dpi,omitempty"`
	Style            string   `json:"style,omitempty"`
	Color            string   `json:"color,omitempty"`
	DotSize          float64  `json:"dot_size,omitempty"`
	ColorByTransform bool     `json:"color_by_transform,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// RandomSource overrides the seed. Runs with an injected source are
	// never cached.
	RandomSource fern.RandomSource `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Sequence is the generated point sequence.
	Sequence *fern.Sequence

	// PointsHash is the content hash of the sequence's JSON encoding.
	PointsHash string

	// Summary describes the sequence for console output.
	Summary render.Summary

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points       int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the sequence came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// newRunID returns a random identifier for a pipeline run.
func newRunID() string {
	return uuid.NewString()
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the point count and sets generation defaults.
func (o *Options) ValidateForGenerate() error {
	if o.Points == 0 {
		o.Points = DefaultPoints
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidatePointCount(o.Points)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	ro := o.RenderOptions(FormatPNG)
	ro.SetDefaults()
	o.Scale, o.OffsetX, o.OffsetY = ro.Scale, ro.OffsetX, ro.OffsetY
	o.Width, o.Height, o.DPI = ro.Width, ro.Height, ro.DPI
	o.Style, o.Color, o.DotSize = ro.Style, ro.Color, ro.DotSize
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	ro := o.RenderOptions(FormatPNG)
	return ro.Validate()
}

// Seeded reports whether the run is reproducible and therefore cacheable.
func (o *Options) Seeded() bool {
	return o.Seed != 0 && o.RandomSource == nil
}

// RenderOptions returns the renderer options for one image format.
func (o *Options) RenderOptions(format string) render.Options {
	return render.Options{
		Scale:            o.Scale,
		OffsetX:          o.OffsetX,
		OffsetY:          o.OffsetY,
		Width:            o.Width,
		Height:           o.Height,
		DPI:              o.DPI,
		Format:           format,
		Style:            o.Style,
		Color:            o.Color,
		DotSize:          o.DotSize,
		ColorByTransform: o.ColorByTransform,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// JSON output does not depend on styling, so only the format is keyed.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if format == FormatJSON {
		return cache.ArtifactKeyOpts{Format: format}
	}
	return cache.ArtifactKeyOpts{
		Format:           format,
		Style:            o.Style,
		Scale:            o.Scale,
		OffsetX:          o.OffsetX,
		OffsetY:          o.OffsetY,
		Width:            o.Width,
		Height:           o.Height,
		DPI:              o.DPI,
		Color:            o.Color,
		DotSize:          o.DotSize,
		ColorByTransform: o.ColorByTransform,
	}
}
