package render

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
	"github.com/matzehuels/barnsley/pkg/fonts"
)

// Tick spacing on both axes.
const (
	majorStep = 0.1
	minorStep = 0.02
)

var (
	colorGray      = drawing.ColorFromHex("808080")
	colorLightGray = drawing.ColorFromHex("d3d3d3")
	colorGuide     = drawing.ColorFromHex("ff0000").WithAlpha(153)
)

// transformPalette colours points by rule index when ColorByTransform is set.
// Sets larger than the palette reuse it cyclically.
var transformPalette = []drawing.Color{
	drawing.ColorFromHex("6d4c41"), // stem
	drawing.ColorFromHex("2e7d32"), // main leaflets
	drawing.ColorFromHex("66bb6a"), // left leaflet
	drawing.ColorFromHex("1b5e20"), // right leaflet
}

// Render draws seq as a scatter plot in opts.Format.
func Render(seq *fern.Sequence, opts Options) ([]byte, error) {
	if seq == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "sequence is required")
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c, err := newChart(seq, opts)
	if err != nil {
		return nil, err
	}

	var provider chart.RendererProvider
	switch opts.Format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	}

	var buf bytes.Buffer
	if err := c.Render(provider, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "render %s", opts.Format)
	}
	return buf.Bytes(), nil
}

func newChart(seq *fern.Sequence, opts Options) (chart.Chart, error) {
	regular, err := fonts.Regular()
	if err != nil {
		return chart.Chart{}, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	bold, err := fonts.Bold()
	if err != nil {
		return chart.Chart{}, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	pointColor, _ := parseHex(opts.Color)

	c := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
		Font:   regular,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 24, Left: 24, Right: 32, Bottom: 24},
		},
		Canvas: chart.Style{
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 1,
		},
		Series: pointSeries(seq, opts, pointColor),
	}

	axisRange := &chart.ContinuousRange{Min: AxisMin, Max: AxisMax}
	if opts.Style == StyleMinimal {
		c.XAxis = chart.XAxis{Style: chart.Hidden(), Range: axisRange}
		c.YAxis = chart.YAxis{Style: chart.Hidden(), Range: &chart.ContinuousRange{Min: AxisMin, Max: AxisMax}}
		return c, nil
	}

	ticks := axisTicks(majorTicks())
	grid := gridLines()
	labelStyle := chart.Style{FontSize: 7, FontColor: colorGray}
	nameStyle := chart.Style{FontSize: 10, FontColor: drawing.ColorBlack, Font: bold}
	majorGrid := chart.Style{StrokeColor: colorGray.WithAlpha(102), StrokeWidth: 0.4}
	minorGrid := chart.Style{StrokeColor: colorLightGray.WithAlpha(51), StrokeWidth: 0.2, StrokeDashArray: []float64{1, 2}}

	c.XAxis = chart.XAxis{
		Name:           "X Coordinate (0 to 3)",
		NameStyle:      nameStyle,
		Style:          labelStyle,
		Range:          axisRange,
		Ticks:          ticks,
		GridLines:      grid,
		GridMajorStyle: majorGrid,
		GridMinorStyle: minorGrid,
	}
	c.YAxis = chart.YAxis{
		Name:           "Y Coordinate (0 to 3)",
		NameStyle:      nameStyle,
		Style:          labelStyle,
		Range:          &chart.ContinuousRange{Min: AxisMin, Max: AxisMax},
		Ticks:          ticks,
		GridLines:      grid,
		GridMajorStyle: majorGrid,
		GridMinorStyle: minorGrid,
	}
	c.Series = append(c.Series, guideSeries()...)
	c.Series = append(c.Series, tickEmphasis{
		ticks: unitTicks(),
		style: chart.Style{Font: bold, FontSize: 9, FontColor: drawing.ColorBlack},
	})
	return c, nil
}

// pointSeries projects the sequence into one dot-only series, or one per rule
// when colouring by transform.
func pointSeries(seq *fern.Sequence, opts Options, pointColor drawing.Color) []chart.Series {
	if !opts.ColorByTransform {
		xs := make([]float64, seq.Len())
		ys := make([]float64, seq.Len())
		for i := 0; i < seq.Len(); i++ {
			p := opts.Project(seq.At(i))
			xs[i], ys[i] = p.X, p.Y
		}
		return []chart.Series{chart.ContinuousSeries{
			Name:    "fern",
			XValues: xs,
			YValues: ys,
			Style:   dotStyle(pointColor, opts.DotSize),
		}}
	}

	set := seq.Transforms()
	xs := make([][]float64, set.Len())
	ys := make([][]float64, set.Len())
	for i := 0; i < seq.Len(); i++ {
		k := seq.TransformAt(i)
		if k == fern.NoTransform {
			k = fern.Stem
		}
		p := opts.Project(seq.At(i))
		xs[k] = append(xs[k], p.X)
		ys[k] = append(ys[k], p.Y)
	}

	var series []chart.Series
	for k := range xs {
		if len(xs[k]) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    set.Rule(k).Name,
			XValues: xs[k],
			YValues: ys[k],
			Style:   dotStyle(transformPalette[k%len(transformPalette)], opts.DotSize),
		})
	}
	return series
}

func dotStyle(c drawing.Color, size float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    size,
		DotColor:    c.WithAlpha(230),
	}
}

// guideSeries draws the dotted reference lines through the origin.
func guideSeries() []chart.Series {
	style := chart.Style{
		StrokeColor:     colorGuide,
		StrokeWidth:     1,
		StrokeDashArray: []float64{1, 3},
	}
	return []chart.Series{
		chart.ContinuousSeries{Name: "x=0", XValues: []float64{0, 0}, YValues: []float64{AxisMin, AxisMax}, Style: style},
		chart.ContinuousSeries{Name: "y=0", XValues: []float64{AxisMin, AxisMax}, YValues: []float64{0, 0}, Style: style},
	}
}

// majorTicks returns labelled ticks every 0.1 across the axis window.
func majorTicks() []chart.Tick {
	n := int(math.Round((AxisMax - AxisMin) / majorStep))
	ticks := make([]chart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := AxisMin + float64(i)*majorStep
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.1f", v)})
	}
	return ticks
}

// unitTicks returns the whole-number ticks whose labels are emphasised.
func unitTicks() []chart.Tick {
	var ticks []chart.Tick
	for _, t := range majorTicks() {
		if isUnit(t.Value) {
			ticks = append(ticks, t)
		}
	}
	return ticks
}

// axisTicks blanks the whole-number labels; tickEmphasis draws them instead.
func axisTicks(ticks []chart.Tick) []chart.Tick {
	out := make([]chart.Tick, len(ticks))
	for i, t := range ticks {
		if isUnit(t.Value) {
			t.Label = ""
		}
		out[i] = t
	}
	return out
}

func isUnit(v float64) bool {
	return math.Abs(v-math.Round(v)) < majorStep/2
}

// tickEmphasis is an overlay series that draws unit tick labels on both axes
// in its own style. Positions follow the go-chart axis label layout with the
// primary y axis on the right.
type tickEmphasis struct {
	ticks []chart.Tick
	style chart.Style
}

func (tickEmphasis) GetName() string           { return "tick emphasis" }
func (tickEmphasis) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (e tickEmphasis) GetStyle() chart.Style   { return e.style }
func (tickEmphasis) Validate() error           { return nil }

func (e tickEmphasis) Render(r chart.Renderer, canvas chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	for _, t := range e.ticks {
		tb := chart.Draw.MeasureText(r, t.Label, e.style)

		x := canvas.Left + xrange.Translate(t.Value) - tb.Width()>>1
		chart.Draw.Text(r, t.Label, x, canvas.Bottom+chart.DefaultXAxisMargin+tb.Height(), e.style)

		y := canvas.Bottom - yrange.Translate(t.Value) + tb.Height()>>1
		chart.Draw.Text(r, t.Label, canvas.Right+int(chart.DefaultAxisLineWidth)+chart.DefaultYAxisMargin, y, e.style)
	}
}

// gridLines returns the major and minor grid across the axis window.
func gridLines() []chart.GridLine {
	n := int(math.Round((AxisMax - AxisMin) / minorStep))
	perMajor := int(math.Round(majorStep / minorStep))
	lines := make([]chart.GridLine, 0, n+1)
	for i := 0; i <= n; i++ {
		lines = append(lines, chart.GridLine{
			Value:   AxisMin + float64(i)*minorStep,
			IsMinor: i%perMajor != 0,
		})
	}
	return lines
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func parseHex(s string) (drawing.Color, error) {
	if !hexColor.MatchString(s) {
		return drawing.Color{}, errors.New(errors.ErrCodeInvalidArgument, "invalid colour %q (want hex like #2e7d32)", s)
	}
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#")), nil
}
