package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
)

func testSequence(t *testing.T, n int) *fern.Sequence {
	t.Helper()
	seq, err := fern.Generate(n, fern.NewSource(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return seq
}

func TestRenderPNG(t *testing.T) {
	seq := testSequence(t, 2000)

	data, err := Render(seq, Options{Width: 400, Height: 300})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 300 {
		t.Errorf("PNG size = %dx%d, want 400x300", cfg.Width, cfg.Height)
	}
}

func TestRenderSVG(t *testing.T) {
	seq := testSequence(t, 500)

	data, err := Render(seq, Options{Format: FormatSVG})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	svg := string(data)
	if !strings.Contains(svg, "<svg") {
		t.Error("output should contain an <svg> element")
	}
	if !strings.Contains(svg, "X Coordinate (0 to 3)") {
		t.Error("output should contain the x axis title")
	}
}

func TestRenderStyles(t *testing.T) {
	seq := testSequence(t, 500)

	for _, opts := range []Options{
		{Style: StyleMinimal},
		{ColorByTransform: true},
		{Color: "#2e7d32", DotSize: 2},
	} {
		if _, err := Render(seq, opts); err != nil {
			t.Errorf("Render(%+v) error: %v", opts, err)
		}
	}
}

func TestRenderSinglePoint(t *testing.T) {
	if _, err := Render(testSequence(t, 1), Options{}); err != nil {
		t.Errorf("Render() of the origin alone should succeed: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Render(nil) err = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := Render(testSequence(t, 10), Options{Format: "bmp"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(bmp) err = %v, want INVALID_FORMAT", err)
	}
}

func TestTicksAndGrid(t *testing.T) {
	ticks := majorTicks()
	if len(ticks) != 31 {
		t.Fatalf("majorTicks() = %d ticks, want 31", len(ticks))
	}
	if ticks[0].Label != "0.0" || ticks[30].Label != "3.0" || ticks[15].Label != "1.5" {
		t.Errorf("unexpected tick labels: %q %q %q", ticks[0].Label, ticks[15].Label, ticks[30].Label)
	}

	grid := gridLines()
	if len(grid) != 151 {
		t.Fatalf("gridLines() = %d lines, want 151", len(grid))
	}
	major := 0
	for _, gl := range grid {
		if !gl.IsMinor {
			major++
		}
	}
	if major != 31 {
		t.Errorf("major grid lines = %d, want 31", major)
	}
}

func TestUnitTickLabels(t *testing.T) {
	units := unitTicks()
	var labels []string
	for _, tk := range units {
		labels = append(labels, tk.Label)
	}
	if got := strings.Join(labels, ","); got != "0.0,1.0,2.0,3.0" {
		t.Errorf("unitTicks() labels = %s, want 0.0,1.0,2.0,3.0", got)
	}

	axis := axisTicks(majorTicks())
	for i, tk := range axis {
		blank := tk.Label == ""
		if want := i%10 == 0; blank != want {
			t.Errorf("axis tick %d (%.1f) label %q, blank = %v want %v", i, tk.Value, tk.Label, blank, want)
		}
	}
}

func TestRenderSVGEmphasisesUnitLabels(t *testing.T) {
	data, err := Render(testSequence(t, 500), Options{Format: FormatSVG})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	svg := string(data)

	label := func(text string) []string {
		re := regexp.MustCompile(`<text [^>]*style="([^"]*)"[^>]*>` + regexp.QuoteMeta(text) + `</text>`)
		var styles []string
		for _, m := range re.FindAllStringSubmatch(svg, -1) {
			styles = append(styles, m[1])
		}
		return styles
	}

	for _, text := range []string{"0.0", "1.0", "2.0", "3.0"} {
		styles := label(text)
		if len(styles) != 2 {
			t.Fatalf("label %s drawn %d times, want 2 (one per axis)", text, len(styles))
		}
		for _, st := range styles {
			if !strings.Contains(st, "fill:rgba(0,0,0,1.0)") {
				t.Errorf("label %s style %q, want black", text, st)
			}
		}
	}

	emph, plain := label("1.0")[0], label("1.5")
	if len(plain) != 2 {
		t.Fatalf("label 1.5 drawn %d times, want 2", len(plain))
	}
	if !strings.Contains(plain[0], "fill:rgba(128,128,128,1.0)") {
		t.Errorf("label 1.5 style %q, want gray", plain[0])
	}
	if fontSize(t, emph) <= fontSize(t, plain[0]) {
		t.Errorf("emphasised label font %q not larger than plain %q", emph, plain[0])
	}
}

func fontSize(t *testing.T, style string) float64 {
	t.Helper()
	m := regexp.MustCompile(`font-size:([0-9.]+)px`).FindStringSubmatch(style)
	if m == nil {
		t.Fatalf("no font-size in %q", style)
	}
	px, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		t.Fatalf("font-size %q: %v", m[1], err)
	}
	return px
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "fern.png")

	if err := Save(path, []byte("data")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Errorf("saved %q, want %q", got, "data")
	}
}

func TestSaveUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := Save(filepath.Join(blocker, "fern.png"), []byte("data"))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("Save() under a file err = %v, want IO_ERROR", err)
	}
}

func TestSaveInvalidPath(t *testing.T) {
	if err := Save("", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(\"\") err = %v, want INVALID_PATH", err)
	}
}
