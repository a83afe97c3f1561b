package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/barnsley/pkg/cache"
	bferrors "github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/fern"
	fernio "github.com/matzehuels/barnsley/pkg/io"
	"github.com/matzehuels/barnsley/pkg/observability"
	"github.com/matzehuels/barnsley/pkg/render"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); !bferrors.Is(err, bferrors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with INVALID_FORMAT, got %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if opts.Points != DefaultPoints {
		t.Errorf("Points = %d, want %d", opts.Points, DefaultPoints)
	}
	if diff := cmp.Diff([]string{FormatPNG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Scale != render.DefaultScale || opts.OffsetX != render.DefaultOffsetX || opts.OffsetY != render.DefaultOffsetY {
		t.Errorf("transform defaults = %v/%v/%v", opts.Scale, opts.OffsetX, opts.OffsetY)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
	if opts.Seeded() {
		t.Error("zero seed should be unseeded")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code bferrors.Code
	}{
		{"negative points", Options{Points: -1}, bferrors.ErrCodeInvalidArgument},
		{"too many points", Options{Points: bferrors.MaxPoints + 1}, bferrors.ErrCodeInvalidArgument},
		{"bad format", Options{Formats: []string{"gif"}}, bferrors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "sketchy"}, bferrors.ErrCodeInvalidStyle},
		{"bad scale", Options{Scale: -2}, bferrors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !bferrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Style: "classic", Scale: 0.15}
	b := Options{Style: "minimal", Scale: 0.15}

	if a.ArtifactKeyOpts("png") == b.ArtifactKeyOpts("png") {
		t.Error("style should change image keys")
	}
	if a.ArtifactKeyOpts("json") != b.ArtifactKeyOpts("json") {
		t.Error("style should not change json keys")
	}
}

func testRunner(t *testing.T) (*Runner, *cache.FileCache) {
	t.Helper()
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil), c
}

func smallOpts() Options {
	return Options{Points: 2000, Seed: 42, Width: 300, Height: 200, Formats: []string{"png", "json"}}
}

func TestExecute(t *testing.T) {
	r, _ := testRunner(t)
	defer r.Close()

	res, err := r.Execute(context.Background(), smallOpts())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}
	if res.Sequence.Len() != 2000 || res.Stats.Points != 2000 || res.Summary.Points != 2000 {
		t.Errorf("point counts: seq=%d stats=%d summary=%d", res.Sequence.Len(), res.Stats.Points, res.Summary.Points)
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact should start with the PNG signature")
	}
	seq, err := fernio.ReadJSON(bytes.NewReader(res.Artifacts["json"]))
	if err != nil {
		t.Fatalf("json artifact should decode: %v", err)
	}
	if diff := cmp.Diff(res.Sequence.Points(), seq.Points()); diff != "" {
		t.Errorf("json artifact mismatch (-want +got):\n%s", diff)
	}
	if res.CacheInfo.GenerateHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if len(res.PointsHash) != 64 {
		t.Errorf("PointsHash = %q, want sha256 hex", res.PointsHash)
	}
}

func TestExecuteCachesSeededRuns(t *testing.T) {
	r, _ := testRunner(t)
	ctx := context.Background()

	first, err := r.Execute(ctx, smallOpts())
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, smallOpts())
	if err != nil {
		t.Fatal(err)
	}

	if !second.CacheInfo.GenerateHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want both hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["png"], second.Artifacts["png"]) {
		t.Error("cached png should match the first render")
	}
	if first.RunID == second.RunID {
		t.Error("each run should get its own ID")
	}

	// New styling reuses the points but renders again.
	restyled := smallOpts()
	restyled.Style = render.StyleMinimal
	third, err := r.Execute(ctx, restyled)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.GenerateHit || third.CacheInfo.RenderHit {
		t.Errorf("restyled run cache info = %+v, want generate hit only", third.CacheInfo)
	}

	refreshed := smallOpts()
	refreshed.Refresh = true
	fourth, err := r.Execute(ctx, refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.GenerateHit {
		t.Error("Refresh should bypass the point cache")
	}
}

func TestExecuteUnseededBypassesCache(t *testing.T) {
	r, c := testRunner(t)
	ctx := context.Background()

	opts := smallOpts()
	opts.Seed = 0
	for i := 0; i < 3; i++ {
		res, err := r.Execute(ctx, opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheInfo.GenerateHit || res.CacheInfo.RenderHit {
			t.Fatalf("run %d: unseeded run should never hit the cache, got %+v", i, res.CacheInfo)
		}
	}

	if n := countEntries(t, c.Dir()); n != 0 {
		t.Errorf("unseeded runs left %d cache entries, want 0", n)
	}
}

func TestRenderWithCacheInfoCachesSuppliedSequence(t *testing.T) {
	r, c := testRunner(t)
	ctx := context.Background()

	seq, err := fern.Generate(500, fern.NewRandomSource())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Width: 300, Height: 200, Formats: []string{"png"}}

	if _, hit, err := r.RenderWithCacheInfo(ctx, seq, opts); err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v, want miss", hit, err)
	}
	if _, hit, err := r.RenderWithCacheInfo(ctx, seq, opts); err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v, want hit", hit, err)
	}
	if n := countEntries(t, c.Dir()); n != 1 {
		t.Errorf("cache holds %d entries, want 1 artifact", n)
	}
}

// countEntries returns the number of files below dir.
func countEntries(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestExecuteInjectedSource(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{
		Points:       3,
		Seed:         42,
		Formats:      []string{"json"},
		RandomSource: fern.SourceFunc(func() float64 { return 0.5 }),
	}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []fern.Point{{X: 0, Y: 0}, {X: 0, Y: 1.8}, {X: 0.144, Y: 3.24}}
	got := res.Sequence.Points()
	for i := range want {
		if d := got[i].X - want[i].X; d > 1e-9 || d < -1e-9 {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
		if d := got[i].Y - want[i].Y; d > 1e-9 || d < -1e-9 {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExecuteInvalidPointsFailsBeforeRender(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Points: -5})
	if !bferrors.Is(err, bferrors.ErrCodeInvalidArgument) {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
	if len(rec.events()) != 0 {
		t.Errorf("no stage should start, got %v", rec.events())
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, smallOpts())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestExecuteHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	r, _ := testRunner(t)
	opts := smallOpts()
	opts.Formats = []string{"json"}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"miss:points", "generate:start", "generate:done", "set:points",
		"miss:artifact", "render:start", "render:done", "set:artifact",
	}
	if diff := cmp.Diff(want, rec.events()); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheErrorsDegradeToMiss(t *testing.T) {
	r := NewRunner(failingCache{}, nil, log.NewWithOptions(io.Discard, log.Options{}))

	res, err := r.Execute(context.Background(), smallOpts())
	if err != nil {
		t.Fatalf("cache failures should not fail the run: %v", err)
	}
	if res.CacheInfo.GenerateHit || res.CacheInfo.RenderHit {
		t.Error("failing cache should report misses")
	}
}

func TestRenderNilSequence(t *testing.T) {
	if _, err := Render(nil, Options{Formats: []string{"png"}}); !bferrors.Is(err, bferrors.ErrCodeInvalidArgument) {
		t.Errorf("Render(nil) err = %v, want INVALID_ARGUMENT", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu  sync.Mutex
	log []string
}

func (h *recordingHooks) add(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log = append(h.log, s)
}

func (h *recordingHooks) events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.log...)
}

func (h *recordingHooks) OnGenerateStart(context.Context, int) { h.add("generate:start") }
func (h *recordingHooks) OnGenerateComplete(context.Context, int, time.Duration, error) {
	h.add("generate:done")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.add("render:start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.add("render:done")
}
func (h *recordingHooks) OnCacheHit(_ context.Context, k string)        { h.add("hit:" + k) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, k string)       { h.add("miss:" + k) }
func (h *recordingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.add("set:" + k) }
func (h *recordingHooks) OnCacheError(_ context.Context, k string, _ error) {
	h.add("error:" + k)
}

type failingCache struct{}

var errBackend = errors.New("backend down")

func (failingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBackend }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errBackend
}
func (failingCache) Delete(context.Context, string) error { return errBackend }
func (failingCache) Close() error                         { return nil }
