package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barnsley/pkg/cache"
	"github.com/matzehuels/barnsley/pkg/fern"
	"github.com/matzehuels/barnsley/pkg/observability"
	"github.com/matzehuels/barnsley/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
// Generation failures abort before anything is rendered.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{RunID: newRunID()}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Generate
	genStart := time.Now()
	seq, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Sequence = seq
	result.Stats.Points = seq.Len()
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.GenerateHit = genHit
	result.Summary = render.Summarize(seq, opts.Scale)

	logger.Info("generated points",
		"points", seq.Len(),
		"cached", genHit,
		"duration", result.Stats.GenerateTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, pointsHash, renderHit, err := r.renderWithHash(ctx, seq, opts, opts.Seeded())
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.PointsHash = pointsHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo produces a point sequence and reports whether it
// came from the cache. Unseeded runs always generate.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*fern.Sequence, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}

	if !opts.Seeded() {
		seq, err := r.generate(ctx, opts)
		return seq, false, err
	}

	cacheKey := r.Keyer.PointsKey(opts.Points, opts.Seed)
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, cache.KeyTypePoints, cacheKey); ok {
			if seq, err := decodeSequence(data); err == nil && seq.Len() == opts.Points {
				return seq, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached sequence", "key", cacheKey)
		}
	}

	seq, err := r.generate(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	if data, err := encodeSequence(seq); err == nil {
		r.store(ctx, cache.KeyTypePoints, cacheKey, data, cache.TTLPoints)
	}
	return seq, false, nil
}

// RenderWithCacheInfo renders a sequence supplied by the caller, such as an
// imported point file, with caching and returns cache hit info. A failure
// here never re-runs generation.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, seq *fern.Sequence, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.renderWithHash(ctx, seq, opts, true)
	return artifacts, hit, err
}

// renderWithHash renders seq and returns the hash of its encoding. Artifacts
// are read from and written to the cache only when cacheable is set; an
// unseeded sequence is never seen again, so its artifacts could never hit.
func (r *Runner) renderWithHash(ctx context.Context, seq *fern.Sequence, opts Options, cacheable bool) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	encoded, err := encodeSequence(seq)
	if err != nil {
		return nil, "", false, err
	}
	pointsHash := cache.Hash(encoded)

	if cacheable {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(pointsHash, opts.ArtifactKeyOpts(format))
			data, ok := r.lookup(ctx, cache.KeyTypeArtifact, key)
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, pointsHash, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(seq, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	if !cacheable {
		return rendered, pointsHash, false, nil
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(pointsHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cache.KeyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, pointsHash, false, nil
}

func (r *Runner) generate(ctx context.Context, opts Options) (*fern.Sequence, error) {
	rng := opts.RandomSource
	if rng == nil {
		if opts.Seed != 0 {
			rng = fern.NewSource(opts.Seed)
		} else {
			rng = fern.NewRandomSource()
		}
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Points)
	start := time.Now()
	seq, err := fern.Generate(opts.Points, rng)
	hooks.OnGenerateComplete(ctx, opts.Points, time.Since(start), err)
	return seq, err
}

// lookup reads from the cache. Backend errors are logged and treated as a
// miss.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// store writes to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
