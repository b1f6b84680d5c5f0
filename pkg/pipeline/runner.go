package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.DatasetHash = ds.Hash()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RegionCount = ds.RegionCount()

	r.Logger.Info("loaded dataset",
		"source", opts.DatasetSource(),
		"regions", ds.RegionCount(),
		"locations", ds.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	placed, layoutHit, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Placements = placed
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.MarkerCount = len(placed)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"markers", len(placed),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, ds, placed, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the dataset selected by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	hooks := observability.Pipeline()
	source := opts.DatasetSource()
	start := time.Now()
	hooks.OnLoadStart(ctx, source)

	ds, err := Load(opts)
	count := 0
	if ds != nil {
		count = ds.Len()
	}
	hooks.OnLoadComplete(ctx, source, count, time.Since(start), err)
	return ds, err
}

// LayoutWithCacheInfo computes placements with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ds *dataset.Dataset, opts Options) ([]layout.Placement, bool, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	cacheKey := r.Keyer.LayoutKey(ds.Hash(), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if placed, ok := r.cachedPlacements(ctx, cacheKey, ds.Len()); ok {
			return placed, true, nil
		}
	}

	start := time.Now()
	hooks.OnBuildStart(ctx, ds.Len())
	placed := GenerateLayout(ds, opts)
	hooks.OnBuildComplete(ctx, len(placed), time.Since(start), nil)

	if data, err := MarshalPlacements(placed); err == nil {
		r.store(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return placed, false, nil
}

func (r *Runner) cachedPlacements(ctx context.Context, key string, want int) ([]layout.Placement, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	placed, err := UnmarshalPlacements(data)
	if err != nil || len(placed) != want {
		// Corrupt or stale entry - recompute
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return placed, true
}

// GenerateLayout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, ds *dataset.Dataset, opts Options) ([]layout.Placement, error) {
	placed, _, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	return placed, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ds *dataset.Dataset, placed []layout.Placement, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := MarshalPlacements(placed)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(append(layoutData, ds.Canonical()...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, missing)

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, ds, placed, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ds *dataset.Dataset, placed []layout.Placement, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ds, placed, opts)
	return artifacts, err
}

// store writes an entry, logging and otherwise ignoring failures.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
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
