// Package observability lets a binary observe pipeline runs, cache traffic,
// HTTP requests and marker engagement without the core packages depending on
// a metrics or tracing framework.
//
// Libraries emit through the package-level accessors:
//
//	observability.Pipeline().OnBuildStart(ctx, locations)
//	observability.Interaction().OnEngage("Marmara", "Bursa", "keyboard")
//
// and main installs implementations once at startup:
//
//	observability.SetInteractionHooks(observability.NewLogHooks(logger))
//
// Every category defaults to a no-op. Reads are lock-free, since interaction
// hooks run inside every handled event.
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, locations int, duration time.Duration, err error)

	OnBuildStart(ctx context.Context, locations int)
	OnBuildComplete(ctx context.Context, markers int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives server traffic. path is the route pattern, so map IDs
// do not leak into metric labels.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// InteractionHooks receives marker engagement changes. Calls happen
// synchronously inside event handling and must not block.
type InteractionHooks interface {
	// OnEngage records a marker becoming engaged. source is "pointer" or "keyboard".
	OnEngage(region, location, source string)
	// OnDisengage records a marker returning to idle.
	OnDisengage(region, location string)
	// OnRejected records an event that could not be applied.
	OnRejected(err error)
}

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// NoopInteractionHooks ignores every event.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnEngage(string, string, string) {}
func (NoopInteractionHooks) OnDisengage(string, string)      {}
func (NoopInteractionHooks) OnRejected(error)                {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	pipeline    PipelineHooks
	cache       CacheHooks
	http        HTTPHooks
	interaction InteractionHooks
}

func defaults() *registry {
	return &registry{
		pipeline:    NoopPipelineHooks{},
		cache:       NoopCacheHooks{},
		http:        NoopHTTPHooks{},
		interaction: NoopInteractionHooks{},
	}
}

var (
	current  atomic.Pointer[registry]
	updateMu sync.Mutex
)

func init() { current.Store(defaults()) }

// update applies fn to a copy of the registry and publishes it.
func update(fn func(r *registry)) {
	updateMu.Lock()
	defer updateMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// SetInteractionHooks installs h. A nil h is ignored.
func SetInteractionHooks(h InteractionHooks) {
	if h != nil {
		update(func(r *registry) { r.interaction = h })
	}
}

func Pipeline() PipelineHooks       { return current.Load().pipeline }
func Cache() CacheHooks             { return current.Load().cache }
func HTTP() HTTPHooks               { return current.Load().http }
func Interaction() InteractionHooks { return current.Load().interaction }

// Reset restores the no-op defaults. Tests call it in t.Cleanup.
func Reset() {
	updateMu.Lock()
	defer updateMu.Unlock()
	current.Store(defaults())
}
