package observability

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogHooks writes cache and interaction events to a logger at debug level.
// The CLI installs it for --verbose runs.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnEngage(region, location, source string) {
	h.Logger.Debug("marker engaged", "region", region, "location", location, "source", source)
}

func (h *LogHooks) OnDisengage(region, location string) {
	h.Logger.Debug("marker idle", "region", region, "location", location)
}

func (h *LogHooks) OnRejected(err error) {
	h.Logger.Debug("event rejected", "error", err)
}

var (
	_ CacheHooks       = (*LogHooks)(nil)
	_ InteractionHooks = (*LogHooks)(nil)
)
