// Package pointmap mounts an interactive point map onto a host.
//
// Mount ties the pieces together for one map instance: it lays out a
// dataset, builds one marker per location on the host surface and returns
// a controller that drives the shared tooltip.
//
//	m, err := pointmap.Mount(dataset.Builtin(), pointmap.Host{
//	    Surface: svg,
//	    Tooltip: tip,
//	})
//	if err != nil {
//	    return err
//	}
//	if m == nil {
//	    return nil // host has no map
//	}
//	m.Controller.Focus(0)
//
// Several maps may be mounted side by side; they share nothing but the
// immutable dataset.
package pointmap

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/interact"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
)

// Host is the environment a map is mounted into.
type Host struct {
	// Surface receives one point primitive per marker.
	Surface render.Surface
	// Tooltip displays the shared tooltip.
	Tooltip interact.TooltipSurface
	// Viewport locates the map on the host. The zero value maps canvas
	// units 1:1 onto pixels at the origin.
	Viewport interact.Viewport
}

// Map is a mounted map instance.
type Map struct {
	Dataset    *dataset.Dataset
	Engine     *layout.Engine
	Markers    []render.Marker
	Controller *interact.Controller
}

// Option configures Mount.
type Option func(*options)

type options struct {
	logger *log.Logger
	engine []layout.EngineOption
	build  []render.Option
}

// WithLogger sets the logger used for mount and interaction tracing.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithJitter replaces the dataset's dense-region drift.
func WithJitter(j layout.Jitter) Option {
	return func(o *options) { o.engine = append(o.engine, layout.WithJitter(j)) }
}

// WithRadius sets the marker radius.
func WithRadius(r float64) Option {
	return func(o *options) { o.build = append(o.build, render.WithRadius(r)) }
}

// Mount builds the markers of ds on host and returns the live map.
//
// A host without a surface or tooltip has nowhere to show the map: Mount
// then logs at debug level and returns (nil, nil) without creating any
// marker.
func Mount(ds *dataset.Dataset, host Host, opts ...Option) (*Map, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if ds == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pointmap: nil dataset")
	}
	if host.Surface == nil || host.Tooltip == nil {
		o.logger.Debug("no map host, skipping mount",
			"surface", host.Surface != nil,
			"tooltip", host.Tooltip != nil)
		return nil, nil
	}

	eng := layout.NewEngine(ds, o.engine...)
	markers, err := render.Build(eng, host.Surface, o.build...)
	if err != nil {
		return nil, err
	}
	ctrl := interact.NewController(markers, host.Tooltip,
		interact.WithViewport(host.Viewport),
		interact.WithLogger(o.logger))

	o.logger.Debug("mounted map",
		"regions", ds.RegionCount(),
		"markers", len(markers))

	return &Map{
		Dataset:    ds,
		Engine:     eng,
		Markers:    markers,
		Controller: ctrl,
	}, nil
}

// MountTables validates the two tables and mounts the resulting dataset.
// Table errors are returned before the host is inspected, so an invalid
// configuration never leaves primitives on the surface.
func MountTables(regions dataset.RegionTable, layouts dataset.LayoutTable, host Host, opts ...Option) (*Map, error) {
	ds, err := dataset.New(regions, layouts)
	if err != nil {
		return nil, err
	}
	return Mount(ds, host, opts...)
}
