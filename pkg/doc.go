// Package pkg provides the core libraries for the pointmap regional point map.
//
// # Overview
//
// Pointmap places a fixed set of named locations, grouped into regions, on a
// synthetic grid and attaches an accessible tooltip to every marker. The pkg
// directory is organized into these areas:
//
//  1. [dataset] - Region and layout tables, validation, TOML files
//  2. [layout] - Grid placement with optional jitter for the dense region
//  3. [render] - Marker construction and drawing onto a surface, plus [render/sink] for SVG, HTML, JSON, DOT, PNG and PDF
//  4. [interact] - The tooltip state machine driven by pointer and keyboard events
//  5. [pointmap] - Mounting a dataset onto a host surface and tooltip
//  6. [pipeline] - Orchestration (load → layout → render) with caching
//  7. [cache], [session] - Storage backends and live map sessions
//
// # Architecture
//
// The typical data flow:
//
//	Builtin tables or dataset.toml
//	         ↓
//	    [dataset] package (validate regions and layouts)
//	         ↓
//	    [layout] package (grid cells → canvas points)
//	         ↓
//	    [render] package (markers on a surface)
//	         ↓
//	    [interact] package (tooltip follows events)
//
// # Quick Start
//
// Mount the builtin map on an in-memory surface and focus a marker:
//
//	import (
//	    "github.com/matzehuels/pointmap/pkg/dataset"
//	    "github.com/matzehuels/pointmap/pkg/interact"
//	    "github.com/matzehuels/pointmap/pkg/pointmap"
//	    "github.com/matzehuels/pointmap/pkg/render"
//	)
//
//	tooltip := &interact.RecordingTooltip{}
//	m, err := pointmap.Mount(dataset.Builtin(), pointmap.Host{
//	    Surface: render.NewRecorder(),
//	    Tooltip: tooltip,
//	})
//	if err != nil {
//	    return err
//	}
//	id, _ := m.Controller.Lookup("Marmara", "Bursa")
//	m.Controller.Focus(id)
//	// tooltip.Text == "Bursa", tooltip.Visible == true
//
// Or render files through the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatJSON},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Errors
//
// Every package reports failures as [errors.Error] values carrying a code.
// Configuration problems (duplicate names, missing layouts, bad column
// counts) are detected when a map is built, never while it is interacted
// with; [errors.IsConfigError] groups them.
package pkg
