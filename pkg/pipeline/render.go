package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
	"github.com/matzehuels/pointmap/pkg/render/sink"
)

// Render generates output artifacts in the requested formats from
// placements computed for ds.
func Render(ctx context.Context, ds *dataset.Dataset, placed []layout.Placement, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, ds, placed, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, ds *dataset.Dataset, placed []layout.Placement, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		svg, err := buildSVG(placed, opts, !opts.Static)
		if err != nil {
			return nil, err
		}
		return svg.Bytes(), nil

	case FormatHTML:
		svg, err := buildSVG(placed, opts, true)
		if err != nil {
			return nil, err
		}
		return sink.RenderHTML(svg, sink.WithPageTitle(opts.Title)), nil

	case FormatPDF:
		svg, err := buildSVG(placed, opts, false)
		if err != nil {
			return nil, err
		}
		return sink.RenderPDF(ctx, svg)

	case FormatJSON:
		markers, err := render.Attach(placed, render.NewRecorder(), render.WithRadius(opts.Radius))
		if err != nil {
			return nil, err
		}
		return sink.RenderJSON(ds, markers, sink.WithJSONDense())

	case FormatDOT:
		markers, err := render.Attach(placed, render.NewRecorder(), render.WithRadius(opts.Radius))
		if err != nil {
			return nil, err
		}
		return []byte(sink.ToDOT(markers, sink.DOTOptions{Labels: opts.Labels})), nil

	case FormatPNG:
		markers, err := render.Attach(placed, render.NewRecorder(), render.WithRadius(opts.Radius))
		if err != nil {
			return nil, err
		}
		return sink.RenderPNG(ctx, markers, sink.DOTOptions{Labels: opts.Labels})
	}
	return nil, ValidateFormat(format)
}

func buildSVG(placed []layout.Placement, opts Options, interactive bool) (*sink.SVG, error) {
	svgOpts := []sink.SVGOption{sink.WithTitle(opts.Title)}
	if interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	svg := sink.NewSVG(svgOpts...)
	if _, err := render.Attach(placed, svg, render.WithRadius(opts.Radius)); err != nil {
		return nil, err
	}
	return svg, nil
}
