package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pointmap/pkg/render"
)

// pointsPerInch converts canvas units to Graphviz inches.
const pointsPerInch = 72.0

// regionColors cycles through region order.
var regionColors = []string{
	"#2563eb", "#16a34a", "#dc2626", "#9333ea", "#0891b2", "#ea580c", "#ca8a04",
}

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Labels prints each location name next to its marker.
	Labels bool
}

// ToDOT converts markers to a Graphviz graph for the neato engine. Every
// node is pinned to its marker position; the y axis is flipped because
// Graphviz grows upwards.
func ToDOT(markers []render.Marker, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph pointmap {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", color=white, fontsize=8, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	colors := map[string]string{}
	for _, m := range markers {
		c, ok := colors[m.RegionName]
		if !ok {
			c = regionColors[len(colors)%len(regionColors)]
			colors[m.RegionName] = c
		}
		attrs := fmt.Sprintf("pos=\"%s,%s!\", width=%.3f, fillcolor=%q, tooltip=%q",
			num(m.Position.X), num(-m.Position.Y), 2*m.Radius/pointsPerInch, c, m.LocationName)
		if opts.Labels {
			attrs += fmt.Sprintf(", xlabel=%q", m.LocationName)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", m.RegionName+"/"+m.LocationName, attrs)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out dot with neato and renders it in format
// (graphviz.PNG, graphviz.SVG, ...).
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders markers as a PNG image through Graphviz.
func RenderPNG(ctx context.Context, markers []render.Marker, opts DOTOptions) ([]byte, error) {
	return RenderDOT(ctx, ToDOT(markers, opts), graphviz.PNG)
}
