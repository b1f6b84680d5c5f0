package sink

import (
	"context"

	"github.com/matzehuels/pointmap/pkg/render"
)

// RenderPDF renders the surface as PDF via SVG conversion. The tooltip
// script is left out since PDF viewers would not run it.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s *SVG) ([]byte, error) {
	return render.ToPDF(ctx, s.fragment())
}
