package sink

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
)

// DefaultMargin is the space kept around the outermost markers when the
// viewBox is derived from marker positions.
const DefaultMargin = 20.0

const mapCSS = `
    .province-point { fill: #2563eb; stroke: #fff; stroke-width: 1.2; cursor: pointer; transition: r 0.15s ease, fill 0.15s ease; }
    .province-point:focus { outline: none; }
    .province-point:focus-visible, .province-point.active { fill: #f59e0b; stroke: #1f2937; }
    [data-map-tooltip] { pointer-events: none; opacity: 0; transition: opacity 0.15s ease; }
    [data-map-tooltip].show { opacity: 1; }`

const tooltipCSS = `
    .map-wrapper { position: relative; display: inline-block; }
    .map-tooltip { position: absolute; transform: translate(-50%, -130%); padding: 4px 8px; border-radius: 4px;
      background: #111827; color: #fff; font: 12px/1.4 system-ui, sans-serif; white-space: nowrap; }`

// mapJS drives the shared tooltip of every map on the page. Each
// [data-provinces] group is handled on its own; a group without a tooltip
// element is left inert.
const mapJS = `
    (function () {
      function mount(group) {
        var svg = group.ownerSVGElement || group.closest('svg');
        var host = svg.closest('.map-wrapper') || svg;
        var tooltip = host.querySelector('[data-map-tooltip]');
        if (!tooltip) return;
        var inSVG = tooltip instanceof SVGElement;
        var active = null;

        function place(x, y) {
          if (inSVG) {
            tooltip.setAttribute('x', x);
            tooltip.setAttribute('y', y);
          } else {
            tooltip.style.left = x + 'px';
            tooltip.style.top = y + 'px';
          }
        }
        function show(point, x, y) {
          if (active && active !== point) active.classList.remove('active');
          tooltip.textContent = point.getAttribute('data-name');
          place(x, y);
          tooltip.classList.add('show');
          point.classList.add('active');
          active = point;
        }
        function hide(point) {
          if (active !== point) return;
          tooltip.classList.remove('show');
          point.classList.remove('active');
          active = null;
        }
        function pointer(point, ev) {
          if (inSVG) {
            var p = svg.createSVGPoint();
            p.x = ev.clientX;
            p.y = ev.clientY;
            p = p.matrixTransform(svg.getScreenCTM().inverse());
            return show(point, p.x, p.y);
          }
          var rect = host.getBoundingClientRect();
          show(point, ev.clientX - rect.left, ev.clientY - rect.top);
        }
        function keyboard(point) {
          var cx = parseFloat(point.getAttribute('cx'));
          var cy = parseFloat(point.getAttribute('cy'));
          if (inSVG) return show(point, cx, cy);
          var vb = svg.viewBox.baseVal;
          var box = svg.getBoundingClientRect();
          var wrap = host.getBoundingClientRect();
          var sx = vb && vb.width ? box.width / vb.width : 1;
          var sy = vb && vb.height ? box.height / vb.height : 1;
          var x = (cx - (vb ? vb.x : 0)) * sx + (box.left - wrap.left);
          var y = (cy - (vb ? vb.y : 0)) * sy + (box.top - wrap.top);
          show(point, Math.round(x * 10) / 10, Math.round(y * 10) / 10);
        }

        group.querySelectorAll('.province-point').forEach(function (point) {
          point.addEventListener('mouseenter', function (ev) { pointer(point, ev); });
          point.addEventListener('mousemove', function (ev) { pointer(point, ev); });
          point.addEventListener('mouseleave', function () { hide(point); });
          point.addEventListener('focus', function () { keyboard(point); });
          point.addEventListener('blur', function () { hide(point); });
          point.addEventListener('keydown', function (ev) {
            if (ev.key === 'Enter' || ev.key === ' ' || ev.key === 'Spacebar') {
              ev.preventDefault();
              keyboard(point);
            }
          });
        });
      }
      document.querySelectorAll('[data-provinces]').forEach(mount);
    })();`

// SVGOption configures an SVG surface.
type SVGOption func(*SVG)

// WithViewBox fixes the canvas area shown by the document. Without it the
// viewBox is the bounding box of all markers grown by the margin.
func WithViewBox(r layout.Rect) SVGOption {
	return func(s *SVG) { s.viewBox = &r }
}

// WithMargin sets the margin used for a derived viewBox (default DefaultMargin).
func WithMargin(m float64) SVGOption { return func(s *SVG) { s.margin = m } }

// WithTitle sets the document's accessible name.
func WithTitle(t string) SVGOption { return func(s *SVG) { s.title = t } }

// WithInteraction embeds the tooltip element and script in the document.
func WithInteraction() SVGOption { return func(s *SVG) { s.interactive = true } }

// SVG is a render.Surface that writes an SVG document.
type SVG struct {
	points      []*svgPoint
	viewBox     *layout.Rect
	margin      float64
	title       string
	interactive bool
}

// NewSVG returns an empty SVG surface.
func NewSVG(opts ...SVGOption) *SVG {
	s := &SVG{margin: DefaultMargin, title: "Point map"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type svgAttr struct{ key, value string }

type svgPoint struct {
	x, y, r   float64
	tags      []svgAttr
	classes   []string
	focusable bool
	active    bool
}

func (p *svgPoint) SetPosition(x, y float64) { p.x, p.y = x, y }
func (p *svgPoint) SetRadius(r float64)      { p.r = r }
func (p *svgPoint) SetFocusable(f bool)      { p.focusable = f }
func (p *svgPoint) SetActive(a bool)         { p.active = a }

func (p *svgPoint) Tag(key, value string) {
	for i := range p.tags {
		if p.tags[i].key == key {
			p.tags[i].value = value
			return
		}
	}
	p.tags = append(p.tags, svgAttr{key, value})
}

func (p *svgPoint) AddClass(class string) {
	if !slices.Contains(p.classes, class) {
		p.classes = append(p.classes, class)
	}
}

// CreatePoint implements render.Surface.
func (s *SVG) CreatePoint() render.Primitive { return &svgPoint{} }

// Append implements render.Surface. Primitives created by other surfaces are
// ignored.
func (s *SVG) Append(p render.Primitive) {
	if sp, ok := p.(*svgPoint); ok {
		s.points = append(s.points, sp)
	}
}

// Len returns the number of markers on the surface.
func (s *SVG) Len() int { return len(s.points) }

// ViewBox returns the canvas area the document shows.
func (s *SVG) ViewBox() layout.Rect {
	if s.viewBox != nil {
		return *s.viewBox
	}
	if len(s.points) == 0 {
		return layout.Rect{}
	}
	b := layout.Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range s.points {
		b.MinX = min(b.MinX, p.x-p.r)
		b.MinY = min(b.MinY, p.y-p.r)
		b.MaxX = max(b.MaxX, p.x+p.r)
		b.MaxY = max(b.MaxY, p.y+p.r)
	}
	b = b.Pad(s.margin)
	return layout.Rect{
		MinX: math.Floor(b.MinX), MinY: math.Floor(b.MinY),
		MaxX: math.Ceil(b.MaxX), MaxY: math.Ceil(b.MaxY),
	}
}

// Bytes returns the standalone SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	s.write(&buf, s.interactive)
	return buf.Bytes()
}

// WriteTo writes the standalone SVG document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

// fragment returns the <svg> element without tooltip or script, for
// embedding in a page that supplies both.
func (s *SVG) fragment() []byte {
	var buf bytes.Buffer
	s.write(&buf, false)
	return buf.Bytes()
}

func (s *SVG) write(buf *bytes.Buffer, standalone bool) {
	vb := s.ViewBox()
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f" role="group" aria-label="%s">`+"\n",
		num(vb.MinX), num(vb.MinY), num(vb.Width()), num(vb.Height()), vb.Width(), vb.Height(), esc(s.title))
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", mapCSS)

	buf.WriteString("  <g data-provinces=\"\">\n")
	for _, p := range s.points {
		writePoint(buf, p)
	}
	buf.WriteString("  </g>\n")

	if standalone {
		buf.WriteString(`  <text data-map-tooltip="" class="map-tooltip" x="0" y="0" text-anchor="middle" dy="-10" font-family="system-ui, sans-serif" font-size="12" fill="#111827"></text>` + "\n")
		fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", mapJS)
	}
	buf.WriteString("</svg>\n")
}

func writePoint(buf *bytes.Buffer, p *svgPoint) {
	buf.WriteString("    <circle")
	classes := p.classes
	if p.active {
		classes = append(slices.Clip(classes), render.ClassActive)
	}
	if len(classes) > 0 {
		fmt.Fprintf(buf, ` class="%s"`, esc(strings.Join(classes, " ")))
	}
	fmt.Fprintf(buf, ` cx="%s" cy="%s" r="%s"`, num(p.x), num(p.y), num(p.r))
	if p.focusable {
		buf.WriteString(` tabindex="0"`)
	}
	for _, t := range p.tags {
		fmt.Fprintf(buf, ` data-%s="%s"`, t.key, esc(t.value))
		if t.key == render.TagName {
			fmt.Fprintf(buf, ` aria-label="%s"`, esc(t.value))
		}
	}
	buf.WriteString("/>\n")
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func esc(s string) string { return html.EscapeString(s) }
