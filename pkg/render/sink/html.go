package sink

import (
	"bytes"
	"fmt"
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title string
	lang  string
}

// WithPageTitle sets the page title (default "Point map").
func WithPageTitle(t string) HTMLOption { return func(r *htmlRenderer) { r.title = t } }

// WithLang sets the document language (default "tr").
func WithLang(l string) HTMLOption { return func(r *htmlRenderer) { r.lang = l } }

// RenderHTML renders s as a standalone page. The map sits inside a
// .map-wrapper element together with the [data-map-tooltip] element the
// page script positions.
func RenderHTML(s *SVG, opts ...HTMLOption) []byte {
	r := htmlRenderer{title: "Point map", lang: "tr"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&buf, "<html lang=\"%s\">\n<head>\n", esc(r.lang))
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	buf.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", esc(r.title))
	fmt.Fprintf(&buf, "  <style>%s%s\n  </style>\n", mapCSS, tooltipCSS)
	buf.WriteString("</head>\n<body>\n")
	buf.WriteString("<div class=\"map-wrapper\">\n")
	buf.Write(s.fragment())
	buf.WriteString("<div class=\"map-tooltip\" data-map-tooltip role=\"tooltip\"></div>\n")
	buf.WriteString("</div>\n")
	fmt.Fprintf(&buf, "<script>%s\n</script>\n", mapJS)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
