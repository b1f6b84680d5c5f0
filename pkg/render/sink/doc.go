// Package sink provides output format renderers for point maps.
//
// # Overview
//
// A "sink" turns built markers into a final output format. This package
// provides:
//
//   - SVG: the canonical rendering surface, with an embedded tooltip script
//   - HTML: a standalone page wrapping the SVG and a tooltip element
//   - JSON: marker positions and layout parameters for external tools
//   - DOT: Graphviz source with pinned positions, rendered to PNG or SVG
//   - PDF: print-ready output (requires rsvg-convert)
//
// # SVG Output
//
// [SVG] implements [render.Surface], so markers are drawn onto it by
// [render.Build] directly:
//
//	svg := sink.NewSVG(sink.WithInteraction())
//	markers, err := render.Build(eng, svg)
//	data := svg.Bytes()
//
// Every marker becomes a circle inside the map's data-provinces group:
//
//	<circle class="province-point" cx="150" cy="120" r="5.6" tabindex="0"
//	        data-name="Balıkesir" data-region="Marmara"/>
//
// With [WithInteraction] the document carries a script that shows one shared
// tooltip on hover and focus, moves it with the pointer, shows it on Enter
// or Space, and hides it when the engaged marker is left or blurred.
//
// # HTML Output
//
// [RenderHTML] places the SVG inside a .map-wrapper element next to a
// [data-map-tooltip] element, which is where the script looks for it.
//
// # DOT and PNG Output
//
// [ToDOT] writes a neato graph whose nodes are pinned to marker positions.
// [RenderDOT] lays it out with Graphviz; PNG output needs no external tool.
package sink
