package sink

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
)

func buildSVG(t *testing.T, opts ...SVGOption) (*SVG, []render.Marker) {
	t.Helper()
	s := NewSVG(opts...)
	markers, err := render.Build(layout.NewEngine(dataset.Builtin()), s)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return s, markers
}

type svgDoc struct {
	ViewBox string `xml:"viewBox,attr"`
	Groups  []struct {
		Circles []struct {
			Class    string `xml:"class,attr"`
			CX       string `xml:"cx,attr"`
			CY       string `xml:"cy,attr"`
			R        string `xml:"r,attr"`
			TabIndex string `xml:"tabindex,attr"`
			Name     string `xml:"data-name,attr"`
			Region   string `xml:"data-region,attr"`
		} `xml:"circle"`
	} `xml:"g"`
	Texts []struct {
		Class string `xml:"class,attr"`
	} `xml:"text"`
}

func parseSVG(t *testing.T, data []byte) svgDoc {
	t.Helper()
	var doc svgDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid SVG: %v\n%s", err, data)
	}
	return doc
}

func TestSVGMarkers(t *testing.T) {
	s, markers := buildSVG(t)
	doc := parseSVG(t, s.Bytes())

	if len(doc.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(doc.Groups))
	}
	circles := doc.Groups[0].Circles
	if len(circles) != 81 || s.Len() != 81 {
		t.Fatalf("got %d circles, want 81", len(circles))
	}

	first := circles[0]
	if first.Name != "Balıkesir" || first.Region != "Marmara" {
		t.Errorf("first circle = %+v", first)
	}
	if first.CX != "150" || first.CY != "120" || first.R != "5.6" || first.TabIndex != "0" {
		t.Errorf("first circle geometry = %+v", first)
	}
	if first.Class != render.ClassMarker {
		t.Errorf("class = %q", first.Class)
	}
	for i, c := range circles {
		if c.Name != markers[i].LocationName {
			t.Fatalf("circle %d = %q, want %q", i, c.Name, markers[i].LocationName)
		}
	}
}

func TestSVGDeterministic(t *testing.T) {
	a, _ := buildSVG(t, WithInteraction())
	b, _ := buildSVG(t, WithInteraction())
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("SVG output differs between builds")
	}
}

func TestSVGInteraction(t *testing.T) {
	plain, _ := buildSVG(t)
	if strings.Contains(string(plain.Bytes()), "<script") {
		t.Error("script present without WithInteraction")
	}

	s, _ := buildSVG(t, WithInteraction())
	out := string(s.Bytes())
	for _, want := range []string{"<script", "data-map-tooltip", "preventDefault", "'Enter'", "mouseleave", "blur"} {
		if !strings.Contains(out, want) {
			t.Errorf("interactive SVG missing %q", want)
		}
	}
	if doc := parseSVG(t, s.Bytes()); len(doc.Texts) != 1 {
		t.Errorf("got %d tooltip texts, want 1", len(doc.Texts))
	}
}

func TestSVGActiveClass(t *testing.T) {
	s, markers := buildSVG(t)
	markers[3].Handle.(render.Activatable).SetActive(true)

	circles := parseSVG(t, s.Bytes()).Groups[0].Circles
	if circles[3].Class != render.ClassMarker+" "+render.ClassActive {
		t.Errorf("active class = %q", circles[3].Class)
	}
	if circles[4].Class != render.ClassMarker {
		t.Errorf("inactive class = %q", circles[4].Class)
	}
}

func TestSVGViewBox(t *testing.T) {
	s, _ := buildSVG(t)
	vb := s.ViewBox()
	if vb.Width() <= 0 || vb.Height() <= 0 {
		t.Fatalf("empty viewBox %+v", vb)
	}
	// Marmara's first marker sits at the minimum x of the builtin map.
	if vb.MinX > 150-render.DefaultRadius-DefaultMargin {
		t.Errorf("viewBox MinX = %v does not include margin", vb.MinX)
	}

	fixed := layout.Rect{MaxX: 600, MaxY: 400}
	s2, _ := buildSVG(t, WithViewBox(fixed))
	if s2.ViewBox() != fixed {
		t.Errorf("ViewBox() = %+v, want %+v", s2.ViewBox(), fixed)
	}
	if doc := parseSVG(t, s2.Bytes()); doc.ViewBox != "0 0 600 400" {
		t.Errorf("viewBox attr = %q", doc.ViewBox)
	}
}

func TestSVGEscapesNames(t *testing.T) {
	regions := dataset.RegionTable{{Name: `A&B`, Locations: []string{`<x>`, `"q"`}}}
	layouts := dataset.LayoutTable{`A&B`: {OriginX: 10, OriginY: 10, Columns: 2, GapX: 10, GapY: 10}}
	ds, err := dataset.New(regions, layouts)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSVG()
	if _, err := render.Build(layout.NewEngine(ds), s); err != nil {
		t.Fatal(err)
	}
	circles := parseSVG(t, s.Bytes()).Groups[0].Circles
	if circles[0].Name != "<x>" || circles[1].Name != `"q"` || circles[0].Region != "A&B" {
		t.Errorf("names not round-tripped: %+v", circles)
	}
}

func TestRenderHTML(t *testing.T) {
	s, _ := buildSVG(t, WithInteraction())
	out := string(RenderHTML(s, WithPageTitle("Bölgeler")))

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<div class="map-wrapper">`,
		"data-map-tooltip",
		"<title>Bölgeler</title>",
		"data-provinces",
		"<script>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if n := strings.Count(out, "data-map-tooltip role"); n != 1 {
		t.Errorf("tooltip elements = %d, want 1", n)
	}
	if strings.Contains(out, `<text data-map-tooltip=""`) {
		t.Error("HTML embeds the standalone SVG tooltip")
	}
}
