package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pointmap/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,html", []string{"svg", "html"}},
		{"svg, json , dot", []string{"svg", "json", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatsValidation(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"svg,html,json,dot,png,pdf", false},
		{"svg, html", false},
		{"svg,gif", true},
		{"jpeg", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := pipeline.ValidateFormats(parseFormats(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		datasetPath string
		want        string
	}{
		{"builtin default", "", "", "pointmap"},
		{"builtin named", "", pipeline.BuiltinDataset, "pointmap"},
		{"dataset file", "", "data/regions.toml", "regions"},
		{"output with format ext", "out/map.svg", "", "out/map"},
		{"output with other ext", "out/map.v2", "", "out/map.v2"},
		{"output without ext", "out/map", "regions.toml", "out/map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.datasetPath); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.datasetPath, got, tt.want)
			}
		})
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "exact-name.out")

	paths, err := writeArtifacts(map[string][]byte{"svg": []byte("<svg/>")}, []string{"svg"}, out, "")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Fatalf("paths = %v, want [%s]", paths, out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteArtifactsMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "map.svg")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(artifacts, []string{"json", "svg"}, base, "")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{filepath.Join(dir, "map.json"), filepath.Join(dir, "map.svg")}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, f := range []string{"json", "svg"} {
		data, err := os.ReadFile(want[i])
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != string(artifacts[f]) {
			t.Errorf("%s content = %q", f, data)
		}
	}
}

func TestWriteArtifactsMissingDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "map.svg")
	if _, err := writeArtifacts(map[string][]byte{"svg": nil}, []string{"svg"}, out, ""); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map")
	if _, err := runCLI(t, "render", "--no-cache", "-f", "svg,json", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(svg), "<circle"); n != 81 {
		t.Errorf("svg has %d markers, want 81", n)
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("json not written: %v", err)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	if _, err := runCLI(t, "render", "--no-cache", "-f", "gif", "-o", filepath.Join(t.TempDir(), "m")); err == nil {
		t.Error("render -f gif succeeded")
	}
}
