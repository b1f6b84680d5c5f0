package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pointmap/pkg/errors"
)

const sampleTOML = `
[dense]
region = "North"
drift_x = 2.0
amplitude = 1.5

[[region]]
name = "South"
locations = ["s1", "s2", "s3"]
[region.layout]
origin_x = 10
origin_y = 20
columns = 2
gap_x = 5
gap_y = 6

[[region]]
name = "North"
locations = ["n1"]

[[layout]]
region = "North"
origin_x = 100
origin_y = 0
columns = 3
gap_x = 7
gap_y = 8
`

func TestDecode(t *testing.T) {
	ds, err := Decode(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	regions := ds.Regions()
	if len(regions) != 2 || regions[0].Name != "South" || regions[1].Name != "North" {
		t.Fatalf("document order not preserved: %+v", regions)
	}
	if regions[0].Layout.Columns != 2 || regions[1].Layout.OriginX != 100 {
		t.Errorf("layouts not attached: %+v", regions)
	}
	if d := ds.Dense(); d.Region != "North" || d.DriftX != 2 || d.Amplitude != 1.5 {
		t.Errorf("Dense() = %+v", d)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{
			name: "syntax",
			doc:  `[[region]` + "\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "unknown key",
			doc:  "colour = \"red\"\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "missing layout",
			doc:  "[[region]]\nname = \"A\"\nlocations = [\"a\"]\n",
			code: errors.ErrCodeMissingLayout,
		},
		{
			name: "orphan layout",
			doc: "[[region]]\nname = \"A\"\nlocations = [\"a\"]\n[region.layout]\ncolumns = 1\n" +
				"[[layout]]\nregion = \"B\"\ncolumns = 1\n",
			code: errors.ErrCodeMissingRegion,
		},
		{
			name: "layout twice",
			doc: "[[region]]\nname = \"A\"\nlocations = [\"a\"]\n[region.layout]\ncolumns = 1\n" +
				"[[layout]]\nregion = \"A\"\ncolumns = 2\n",
			code: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEncodeDecodeBuiltin(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Builtin()); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	ds, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode(Encode(Builtin())) error: %v", err)
	}
	if string(ds.Canonical()) != string(Builtin().Canonical()) {
		t.Error("builtin dataset did not survive a TOML round trip")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ds.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ds.Len())
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestLoadExampleDatasets(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "datasets", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example datasets")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			ds, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%s): %v", path, err)
			}
			if ds.RegionCount() == 0 || ds.Len() == 0 {
				t.Errorf("%s: %d regions, %d locations", path, ds.RegionCount(), ds.Len())
			}
			if dense := ds.Dense(); dense.Region != "" {
				if _, ok := ds.Region(dense.Region); !ok {
					t.Errorf("dense region %q not in dataset", dense.Region)
				}
			}
		})
	}
}
