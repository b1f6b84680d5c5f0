package dataset

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pointmap/pkg/errors"
)

type fileFormat struct {
	Dense   *Dense         `toml:"dense,omitempty"`
	Regions []regionFormat `toml:"region"`
	Layouts []layoutFormat `toml:"layout,omitempty"`
}

type regionFormat struct {
	Name      string        `toml:"name"`
	Locations []string      `toml:"locations"`
	Layout    *LayoutConfig `toml:"layout,omitempty"`
}

type layoutFormat struct {
	Region  string  `toml:"region"`
	OriginX float64 `toml:"origin_x"`
	OriginY float64 `toml:"origin_y"`
	Columns int     `toml:"columns"`
	GapX    float64 `toml:"gap_x"`
	GapY    float64 `toml:"gap_y"`
}

// Load reads a TOML dataset file from path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "dataset file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open dataset %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a TOML dataset document.
//
// Regions are read from the [[region]] array in document order. A region's
// layout may be given inline as [region.layout] or in a separate [[layout]]
// entry keyed by region name, but not both. Unknown keys are rejected.
//
//	[dense]
//	region = "Karadeniz"
//	drift_x = 1.8
//	amplitude = 3.0
//
//	[[region]]
//	name = "Marmara"
//	locations = ["Bursa", "Edirne"]
//	[region.layout]
//	origin_x = 150
//	origin_y = 120
//	columns = 4
//	gap_x = 28
//	gap_y = 24
func Decode(r io.Reader) (*Dataset, error) {
	var doc fileFormat
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode dataset")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown dataset keys: %s", strings.Join(keys, ", "))
	}

	regions := make(RegionTable, 0, len(doc.Regions))
	layouts := make(LayoutTable, len(doc.Regions))
	for _, rf := range doc.Regions {
		regions = append(regions, RegionEntry{Name: rf.Name, Locations: rf.Locations})
		if rf.Layout != nil {
			layouts[rf.Name] = *rf.Layout
		}
	}
	for _, lf := range doc.Layouts {
		if _, dup := layouts[lf.Region]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "region %q has more than one layout entry", lf.Region)
		}
		layouts[lf.Region] = LayoutConfig{
			OriginX: lf.OriginX,
			OriginY: lf.OriginY,
			Columns: lf.Columns,
			GapX:    lf.GapX,
			GapY:    lf.GapY,
		}
	}

	var opts []Option
	if doc.Dense != nil {
		opts = append(opts, WithDense(*doc.Dense))
	}
	return New(regions, layouts, opts...)
}

// Encode writes d as a TOML document that Decode reads back to an equal
// dataset. Layouts are written inline with each region.
func Encode(w io.Writer, d *Dataset) error {
	doc := fileFormat{Regions: make([]regionFormat, 0, len(d.regions))}
	if d.dense.Region != "" {
		dense := d.dense
		doc.Dense = &dense
	}
	for _, r := range d.regions {
		cfg := r.Layout
		doc.Regions = append(doc.Regions, regionFormat{
			Name:      r.Name,
			Locations: r.Locations,
			Layout:    &cfg,
		})
	}
	return toml.NewEncoder(w).Encode(doc)
}
