package dataset

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/errors"
)

// LayoutConfig holds the grid parameters of one region.
type LayoutConfig struct {
	OriginX float64 `toml:"origin_x" json:"origin_x"`
	OriginY float64 `toml:"origin_y" json:"origin_y"`
	Columns int     `toml:"columns" json:"columns"`
	GapX    float64 `toml:"gap_x" json:"gap_x"`
	GapY    float64 `toml:"gap_y" json:"gap_y"`
}

// RegionEntry is one row of the region table: a name and its ordered
// location names.
type RegionEntry struct {
	Name      string
	Locations []string
}

// RegionTable is the ordered region dataset. Order is significant: it fixes
// the build order of markers.
type RegionTable []RegionEntry

// LayoutTable maps region names to their grid parameters.
type LayoutTable map[string]LayoutConfig

// Dense names the region that receives positional drift and its
// coefficients. A zero value disables drift.
type Dense struct {
	Region    string  `toml:"region" json:"region"`
	DriftX    float64 `toml:"drift_x" json:"drift_x"`
	Amplitude float64 `toml:"amplitude" json:"amplitude"`
}

// Region is a validated region with its layout attached.
type Region struct {
	Name      string       `json:"name"`
	Locations []string     `json:"locations"`
	Layout    LayoutConfig `json:"layout"`
}

// Location is a single named point, addressed by region and index.
type Location struct {
	Name   string
	Region string
	Index  int
}

// Dataset is an immutable, validated pairing of a RegionTable and a
// LayoutTable. It is safe for concurrent reads.
type Dataset struct {
	regions []Region
	byName  map[string]int
	dense   Dense
	total   int
}

// Option configures a Dataset during construction.
type Option func(*Dataset)

// WithDense designates the dense region and its drift coefficients.
func WithDense(d Dense) Option {
	return func(ds *Dataset) { ds.dense = d }
}

// New validates the two tables against each other and returns the Dataset.
//
// Validation fails with a configuration error when a region appears in one
// table but not the other, a region or location name is empty or repeated,
// a column count is not positive, or a layout number is not finite. Nothing
// is returned on failure, so callers never see a partially valid dataset.
func New(regions RegionTable, layouts LayoutTable, opts ...Option) (*Dataset, error) {
	ds := &Dataset{
		regions: make([]Region, 0, len(regions)),
		byName:  make(map[string]int, len(regions)),
	}
	for _, opt := range opts {
		opt(ds)
	}

	for _, entry := range regions {
		if err := errors.ValidateRegionName(entry.Name); err != nil {
			return nil, err
		}
		if _, dup := ds.byName[entry.Name]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateRegion, "region %q declared more than once", entry.Name)
		}

		cfg, ok := layouts[entry.Name]
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingLayout, "region %q has no layout entry", entry.Name)
		}
		if err := validateLayout(entry.Name, cfg); err != nil {
			return nil, err
		}

		seen := make(map[string]struct{}, len(entry.Locations))
		for _, name := range entry.Locations {
			if err := errors.ValidateLocationName(entry.Name, name); err != nil {
				return nil, err
			}
			if _, dup := seen[name]; dup {
				return nil, errors.New(errors.ErrCodeDuplicateLocation, "region %q: location %q appears more than once", entry.Name, name)
			}
			seen[name] = struct{}{}
		}

		ds.byName[entry.Name] = len(ds.regions)
		ds.regions = append(ds.regions, Region{
			Name:      entry.Name,
			Locations: slices.Clone(entry.Locations),
			Layout:    cfg,
		})
		ds.total += len(entry.Locations)
	}

	for _, name := range sortedKeys(layouts) {
		if _, ok := ds.byName[name]; !ok {
			return nil, errors.New(errors.ErrCodeMissingRegion, "layout entry %q has no matching region", name)
		}
	}

	if ds.dense.Region != "" {
		if _, ok := ds.byName[ds.dense.Region]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "dense region %q is not declared", ds.dense.Region)
		}
		if !finite(ds.dense.DriftX) || !finite(ds.dense.Amplitude) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "dense region %q: coefficients must be finite", ds.dense.Region)
		}
	}

	return ds, nil
}

func validateLayout(region string, cfg LayoutConfig) error {
	if cfg.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidColumns, "region %q: columns must be >= 1, got %d", region, cfg.Columns)
	}
	for _, v := range []float64{cfg.OriginX, cfg.OriginY, cfg.GapX, cfg.GapY} {
		if !finite(v) {
			return errors.New(errors.ErrCodeInvalidConfig, "region %q: layout values must be finite", region)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sortedKeys(m LayoutTable) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Regions returns the regions in declared order. The returned slice is a
// copy; location slices are shared and must not be modified.
func (d *Dataset) Regions() []Region {
	return slices.Clone(d.regions)
}

// Region looks up a region by name.
func (d *Dataset) Region(name string) (Region, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Region{}, false
	}
	return d.regions[i], true
}

// RegionCount returns the number of regions.
func (d *Dataset) RegionCount() int { return len(d.regions) }

// Len returns the total number of locations across all regions.
func (d *Dataset) Len() int { return d.total }

// Dense returns the dense region settings (zero when none is designated).
func (d *Dataset) Dense() Dense { return d.dense }

// Locations returns every location in build order: regions in declared
// order, locations in declared order within each region.
func (d *Dataset) Locations() []Location {
	out := make([]Location, 0, d.total)
	for _, r := range d.regions {
		for i, name := range r.Locations {
			out = append(out, Location{Name: name, Region: r.Name, Index: i})
		}
	}
	return out
}

// Find returns the location with the given name inside region.
func (d *Dataset) Find(region, name string) (Location, bool) {
	r, ok := d.Region(region)
	if !ok {
		return Location{}, false
	}
	i := slices.Index(r.Locations, name)
	if i < 0 {
		return Location{}, false
	}
	return Location{Name: name, Region: region, Index: i}, true
}

// Tables returns the dataset split back into its two source tables.
func (d *Dataset) Tables() (RegionTable, LayoutTable) {
	regions := make(RegionTable, len(d.regions))
	layouts := make(LayoutTable, len(d.regions))
	for i, r := range d.regions {
		regions[i] = RegionEntry{Name: r.Name, Locations: slices.Clone(r.Locations)}
		layouts[r.Name] = r.Layout
	}
	return regions, layouts
}

// Canonical returns a stable JSON encoding of the dataset, suitable for
// content hashing.
func (d *Dataset) Canonical() []byte {
	data, _ := json.Marshal(struct {
		Regions []Region `json:"regions"`
		Dense   Dense    `json:"dense"`
	}{d.regions, d.dense})
	return data
}

// Hash returns the SHA-256 of Canonical as 64 hex characters. Datasets with
// equal tables and dense settings hash equally.
func (d *Dataset) Hash() string {
	return cache.Hash(d.Canonical())
}
