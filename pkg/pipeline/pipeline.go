// Package pipeline provides the load → layout → render pipeline for point maps.
//
// This package is shared by the CLI and the HTTP server so both produce the
// same artifacts for the same options, with the same caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the dataset (builtin or a TOML file) and validate it
//  2. Layout: Compute every marker position in build order
//  3. Render: Attach markers to a surface per format and serialize it
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultRadius is the marker radius.
	DefaultRadius = render.DefaultRadius

	// DefaultTitle is the accessible name of rendered maps.
	DefaultTitle = "Türkiye bölgeleri"

	// BuiltinDataset names the embedded dataset in Options.DatasetPath and logs.
	BuiltinDataset = "builtin"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatNames returns the supported formats in a stable order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	DatasetPath string `json:"dataset,omitempty"` // TOML file; empty or "builtin" selects the embedded dataset

	// Layout options
	NoJitter bool `json:"no_jitter,omitempty"` // Lay out the dense region as a rigid grid

	// Render options
	Formats []string `json:"formats,omitempty"`
	Radius  float64  `json:"radius,omitempty"`
	Title   string   `json:"title,omitempty"`
	Static  bool     `json:"static,omitempty"` // Omit the tooltip script from SVG output
	Labels  bool     `json:"labels,omitempty"` // Print location names in DOT/PNG output
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Dataset *dataset.Dataset `json:"-"` // Preloaded dataset; overrides DatasetPath

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded dataset.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Placements holds every marker position in build order.
	Placements []layout.Placement

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RegionCount int
	MarkerCount int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether placements came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRadius checks that a marker radius is usable.
func ValidateRadius(r float64) error {
	if r <= 0 || r > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid radius: %v (must be in (0, 100])", r)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateRadius(o.Radius)
}

// DatasetSource returns a display name for the dataset the options select.
func (o *Options) DatasetSource() string {
	switch {
	case o.Dataset != nil:
		return "preloaded"
	case o.DatasetPath == "" || o.DatasetPath == BuiltinDataset:
		return BuiltinDataset
	}
	return o.DatasetPath
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Jitter: !o.NoJitter}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Radius: o.Radius}
	switch format {
	case FormatSVG, FormatHTML, FormatPDF:
		k.Title = o.Title
		k.Interactive = !o.Static && format != FormatPDF
	case FormatDOT, FormatPNG:
		k.Labels = o.Labels
	}
	return k
}
