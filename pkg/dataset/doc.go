// Package dataset holds the static tables behind a point map.
//
// A map is described by two tables that must agree with each other:
//
//   - a [RegionTable]: region names in a fixed order, each with an ordered
//     list of location names. Order is significant; it decides the grid
//     index of every location and therefore its position.
//   - a [LayoutTable]: region name to [LayoutConfig] (grid origin, column
//     count, horizontal and vertical spacing).
//
// [New] checks the pairing once and returns an immutable [Dataset]. Any
// mismatch is a configuration error from pkg/errors (for example
// MISSING_LAYOUT or DUPLICATE_LOCATION) and no Dataset is produced.
//
// [Builtin] returns the 81-province, 7-region table the project ships with.
// [Load] and [Decode] read the same shape from TOML.
package dataset
