package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds region and location names.
const maxNameLength = 128

// ValidateRegionName validates a region name for safety and correctness.
//
// The rules are:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 bytes
func ValidateRegionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidConfig, "region name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidConfig, "region name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "region name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateLocationName validates a location name within the given region.
// Names may contain any printable Unicode (the builtin dataset uses Turkish
// letters such as "İ" and "ş").
func ValidateLocationName(region, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeEmptyLocation, "region %q: location name cannot be empty", region)
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidConfig, "region %q: location name too long (max %d characters)", region, maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "region %q: location name %q contains control characters", region, name)
		}
	}
	return nil
}
