package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePath validates a model fixture path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be one of .json, .toml, .yaml, .yml
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".toml", ".yaml", ".yml":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported fixture extension %q (want .json, .toml or .yaml)", filepath.Ext(path))
	}
}

// ValidateNodeID rejects face ids outside the positive integer range.
func ValidateNodeID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "face id must be positive, got %d", id)
	}
	return nil
}

// ValidateTolerance rejects negative, NaN or infinite tolerances.
func ValidateTolerance(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidatePercent rejects values outside [0, 100].
func ValidatePercent(name string, v float64) error {
	if err := ValidateTolerance(name, v); err != nil {
		return err
	}
	if v > 100 {
		return New(ErrCodeInvalidInput, "%s must be at most 100, got %g", name, v)
	}
	return nil
}
