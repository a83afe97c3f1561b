package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxPoints bounds the point count accepted from user input. The generator
// itself accepts any positive count; this limit only guards CLI and config
// values against typos that would allocate gigabytes.
const MaxPoints = 50_000_000

// ValidatePointCount checks a requested point count.
func ValidatePointCount(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidArgument, "point count must be >= 1, got %d", n)
	}
	if n > MaxPoints {
		return New(ErrCodeInvalidArgument, "point count too large (max %d), got %d", MaxPoints, n)
	}
	return nil
}

// ValidateScale checks a render scale factor.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidArgument, "scale must be a positive finite number, got %v", scale)
	}
	return nil
}

// ValidateOutputPath validates a path an artifact will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}
	base := filepath.Base(path)
	if base == "." || base == ".." {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}

	return nil
}
