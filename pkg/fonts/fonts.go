// Package fonts provides parsed font faces for chart labels.
//
// The faces come from the Go font family bundled with golang.org/x/image, so
// rendering needs no system fonts. Parsing happens once on first use and the
// results are shared.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regular    *truetype.Font
	regularErr error
	regularOne sync.Once

	bold    *truetype.Font
	boldErr error
	boldOne sync.Once
)

// Regular returns the Go Regular face.
func Regular() (*truetype.Font, error) {
	regularOne.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Bold returns the Go Bold face, used for axis titles.
func Bold() (*truetype.Font, error) {
	boldOne.Do(func() {
		bold, boldErr = truetype.Parse(gobold.TTF)
	})
	return bold, boldErr
}
