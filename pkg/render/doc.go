// Package render turns a fern point sequence into images.
//
// # Overview
//
// Rendering is presentation only: it never touches the generator and never
// causes a sequence to be regenerated. The package provides:
//
//   - Scatter plots in PNG or SVG via go-chart ([Render])
//   - Artifact persistence with coded I/O errors ([Save])
//   - A textual summary of a run ([Summarize])
//   - A density grid for terminal previews ([Raster])
//
// # Coordinate System
//
// Points are scaled and shifted before plotting:
//
//	x' = x·Scale + OffsetX
//	y' = y·Scale + OffsetY
//
// With the defaults (0.15, 1.5, 0.5) the fern sits in the lower middle of a
// fixed 0–3 window on both axes. Major ticks fall every 0.1, the minor grid
// every 0.02, and dotted red guides mark x=0 and y=0.
//
// # Usage
//
//	seq, _ := fern.Generate(25000, fern.NewSource(42))
//	png, err := render.Render(seq, render.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := render.Save(render.DefaultSavePath, png); err != nil {
//	    return err // IO_ERROR
//	}
package render
