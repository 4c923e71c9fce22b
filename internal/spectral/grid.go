package spectral

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch  = errors.New("grids have different shapes")
	ErrBandOutOfRange = errors.New("band role points outside the raster")
	ErrUnknownFormula = errors.New("unknown NDWI formula")
)

// Grid is a row-major 2-D array of per-pixel values.
type Grid struct {
	Width, Height int
	Data          []float64
}

func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Data: make([]float64, width*height)}
}

func (g Grid) SameShape(o Grid) bool {
	return g.Width == o.Width && g.Height == o.Height && len(g.Data) == len(o.Data)
}

func (g Grid) Clone() Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return Grid{Width: g.Width, Height: g.Height, Data: data}
}

func checkShapes(grids ...Grid) error {
	for _, g := range grids[1:] {
		if !grids[0].SameShape(g) {
			return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, grids[0].Width, grids[0].Height, g.Width, g.Height)
		}
	}
	return nil
}
