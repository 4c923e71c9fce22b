package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// Info describes a raster's shape and georeferencing.
type Info struct {
	Width, Height int
	Bands         int
	DataType      godal.DataType
	// CRS is the WKT projection string, empty when the raster is not
	// georeferenced.
	CRS       string
	Transform Affine
}

func (i Info) Bounds() Window {
	return Window{Width: i.Width, Height: i.Height}
}

// Source gives windowed access to the bands of a raster. Bands are 1-based.
type Source interface {
	Info() Info
	ReadWindow(band int, w Window) ([]float64, error)
}

// ReadBand reads a whole band.
func ReadBand(src Source, band int) ([]float64, error) {
	return src.ReadWindow(band, src.Info().Bounds())
}

func checkRead(info Info, band int, w Window) error {
	if band < 1 || band > info.Bands {
		return fmt.Errorf("%w: band %d of %d", ErrBandOutOfRange, band, info.Bands)
	}
	if !w.Within(info.Width, info.Height) {
		return fmt.Errorf("%w: %s in %dx%d", ErrWindowOutOfRange, w, info.Width, info.Height)
	}
	return nil
}

// Memory is a Source backed by in-memory band buffers.
type Memory struct {
	info  Info
	bands [][]float64
}

// NewMemory wraps band buffers (row-major, width*height each) as a Source.
func NewMemory(info Info, bands [][]float64) (*Memory, error) {
	if info.Width <= 0 || info.Height <= 0 || len(bands) == 0 {
		return nil, ErrEmptyRaster
	}
	for i, b := range bands {
		if len(b) != info.Width*info.Height {
			return nil, fmt.Errorf("%w: band %d has %d values, want %d", ErrBufferSize, i+1, len(b), info.Width*info.Height)
		}
	}
	info.Bands = len(bands)
	if info.DataType == godal.Unknown {
		info.DataType = godal.Float64
	}
	return &Memory{info: info, bands: bands}, nil
}

func (m *Memory) Info() Info {
	return m.info
}

func (m *Memory) ReadWindow(band int, w Window) ([]float64, error) {
	if err := checkRead(m.info, band, w); err != nil {
		return nil, err
	}
	src := m.bands[band-1]
	out := make([]float64, w.Area())
	for row := 0; row < w.Height; row++ {
		start := (w.Y+row)*m.info.Width + w.X
		copy(out[row*w.Width:(row+1)*w.Width], src[start:start+w.Width])
	}
	return out, nil
}
