package tiler

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"strings"
)

type Format int

const (
	GeoTIFF Format = iota
	PNG
)

func (f Format) Ext() string {
	if f == PNG {
		return "png"
	}
	return "tif"
}

func (f Format) String() string {
	return f.Ext()
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tif", "tiff", "geotiff", "gtiff":
		return GeoTIFF, nil
	case "png":
		return PNG, nil
	}
	return GeoTIFF, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode8 clips data to r and rescales it linearly into [0,255]. An empty
// range encodes to zeros, as does NaN.
func Encode8(data []float64, r Range) []uint8 {
	out := make([]uint8, len(data))
	span := r.Hi - r.Lo
	if !(span > 0) {
		return out
	}
	for i, v := range data {
		if math.IsNaN(v) || v <= r.Lo {
			continue
		}
		if v >= r.Hi {
			out[i] = 255
			continue
		}
		out[i] = uint8((v - r.Lo) / span * 255)
	}
	return out
}

// Image interleaves 1 (gray) or 3 (RGB) encoded bands into an image.
func Image(width, height int, bands [][]uint8) (image.Image, error) {
	switch len(bands) {
	case 1:
		img := image.NewGray(image.Rect(0, 0, width, height))
		copy(img.Pix, bands[0])
		return img, nil
	case 3:
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		for i := 0; i < width*height; i++ {
			img.Pix[i*4] = bands[0][i]
			img.Pix[i*4+1] = bands[1][i]
			img.Pix[i*4+2] = bands[2][i]
			img.Pix[i*4+3] = 255
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBandCount, len(bands))
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func TileName(base string, t Tile, f Format) string {
	return fmt.Sprintf("%s_tile_%d_%d.%s", base, t.Col, t.Row, f.Ext())
}
