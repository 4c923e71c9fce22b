package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/forest-guardian/landprep/internal/mask"
	"github.com/forest-guardian/landprep/internal/raster"
)

// ReadMask loads a class mask written by the label command, either the
// raw-value PNG or the single-band GeoTIFF. Color PNGs are reduced to
// gray luminance first.
func ReadMask(path string) (*mask.ClassMask, error) {
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		return readMaskPNG(path)
	}
	ds, err := raster.Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	data, err := raster.ReadBand(ds, 1)
	if err != nil {
		return nil, err
	}
	info := ds.Info()
	m := &mask.ClassMask{Width: info.Width, Height: info.Height, Data: make([]uint8, len(data))}
	for i, v := range data {
		m.Data[i] = uint8(v)
	}
	return m, nil
}

func readMaskPNG(path string) (*mask.ClassMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	b := img.Bounds()
	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
			}
		}
	}

	m := &mask.ClassMask{Width: b.Dx(), Height: b.Dy(), Data: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < m.Height; y++ {
		copy(m.Data[y*m.Width:(y+1)*m.Width], gray.Pix[y*gray.Stride:y*gray.Stride+m.Width])
	}
	return m, nil
}
