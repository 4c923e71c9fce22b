package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/airbusgeo/godal"
	"github.com/fogleman/gg"
	"github.com/forest-guardian/landprep/internal/mask"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/tiler"
)

const (
	legendRowHeight = 20
	legendPadding   = 10
	legendBox       = 15
	legendMinWidth  = 120
)

// CreateMaskGeoTIFF writes the mask as a single-band Byte GeoTIFF carrying
// the georeferencing of the raster it was computed from.
func CreateMaskGeoTIFF(m *mask.ClassMask, georef raster.Info, outputPath string) error {
	info := raster.Info{
		Width:     m.Width,
		Height:    m.Height,
		DataType:  godal.Byte,
		CRS:       georef.CRS,
		Transform: georef.Transform,
	}
	return raster.WriteGeoTIFF(outputPath, info, [][]uint8{m.Data})
}

// CreateMaskPNG writes raw class values (0..3) as an 8-bit gray PNG.
func CreateMaskPNG(m *mask.ClassMask, outputPath string) error {
	img, err := tiler.Image(m.Width, m.Height, [][]uint8{m.Data})
	if err != nil {
		return err
	}
	return tiler.WritePNG(outputPath, img)
}

// CreateMaskPreview renders the classes in their legend colors with a
// legend strip below the image.
func CreateMaskPreview(m *mask.ClassMask, outputPath string) error {
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := m.At(x, y).Color()
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}

	width := max(m.Width, legendMinWidth)
	legendHeight := legendPadding*2 + len(mask.Classes)*legendRowHeight
	dc := gg.NewContext(width, m.Height+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, 0, 0)

	for i, class := range mask.Classes {
		x := float64(legendPadding)
		y := float64(m.Height + legendPadding + i*legendRowHeight)

		c := class.Color()
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		dc.DrawRectangle(x, y, legendBox, legendBox)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(x, y, legendBox, legendBox)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.DrawStringAnchored(fmt.Sprintf("%s (%d)", class, uint8(class)), x+legendBox+5, y+legendBox/2, 0, 0.5)
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save mask preview: %w", err)
	}
	return nil
}
