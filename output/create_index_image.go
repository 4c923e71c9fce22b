package output

import (
	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/spectral"
	"github.com/forest-guardian/landprep/internal/tiler"
)

// IndexRange is the value domain of a normalized difference index.
var IndexRange = tiler.Range{Lo: -1, Hi: 1}

// CreateIndexGeoTIFF writes an index map as a Float32 GeoTIFF with the
// georeferencing of the raster it was computed from.
func CreateIndexGeoTIFF(g spectral.Grid, georef raster.Info, outputPath string) error {
	info := raster.Info{
		Width:     g.Width,
		Height:    g.Height,
		DataType:  godal.Float32,
		CRS:       georef.CRS,
		Transform: georef.Transform,
	}
	return raster.WriteGeoTIFF(outputPath, info, [][]float64{g.Data})
}

// CreateIndexPNG maps [-1,1] linearly onto 8-bit gray, (v+1)/2*255.
// Values outside the range clip and NaN is black.
func CreateIndexPNG(g spectral.Grid, outputPath string) error {
	img, err := tiler.Image(g.Width, g.Height, [][]uint8{tiler.Encode8(g.Data, IndexRange)})
	if err != nil {
		return err
	}
	return tiler.WritePNG(outputPath, img)
}
