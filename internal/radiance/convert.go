package radiance

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"go.uber.org/zap"
)

// Convert rescales every band of src to radiance and writes a Float32
// GeoTIFF with the same georeferencing. Bands without coefficients are
// written as zeros. It returns the bands that were converted.
func Convert(src raster.Source, coeffs Coefficients, outPath string) ([]int, error) {
	info := src.Info()
	out := make([][]float32, info.Bands)
	var converted []int
	for band := 1; band <= info.Bands; band++ {
		out[band-1] = make([]float32, info.Width*info.Height)
		if !coeffs.Has(band) {
			log.Warn("skipping band without radiance coefficients", zap.Int("band", band))
			continue
		}
		dn, err := raster.ReadBand(src, band)
		if err != nil {
			return nil, err
		}
		coeffs.Apply(band, dn)
		for i, v := range dn {
			out[band-1][i] = float32(v)
		}
		converted = append(converted, band)
	}
	if len(converted) == 0 {
		return nil, fmt.Errorf("%w: no band of %d has coefficients", ErrMissingRescaling, info.Bands)
	}

	info.DataType = godal.Float32
	if err := raster.WriteGeoTIFF(outPath, info, out); err != nil {
		return nil, err
	}
	return converted, nil
}
