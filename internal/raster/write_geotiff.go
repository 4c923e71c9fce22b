package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/log"
	"go.uber.org/zap"
)

// Pixel lists the buffer types godal accepts for band IO that this module
// writes.
type Pixel interface {
	uint8 | uint16 | int16 | float32 | float64
}

// WriteGeoTIFF creates a GeoTIFF with info's size, data type, CRS and
// transform and writes one buffer per band. info.Bands is ignored in favor
// of len(bands). GDAL converts the buffer type to info.DataType on write.
func WriteGeoTIFF[T Pixel](path string, info Info, bands [][]T) error {
	if len(bands) == 0 || info.Width <= 0 || info.Height <= 0 {
		return ErrEmptyRaster
	}
	for i, b := range bands {
		if len(b) != info.Width*info.Height {
			return fmt.Errorf("%w: band %d has %d values, want %d", ErrBufferSize, i+1, len(b), info.Width*info.Height)
		}
	}
	dtype := info.DataType
	if dtype == godal.Unknown {
		dtype = godal.Float32
	}

	ds, err := godal.Create(godal.GTiff, path, len(bands), dtype, info.Width, info.Height)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeBands(ds, info, bands); err != nil {
		ds.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := ds.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	log.Debug("wrote geotiff", zap.String("path", path), zap.Int("bands", len(bands)),
		zap.Int("width", info.Width), zap.Int("height", info.Height))
	return nil
}

func writeBands[T Pixel](ds *godal.Dataset, info Info, bands [][]T) error {
	if err := ds.SetGeoTransform([6]float64(info.Transform)); err != nil {
		return err
	}
	if info.CRS != "" {
		if err := ds.SetProjection(info.CRS); err != nil {
			return err
		}
	}
	dsBands := ds.Bands()
	for i, data := range bands {
		if err := dsBands[i].Write(0, 0, data, info.Width, info.Height); err != nil {
			return fmt.Errorf("band %d: %w", i+1, err)
		}
	}
	return nil
}
