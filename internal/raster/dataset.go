package raster

import (
	"errors"
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/utils"
	"go.uber.org/zap"
)

// Dataset is a Source backed by a GDAL dataset opened read-only.
type Dataset struct {
	path string
	ds   *godal.Dataset
	info Info
}

// ignoreWarnings keeps GDAL warnings (e.g. unknown TIFF tags) from failing
// the call they were raised in.
func ignoreWarnings() godal.ErrorHandler {
	return func(ec godal.ErrorCategory, code int, msg string) error {
		if ec <= godal.CE_Warning {
			log.Debug("gdal warning", zap.Int("code", code), zap.String("msg", msg))
			return nil
		}
		return errors.New(msg)
	}
}

func Open(path string) (*Dataset, error) {
	ds, err := godal.Open(path, godal.RasterOnly(), godal.ErrLogger(ignoreWarnings()))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOpenFailed, path, err)
	}
	structure := ds.Structure()
	if structure.NBands == 0 || structure.SizeX == 0 || structure.SizeY == 0 {
		ds.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyRaster, path)
	}

	gt, err := ds.GeoTransform(godal.ErrLogger(ignoreWarnings()))
	if err != nil {
		// not georeferenced: keep pixel coordinates
		log.Warn("raster has no geotransform", zap.String("path", path))
		gt = [6]float64(Identity)
	}

	info := Info{
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		Bands:     structure.NBands,
		DataType:  structure.DataType,
		CRS:       ds.Projection(),
		Transform: Affine(gt),
	}
	log.Debug("opened raster",
		zap.String("path", path),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Int("bands", info.Bands),
		zap.String("dtype", info.DataType.String()))
	return &Dataset{path: path, ds: ds, info: info}, nil
}

func (d *Dataset) Path() string {
	return d.path
}

func (d *Dataset) Info() Info {
	return d.info
}

func (d *Dataset) ReadWindow(band int, w Window) ([]float64, error) {
	if err := checkRead(d.info, band, w); err != nil {
		return nil, err
	}
	data := make([]float64, w.Area())
	var err error
	utils.ExecuteWithMutex(func() {
		err = d.ds.Bands()[band-1].Read(w.X, w.Y, data, w.Width, w.Height)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read band %d window %s of %s: %w", band, w, d.path, err)
	}
	return data, nil
}

func (d *Dataset) Close() error {
	var err error
	utils.ExecuteWithMutex(func() {
		err = d.ds.Close()
	})
	return err
}
