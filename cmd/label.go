package main

import (
	"fmt"

	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/forest-guardian/landprep/internal/mask"
	"github.com/forest-guardian/landprep/internal/properties"
	"github.com/forest-guardian/landprep/internal/spectral"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "build vegetation/water/urban masks from NDVI, NDWI and NDBI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := required(cmd, "input", "output"); err != nil {
			return err
		}
		format, err := tiler.ParseFormat(conf.GetString(key(cmd, "format")))
		if err != nil {
			return err
		}
		formula, err := spectral.ParseNDWIFormula(conf.GetString(key(cmd, "ndwi-formula")))
		if err != nil {
			return err
		}
		opts := delivery.LabelOptions{
			InputPath: conf.GetString(key(cmd, "input")),
			OutputDir: conf.GetString(key(cmd, "output")),
			Format:    format,
			Preview:   conf.GetBool(key(cmd, "show")),
			Counts:    conf.GetBool(key(cmd, "counts")),
			Mask: mask.LabelOptions{
				NDWIFormula: formula,
				Roles: spectral.BandRoles{
					Green: conf.GetInt(key(cmd, "green-band")),
					Red:   conf.GetInt(key(cmd, "red-band")),
					NIR:   conf.GetInt(key(cmd, "nir-band")),
					SWIR:  conf.GetInt(key(cmd, "swir-band")),
				},
				Thresholds: mask.Thresholds{
					NDVI: conf.GetFloat64(key(cmd, "ndvi")),
					NDWI: conf.GetFloat64(key(cmd, "ndwi")),
					NDBI: conf.GetFloat64(key(cmd, "ndbi")),
				},
			},
		}
		for name, v := range map[string]float64{"ndvi": opts.Mask.Thresholds.NDVI, "ndwi": opts.Mask.Thresholds.NDWI, "ndbi": opts.Mask.Thresholds.NDBI} {
			if v < 0 || v > 1 {
				return fmt.Errorf("--%s must be within [0,1], got %g", name, v)
			}
		}

		_, err = delivery.Label(cmd.Context(), opts)
		return err
	},
}

func init() {
	f := labelCmd.Flags()
	f.StringP("input", "i", "", "input GeoTIFF or directory of GeoTIFFs")
	f.StringP("output", "o", "", "output directory")
	f.Float64("ndvi", properties.DefaultNDVIThreshold, "NDVI percentile cut and class threshold")
	f.Float64("ndwi", properties.DefaultNDWIThreshold, "NDWI percentile cut and class threshold")
	f.Float64("ndbi", properties.DefaultNDBIThreshold, "NDBI percentile cut and class threshold")
	f.String("format", "tif", "mask format: tif or png")
	f.String("ndwi-formula", spectral.NDWIGreenSWIR.String(), "NDWI variant: green-nir or green-swir")
	f.Int("green-band", properties.DefaultGreenBand, "green band number")
	f.Int("red-band", properties.DefaultRedBand, "red band number")
	f.Int("nir-band", properties.DefaultNIRBand, "near-infrared band number")
	f.Int("swir-band", properties.DefaultSWIRBand, "short-wave infrared band number")
	f.Bool("show", false, "also write a colored preview with legend")
	f.Bool("counts", false, "also write per-class pixel counts as CSV")
}
