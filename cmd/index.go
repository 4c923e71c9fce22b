package main

import (
	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/forest-guardian/landprep/internal/properties"
	"github.com/forest-guardian/landprep/internal/spectral"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "write NDVI, NDWI and NDBI maps",
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

		_, err = delivery.Index(cmd.Context(), delivery.IndexOptions{
			InputPath:   conf.GetString(key(cmd, "input")),
			OutputDir:   conf.GetString(key(cmd, "output")),
			Format:      format,
			NDWIFormula: formula,
			Roles: spectral.BandRoles{
				Green: conf.GetInt(key(cmd, "green-band")),
				Red:   conf.GetInt(key(cmd, "red-band")),
				NIR:   conf.GetInt(key(cmd, "nir-band")),
				SWIR:  conf.GetInt(key(cmd, "swir-band")),
			},
		})
		return err
	},
}

func init() {
	f := indexCmd.Flags()
	f.StringP("input", "i", "", "input GeoTIFF or directory of GeoTIFFs")
	f.StringP("output", "o", "", "output directory")
	f.String("format", "tif", "index format: tif (Float32) or png (8-bit, [-1,1] scaled)")
	f.String("ndwi-formula", spectral.NDWIGreenSWIR.String(), "NDWI variant: green-nir or green-swir")
	f.Int("green-band", properties.DefaultGreenBand, "green band number")
	f.Int("red-band", properties.DefaultRedBand, "red band number")
	f.Int("nir-band", properties.DefaultNIRBand, "near-infrared band number")
	f.Int("swir-band", properties.DefaultSWIRBand, "short-wave infrared band number")
}
