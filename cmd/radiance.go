package main

import (
	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/spf13/cobra"
)

var radianceCmd = &cobra.Command{
	Use:   "radiance <mtl.json> <input> <output>",
	Short: "convert digital numbers to radiance using MTL rescaling factors",
	Long: `Converts every band with RADIANCE_MULT_BAND_n / RADIANCE_ADD_BAND_n
factors to radiance = mult*DN + add and writes a Float32 GeoTIFF.
With a directory input, output is a directory receiving <name>_radiance.tif.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := delivery.Radiance(cmd.Context(), delivery.RadianceOptions{
			MTLPath:    args[0],
			InputPath:  args[1],
			OutputPath: args[2],
		})
		return err
	},
}
