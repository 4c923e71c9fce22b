package main

import (
	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/spf13/cobra"
)

var pngCmd = &cobra.Command{
	Use:   "png",
	Short: "render whole rasters as 8-bit PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := required(cmd, "input", "output"); err != nil {
			return err
		}
		strategy, err := tiler.ParseStrategy(conf.GetString(key(cmd, "normalize")))
		if err != nil {
			return err
		}
		bands, err := parseBands(conf.GetString(key(cmd, "bands")))
		if err != nil {
			return err
		}
		_, err = delivery.ConvertPNG(cmd.Context(), delivery.PNGOptions{
			InputPath: conf.GetString(key(cmd, "input")),
			OutputDir: conf.GetString(key(cmd, "output")),
			Bands:     bands,
			Strategy:  strategy,
		})
		return err
	},
}

func init() {
	f := pngCmd.Flags()
	f.StringP("input", "i", "", "input GeoTIFF or directory of GeoTIFFs")
	f.StringP("output", "o", "", "output directory")
	f.String("bands", "", "1 or 3 comma separated 1-based bands (default 1,2,3)")
	f.String("normalize", tiler.GlobalPercentile.String(), "scaling: none, minmax or percentile")
}
