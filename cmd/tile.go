package main

import (
	"runtime"

	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/forest-guardian/landprep/internal/properties"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/spf13/cobra"
)

var tileCmd = &cobra.Command{
	Use:   "tile",
	Short: "cut rasters into fixed-size GeoTIFF or PNG tiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := required(cmd, "input", "output"); err != nil {
			return err
		}
		format, err := tiler.ParseFormat(conf.GetString(key(cmd, "format")))
		if err != nil {
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

		opts := delivery.TileOptions{
			InputPath: conf.GetString(key(cmd, "input")),
			OutputDir: conf.GetString(key(cmd, "output")),
			Index:     conf.GetBool(key(cmd, "index")),
			Tiler: tiler.Options{
				TileWidth:  conf.GetInt(key(cmd, "width")),
				TileHeight: conf.GetInt(key(cmd, "height")),
				Format:     format,
				Strategy:   strategy,
				Bands:      bands,
				Workers:    conf.GetInt(key(cmd, "workers")),
				Progress:   !conf.GetBool("quiet"),
			},
		}
		if !conf.GetBool(key(cmd, "no-cache")) {
			opts.CacheDir = properties.CacheDir()
			opts.CacheMaxAge = conf.GetDuration(key(cmd, "cache-max-age"))
		}

		_, err = delivery.Tile(cmd.Context(), opts)
		return err
	},
}

func init() {
	f := tileCmd.Flags()
	f.StringP("input", "i", "", "input GeoTIFF or directory of GeoTIFFs")
	f.StringP("output", "o", "", "output directory")
	f.Int("width", properties.DefaultTileWidth, "tile width in pixels")
	f.Int("height", properties.DefaultTileHeight, "tile height in pixels")
	f.String("format", "tif", "tile format: tif or png")
	f.String("normalize", tiler.None.String(), "png scaling: none, tile, minmax or percentile")
	f.String("bands", "", "comma separated 1-based bands (default: all for tif, 1,2,3 for png)")
	f.Int("workers", runtime.NumCPU(), "concurrent tile writers")
	f.Bool("index", false, "write a GeoJSON index of tile footprints")
	f.Bool("no-cache", false, "always recompute global statistics")
	f.Duration("cache-max-age", 0, "discard cached statistics older than this (0 keeps them forever)")
}
