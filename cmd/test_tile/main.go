package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/forest-guardian/landprep/output"
)

// Tiles a synthetic 2-band 1300x800 scene at 640x480 and prints the grid.
func main() {
	const width, height = 1300, 800

	if err := log.Init(true); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()
	godal.RegisterAll()

	dir, err := os.MkdirTemp("", "landprep-test-tile")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("Working in", dir)

	bands := make([][]uint16, 2)
	for b := range bands {
		bands[b] = make([]uint16, width*height)
		for i := range bands[b] {
			bands[b][i] = uint16((i%width + i/width) * (b + 1))
		}
	}
	scene := filepath.Join(dir, "synthetic.tif")
	info := raster.Info{
		Width:     width,
		Height:    height,
		DataType:  godal.UInt16,
		Transform: raster.Affine{500000, 30, 0, 4200000, 0, -30},
	}
	if err := raster.WriteGeoTIFF(scene, info, bands); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ds, err := raster.Open(scene)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer ds.Close()

	res, err := tiler.Run(context.Background(), ds, tiler.Options{
		TileWidth:  640,
		TileHeight: 480,
		Format:     tiler.GeoTIFF,
		OutputDir:  filepath.Join(dir, "tiles"),
		BaseName:   "synthetic",
		Workers:    4,
		Progress:   true,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := output.CreateTileIndexGeoJSON(res.Written, "", filepath.Join(dir, "tiles", "index.geojson")); err != nil {
		fmt.Println(err)
	}

	fmt.Printf("\nGrid: %d cols x %d rows, %d written, %d failed\n", res.Plan.Cols, res.Plan.Rows, len(res.Written), len(res.Failed))
	for _, t := range res.Written {
		x, y := t.Transform.Apply(0, 0)
		fmt.Printf("  %-28s %-14s origin (%.0f, %.0f)\n", filepath.Base(t.Path), t.Window, x, y)
	}
}
