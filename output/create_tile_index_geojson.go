package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// TileIndex builds one polygon feature per tile footprint, in the
// coordinates of the source transform.
func TileIndex(tiles []tiler.TileOutput, crs string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range tiles {
		c := t.Transform.Corners(t.Window.Width, t.Window.Height)
		ring := orb.Ring{
			{c[0][0], c[0][1]},
			{c[1][0], c[1][1]},
			{c[2][0], c[2][1]},
			{c[3][0], c[3][1]},
			{c[0][0], c[0][1]},
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["col"] = t.Col
		f.Properties["row"] = t.Row
		f.Properties["x"] = t.Window.X
		f.Properties["y"] = t.Window.Y
		f.Properties["width"] = t.Window.Width
		f.Properties["height"] = t.Window.Height
		f.Properties["file"] = filepath.Base(t.Path)
		fc.Append(f)
	}
	if crs != "" {
		fc.ExtraMembers = geojson.Properties{"crs_wkt": crs}
	}
	return fc
}

func CreateTileIndexGeoJSON(tiles []tiler.TileOutput, crs, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(TileIndex(tiles, crs)); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode tile index: %w", err)
	}
	return file.Close()
}
