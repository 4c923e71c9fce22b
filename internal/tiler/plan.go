package tiler

import (
	"errors"
	"fmt"

	"github.com/forest-guardian/landprep/internal/raster"
)

var (
	ErrInvalidTileSize      = errors.New("tile width and height must be positive")
	ErrUnsupportedBandCount = errors.New("png tiles need 1 or 3 bands")
	ErrUnknownStrategy      = errors.New("unknown normalization strategy")
	ErrUnknownFormat        = errors.New("unknown output format")
)

// Plan is the tile grid over a raster. The last column and row shrink to
// the remainder when the raster size is not a multiple of the tile size.
type Plan struct {
	Width, Height         int
	TileWidth, TileHeight int
	Cols, Rows            int
}

func NewPlan(width, height, tileWidth, tileHeight int) (Plan, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return Plan{}, fmt.Errorf("%w: %dx%d", ErrInvalidTileSize, tileWidth, tileHeight)
	}
	if width <= 0 || height <= 0 {
		return Plan{}, raster.ErrEmptyRaster
	}
	p := Plan{
		Width:      width,
		Height:     height,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Cols:       width / tileWidth,
		Rows:       height / tileHeight,
	}
	if width%tileWidth != 0 {
		p.Cols++
	}
	if height%tileHeight != 0 {
		p.Rows++
	}
	return p, nil
}

// Window returns the pixel window of tile (col, row).
func (p Plan) Window(col, row int) raster.Window {
	w := raster.Window{
		X:      col * p.TileWidth,
		Y:      row * p.TileHeight,
		Width:  p.TileWidth,
		Height: p.TileHeight,
	}
	if w.X+w.Width > p.Width {
		w.Width = p.Width - w.X
	}
	if w.Y+w.Height > p.Height {
		w.Height = p.Height - w.Y
	}
	return w
}

// Tile is one window of the grid with its own geotransform.
type Tile struct {
	Col, Row  int
	Window    raster.Window
	Transform raster.Affine
}

// Tiles lists the non-empty tiles in row-major order; each transform is gt
// translated to the tile origin.
func (p Plan) Tiles(gt raster.Affine) []Tile {
	tiles := make([]Tile, 0, p.Cols*p.Rows)
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			w := p.Window(col, row)
			if w.Empty() {
				continue
			}
			tiles = append(tiles, Tile{
				Col:       col,
				Row:       row,
				Window:    w,
				Transform: gt.Translate(float64(w.X), float64(w.Y)),
			})
		}
	}
	return tiles
}

func (p Plan) Count() int {
	return len(p.Tiles(raster.Identity))
}
