package raster

import "fmt"

// Window is a rectangular pixel-space region of a raster.
type Window struct {
	X, Y          int
	Width, Height int
}

func (w Window) Area() int {
	return w.Width * w.Height
}

func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

func (w Window) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", w.Width, w.Height, w.X, w.Y)
}

// Within reports whether w lies entirely inside a width x height raster.
func (w Window) Within(width, height int) bool {
	return w.X >= 0 && w.Y >= 0 && !w.Empty() && w.X+w.Width <= width && w.Y+w.Height <= height
}
