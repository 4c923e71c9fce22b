package raster

// Affine is a GDAL-ordered geotransform:
//
//	x = A[0] + col*A[1] + row*A[2]
//	y = A[3] + col*A[4] + row*A[5]
type Affine [6]float64

// Identity maps pixel coordinates onto themselves.
var Identity = Affine{0, 1, 0, 0, 0, 1}

// Apply returns the geographic coordinate of the pixel corner (col, row).
func (a Affine) Apply(col, row float64) (float64, float64) {
	x := a[0] + col*a[1] + row*a[2]
	y := a[3] + col*a[4] + row*a[5]
	return x, y
}

// Translate composes a with a pixel-space shift, so that pixel (0,0) of the
// result lands on pixel (dcol, drow) of a.
func (a Affine) Translate(dcol, drow float64) Affine {
	x, y := a.Apply(dcol, drow)
	return Affine{x, a[1], a[2], y, a[4], a[5]}
}

// Corners returns the four corners of a width x height pixel block, clockwise
// from the origin.
func (a Affine) Corners(width, height int) [4][2]float64 {
	w, h := float64(width), float64(height)
	var c [4][2]float64
	c[0][0], c[0][1] = a.Apply(0, 0)
	c[1][0], c[1][1] = a.Apply(w, 0)
	c[2][0], c[2][1] = a.Apply(w, h)
	c[3][0], c[3][1] = a.Apply(0, h)
	return c
}
