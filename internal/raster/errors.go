package raster

import "errors"

var (
	ErrOpenFailed       = errors.New("failed to open raster")
	ErrEmptyRaster      = errors.New("raster has no bands or no pixels")
	ErrBandOutOfRange   = errors.New("band index out of range")
	ErrWindowOutOfRange = errors.New("window outside raster bounds")
	ErrBufferSize       = errors.New("band buffer does not match raster size")
)
