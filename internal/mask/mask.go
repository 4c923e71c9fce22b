package mask

import (
	"fmt"
	"math"

	"github.com/forest-guardian/landprep/internal/properties"
	"github.com/forest-guardian/landprep/internal/spectral"
)

type Class uint8

const (
	Background Class = 0
	Vegetation Class = 1
	Water      Class = 2
	Urban      Class = 3
)

// Classes lists the labeled classes in legend order. Background is omitted.
var Classes = []Class{Vegetation, Water, Urban}

func (c Class) String() string {
	switch c {
	case Background:
		return "Background"
	case Vegetation:
		return "Vegetation"
	case Water:
		return "Water"
	case Urban:
		return "Urban"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

func (c Class) Color() properties.Color {
	if clr, ok := properties.ColorMap[c.String()]; ok {
		return clr
	}
	return properties.ColorMap["unknown"]
}

type Thresholds struct {
	NDVI, NDWI, NDBI float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		NDVI: properties.DefaultNDVIThreshold,
		NDWI: properties.DefaultNDWIThreshold,
		NDBI: properties.DefaultNDBIThreshold,
	}
}

// ClassMask holds one class value per pixel, row-major.
type ClassMask struct {
	Width, Height int
	Data          []uint8
}

func (m *ClassMask) At(x, y int) Class {
	return Class(m.Data[y*m.Width+x])
}

// Counts returns the number of pixels per class, background included.
func (m *ClassMask) Counts() map[Class]int {
	counts := map[Class]int{Background: 0}
	for _, c := range Classes {
		counts[c] = 0
	}
	for _, v := range m.Data {
		counts[Class(v)]++
	}
	return counts
}

// Build classifies each pixel from three index grids of identical shape.
// Passes run in a fixed order so that, where several predicates hold,
// urban overrides water, which overrides vegetation. Non-finite values never
// satisfy a predicate, so those pixels stay background.
func Build(ndvi, ndwi, ndbi spectral.Grid, t Thresholds) (*ClassMask, error) {
	if !ndvi.SameShape(ndwi) || !ndvi.SameShape(ndbi) {
		return nil, fmt.Errorf("%w: ndvi %dx%d, ndwi %dx%d, ndbi %dx%d", spectral.ErrShapeMismatch,
			ndvi.Width, ndvi.Height, ndwi.Width, ndwi.Height, ndbi.Width, ndbi.Height)
	}
	m := &ClassMask{Width: ndvi.Width, Height: ndvi.Height, Data: make([]uint8, len(ndvi.Data))}

	for i, v := range ndvi.Data {
		if above(v, t.NDVI) {
			m.Data[i] = uint8(Vegetation)
		}
	}
	for i, v := range ndwi.Data {
		if above(v, t.NDWI) {
			m.Data[i] = uint8(Water)
		}
	}
	for i, v := range ndbi.Data {
		if above(v, t.NDBI) {
			m.Data[i] = uint8(Urban)
		}
	}
	for i := range m.Data {
		if !above(ndvi.Data[i], t.NDVI) && !above(ndwi.Data[i], t.NDWI) && !above(ndbi.Data[i], t.NDBI) {
			m.Data[i] = uint8(Background)
		}
	}
	return m, nil
}

// above is the class predicate. Infinities never qualify, like NaN.
func above(v, threshold float64) bool {
	return !math.IsInf(v, 0) && v > threshold
}
