package spectral

import (
	"fmt"
	"math"
	"strings"

	"github.com/forest-guardian/landprep/internal/properties"
	"github.com/forest-guardian/landprep/internal/raster"
)

// Epsilon guards the NDWI and NDBI denominators.
const Epsilon = 1e-10

// BandRoles maps spectral roles to 1-based band indexes of the input raster.
type BandRoles struct {
	Green, Red, NIR, SWIR int
}

func DefaultBandRoles() BandRoles {
	return BandRoles{
		Green: properties.DefaultGreenBand,
		Red:   properties.DefaultRedBand,
		NIR:   properties.DefaultNIRBand,
		SWIR:  properties.DefaultSWIRBand,
	}
}

func (r BandRoles) Validate(bands int) error {
	roles := []struct {
		name string
		idx  int
	}{{"green", r.Green}, {"red", r.Red}, {"nir", r.NIR}, {"swir", r.SWIR}}
	for _, role := range roles {
		if role.idx < 1 || role.idx > bands {
			return fmt.Errorf("%w: %s band %d, raster has %d bands", ErrBandOutOfRange, role.name, role.idx, bands)
		}
	}
	return nil
}

// NDWIFormula selects which band pair the water index contrasts with green.
type NDWIFormula int

const (
	// NDWIGreenNIR is McFeeters' (GREEN - NIR) / (GREEN + NIR).
	NDWIGreenNIR NDWIFormula = iota
	// NDWIGreenSWIR is the modified (GREEN - SWIR) / (GREEN + SWIR).
	NDWIGreenSWIR
)

func (f NDWIFormula) String() string {
	switch f {
	case NDWIGreenNIR:
		return "green-nir"
	case NDWIGreenSWIR:
		return "green-swir"
	default:
		return fmt.Sprintf("NDWIFormula(%d)", int(f))
	}
}

func ParseNDWIFormula(s string) (NDWIFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "green-nir", "nir", "mcfeeters":
		return NDWIGreenNIR, nil
	case "green-swir", "swir", "mndwi":
		return NDWIGreenSWIR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormula, s)
}

func normalizedDifference(a, b Grid, eps float64) (Grid, error) {
	if err := checkShapes(a, b); err != nil {
		return Grid{}, err
	}
	out := NewGrid(a.Width, a.Height)
	for i := range out.Data {
		den := a.Data[i] + b.Data[i] + eps
		if den == 0 {
			out.Data[i] = math.NaN()
			continue
		}
		out.Data[i] = (a.Data[i] - b.Data[i]) / den
	}
	return out, nil
}

// NDVI is (NIR - RED) / (NIR + RED). Pixels with a zero denominator are NaN.
func NDVI(nir, red Grid) (Grid, error) {
	return normalizedDifference(nir, red, 0)
}

// NDWI uses the formula's second band: NIR for NDWIGreenNIR, SWIR for
// NDWIGreenSWIR.
func NDWI(formula NDWIFormula, green, nir, swir Grid) (Grid, error) {
	switch formula {
	case NDWIGreenNIR:
		return normalizedDifference(green, nir, Epsilon)
	case NDWIGreenSWIR:
		return normalizedDifference(green, swir, Epsilon)
	}
	return Grid{}, fmt.Errorf("%w: %v", ErrUnknownFormula, formula)
}

// NDBI is (SWIR - NIR) / (SWIR + NIR + eps).
func NDBI(swir, nir Grid) (Grid, error) {
	return normalizedDifference(swir, nir, Epsilon)
}

type Indices struct {
	NDVI, NDWI, NDBI Grid
}

// ComputeIndices reads the role bands of src and derives the three indices.
func ComputeIndices(src raster.Source, roles BandRoles, formula NDWIFormula) (*Indices, error) {
	info := src.Info()
	if err := roles.Validate(info.Bands); err != nil {
		return nil, err
	}
	read := func(band int) (Grid, error) {
		data, err := raster.ReadBand(src, band)
		if err != nil {
			return Grid{}, err
		}
		return Grid{Width: info.Width, Height: info.Height, Data: data}, nil
	}

	green, err := read(roles.Green)
	if err != nil {
		return nil, err
	}
	red, err := read(roles.Red)
	if err != nil {
		return nil, err
	}
	nir, err := read(roles.NIR)
	if err != nil {
		return nil, err
	}
	swir, err := read(roles.SWIR)
	if err != nil {
		return nil, err
	}

	var idx Indices
	if idx.NDVI, err = NDVI(nir, red); err != nil {
		return nil, err
	}
	if idx.NDWI, err = NDWI(formula, green, nir, swir); err != nil {
		return nil, err
	}
	if idx.NDBI, err = NDBI(swir, nir); err != nil {
		return nil, err
	}
	return &idx, nil
}
