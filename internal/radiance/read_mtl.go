package radiance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrMissingRescaling = errors.New("MTL has no LEVEL1_RADIOMETRIC_RESCALING section")
	ErrBadCoefficient   = errors.New("invalid rescaling coefficient")
)

const (
	multPrefix = "RADIANCE_MULT_BAND_"
	addPrefix  = "RADIANCE_ADD_BAND_"
)

type mtlFile struct {
	Metadata struct {
		Rescaling map[string]json.RawMessage `json:"LEVEL1_RADIOMETRIC_RESCALING"`
	} `json:"LANDSAT_METADATA_FILE"`
}

// Coefficients holds the per-band linear rescaling factors, keyed by the
// 1-based band number.
type Coefficients struct {
	Mult map[int]float64
	Add  map[int]float64
}

// Has reports whether both factors of band are known.
func (c Coefficients) Has(band int) bool {
	_, m := c.Mult[band]
	_, a := c.Add[band]
	return m && a
}

// Bands lists the bands with both factors, ascending.
func (c Coefficients) Bands() []int {
	var bands []int
	for b := range c.Mult {
		if c.Has(b) {
			bands = append(bands, b)
		}
	}
	sort.Ints(bands)
	return bands
}

// Apply converts digital numbers to radiance in place: mult*DN + add.
func (c Coefficients) Apply(band int, dn []float64) bool {
	if !c.Has(band) {
		return false
	}
	mult, add := c.Mult[band], c.Add[band]
	for i, v := range dn {
		dn[i] = mult*v + add
	}
	return true
}

// ReadMTL loads the radiance coefficients from a Landsat MTL JSON file.
func ReadMTL(path string) (Coefficients, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Coefficients{}, fmt.Errorf("failed to read MTL %s: %w", path, err)
	}
	return ParseMTL(data)
}

func ParseMTL(data []byte) (Coefficients, error) {
	var mtl mtlFile
	if err := json.Unmarshal(data, &mtl); err != nil {
		return Coefficients{}, fmt.Errorf("invalid MTL JSON: %w", err)
	}
	if len(mtl.Metadata.Rescaling) == 0 {
		return Coefficients{}, ErrMissingRescaling
	}

	c := Coefficients{Mult: map[int]float64{}, Add: map[int]float64{}}
	for key, raw := range mtl.Metadata.Rescaling {
		var target map[int]float64
		var suffix string
		switch {
		case strings.HasPrefix(key, multPrefix):
			target, suffix = c.Mult, strings.TrimPrefix(key, multPrefix)
		case strings.HasPrefix(key, addPrefix):
			target, suffix = c.Add, strings.TrimPrefix(key, addPrefix)
		default:
			continue
		}
		band, err := strconv.Atoi(suffix)
		if err != nil {
			return Coefficients{}, fmt.Errorf("%w: key %s", ErrBadCoefficient, key)
		}
		v, err := parseNumber(raw)
		if err != nil {
			return Coefficients{}, fmt.Errorf("%w: %s: %v", ErrBadCoefficient, key, err)
		}
		target[band] = v
	}
	return c, nil
}

// parseNumber accepts both quoted ("1.2E-02") and bare JSON numbers; USGS
// ships the former.
func parseNumber(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}
