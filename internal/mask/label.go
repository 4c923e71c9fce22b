package mask

import (
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/spectral"
	"go.uber.org/zap"
)

type LabelOptions struct {
	Roles       spectral.BandRoles
	NDWIFormula spectral.NDWIFormula
	Thresholds  Thresholds
}

func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		Roles:       spectral.DefaultBandRoles(),
		NDWIFormula: spectral.NDWIGreenSWIR,
		Thresholds:  DefaultThresholds(),
	}
}

// Label derives the land-cover mask of src. Each index is cut at the
// percentile given by its threshold, rescaled into [0,1], and the same
// threshold then decides class membership on the rescaled values.
func Label(src raster.Source, opts LabelOptions) (*ClassMask, error) {
	idx, err := spectral.ComputeIndices(src, opts.Roles, opts.NDWIFormula)
	if err != nil {
		return nil, err
	}
	t := opts.Thresholds
	ndvi := spectral.Normalize(spectral.Threshold(idx.NDVI, t.NDVI))
	ndwi := spectral.Normalize(spectral.Threshold(idx.NDWI, t.NDWI))
	ndbi := spectral.Normalize(spectral.Threshold(idx.NDBI, t.NDBI))

	m, err := Build(ndvi, ndwi, ndbi, t)
	if err != nil {
		return nil, err
	}
	counts := m.Counts()
	log.Debug("built class mask",
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.String("ndwi", opts.NDWIFormula.String()),
		zap.Int("vegetation", counts[Vegetation]),
		zap.Int("water", counts[Water]),
		zap.Int("urban", counts[Urban]))
	return m, nil
}
