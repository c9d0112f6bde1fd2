package engine

import (
	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Placer produces sprinkler positions for a room. Implementations return an
// empty slice, not an error, when no position qualifies.
type Placer interface {
	Place(room model.Boundary, pipes []model.Pipe) ([]model.Point3D, error)
}

// NewPlacer returns the placer for strategy configured with settings.
func NewPlacer(strategy model.Strategy, settings model.Settings) (Placer, error) {
	switch strategy {
	case model.StrategyGrid:
		return GridPlacer{Settings: settings}, nil
	case model.StrategyMaximumCoverage:
		return CoveragePlacer{Settings: settings}, nil
	case model.StrategyPipeProximity:
		return PipeProximityPlacer{Settings: settings}, nil
	default:
		return nil, model.NewError(model.ErrCodeInvalidInput, "unknown strategy %q", string(strategy))
	}
}

// lattice returns the coordinates start, start+step, ... up to and including
// end. Coordinates are computed by index so repeated scans agree exactly.
func lattice(start, end, step float64) []float64 {
	if step <= 0 || start > end+geometry.Epsilon {
		return nil
	}
	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > end+geometry.Epsilon {
			break
		}
		out = append(out, v)
	}
	return out
}

// spacedFrom reports whether p is at least spacing (2D) from every point in placed.
func spacedFrom(p model.Point3D, placed []model.Point3D, spacing float64) bool {
	for _, q := range placed {
		if p.Distance2D(q) < spacing {
			return false
		}
	}
	return true
}
