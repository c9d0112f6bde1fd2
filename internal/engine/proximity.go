package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// PipeProximityPlacer samples candidates along every pipe, projected to the
// ceiling, and greedily keeps those nearest to a pipe first.
type PipeProximityPlacer struct {
	Settings model.Settings
}

type pipeCandidate struct {
	point    model.Point3D
	pipeDist float64
}

func (pp PipeProximityPlacer) Place(room model.Boundary, pipes []model.Pipe) ([]model.Point3D, error) {
	poly, err := geometry.NewPolygon(room)
	if err != nil {
		return nil, err
	}
	s := pp.Settings

	var candidates []pipeCandidate
	for _, pipe := range pipes {
		segments := int(math.Max(3, math.Floor(pipe.Length()/s.SprinklerSpacing)))
		for i := 0; i <= segments; i++ {
			p := pipe.PointAt(float64(i) / float64(segments)).AtHeight(s.CeilingHeight)
			if !poly.Accepts(p, s.WallClearance) {
				continue
			}
			candidates = append(candidates, pipeCandidate{point: p, pipeDist: nearestPipeDistance(p, pipes)})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].pipeDist < candidates[j].pipeDist
	})

	placed := []model.Point3D{}
	for _, c := range candidates {
		if spacedFrom(c.point, placed, s.SprinklerSpacing) {
			placed = append(placed, c.point)
		}
	}
	return placed, nil
}

func nearestPipeDistance(p model.Point3D, pipes []model.Pipe) float64 {
	best := math.Inf(1)
	for _, pipe := range pipes {
		if d := pipe.DistanceTo(p); d < best {
			best = d
		}
	}
	return best
}
