package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// CalculateMetrics computes aggregate quality figures for a placement.
// Every field except RoomArea is zero when no sprinklers are placed.
func CalculateMetrics(sprinklers []model.Point3D, conns []model.Connection, room model.Boundary, settings model.Settings) model.Metrics {
	area := geometry.PolygonArea(room)
	m := model.Metrics{
		TotalSprinklers: len(sprinklers),
		RoomArea:        area,
	}
	n := len(sprinklers)
	if n == 0 {
		return m
	}

	m.CoveragePerSprinkler = area / float64(n)

	if len(conns) > 0 {
		dists := make([]float64, len(conns))
		for i, c := range conns {
			dists[i] = c.Length()
		}
		m.AverageConnectionDistance = stat.Mean(dists, nil)
		m.MinConnectionDistance = floats.Min(dists)
		m.MaxConnectionDistance = floats.Max(dists)
	}

	if n >= 2 {
		pairs := make([]float64, 0, n*(n-1)/2)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, sprinklers[i].Distance2D(sprinklers[j]))
			}
		}
		m.AverageSpacingDistance = stat.Mean(pairs, nil)
		if m.AverageSpacingDistance > 0 {
			m.SpacingUniformity = settings.SprinklerSpacing / m.AverageSpacingDistance
		}
	}

	r := settings.MinimumCoverageRadius
	if r > 0 {
		optimal := area / (math.Pi * r * r)
		m.CoverageEfficiency = math.Min(1, optimal/float64(n))
	}
	return m
}
