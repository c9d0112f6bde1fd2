package engine

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

const (
	// MaxCoverageIterations bounds the number of sprinklers added after the seed.
	MaxCoverageIterations = 100
	// CoverageSamplesPerAxis is the resolution of the coverage sample grid.
	CoverageSamplesPerAxis = 20
	// CoverageSearchDivisor sets the candidate lattice step as spacing / divisor.
	CoverageSearchDivisor = 4.0
)

// CoveragePlacer is a greedy heuristic: it seeds the room centroid, then
// repeatedly adds the lattice candidate that covers the most currently
// uncovered sample area. The result is not guaranteed to be optimal.
type CoveragePlacer struct {
	Settings model.Settings
	// Workers caps concurrent candidate scoring. Zero means GOMAXPROCS.
	Workers int
}

func (c CoveragePlacer) Place(room model.Boundary, _ []model.Pipe) ([]model.Point3D, error) {
	poly, err := geometry.NewPolygon(room)
	if err != nil {
		return nil, err
	}
	s := c.Settings

	placed := []model.Point3D{}
	seed := poly.Centroid().AtHeight(s.CeilingHeight)
	if poly.Accepts(seed, s.WallClearance) {
		placed = append(placed, seed)
	}

	candidates := c.candidates(poly)
	samples := c.samples(poly)
	// Nearest distance of a sample while nothing is placed. A candidate
	// covering two such samples scores +Inf, so the first one in scan order wins.
	const farAway = math.MaxFloat64

	scores := make([]float64, len(candidates))
	nearest := make([]float64, len(samples))

	for added := 0; added < MaxCoverageIterations; added++ {
		for i, sp := range samples {
			nearest[i] = farAway
			for _, p := range placed {
				if d := sp.Distance2D(p); d < nearest[i] {
					nearest[i] = d
				}
			}
		}

		if err := c.score(candidates, samples, nearest, placed, scores); err != nil {
			return nil, err
		}

		best, bestScore := -1, 0.0
		for i, sc := range scores {
			if sc > bestScore {
				best, bestScore = i, sc
			}
		}
		if best < 0 {
			break
		}
		placed = append(placed, candidates[best])
	}
	return placed, nil
}

// candidates returns the lattice points that are inside the room and clear of
// the walls, in ascending X then ascending Y order.
func (c CoveragePlacer) candidates(poly geometry.Polygon) []model.Point3D {
	s := c.Settings
	min, max := poly.Bounds()
	step := s.SprinklerSpacing / CoverageSearchDivisor

	var out []model.Point3D
	for _, x := range lattice(min.X+s.WallClearance, max.X-s.WallClearance, step) {
		for _, y := range lattice(min.Y+s.WallClearance, max.Y-s.WallClearance, step) {
			p := model.Pt(x, y, s.CeilingHeight)
			if poly.Accepts(p, s.WallClearance) {
				out = append(out, p)
			}
		}
	}
	return out
}

// samples returns the inside points of an evenly spaced grid spanning the
// bounding box, corners included.
func (c CoveragePlacer) samples(poly geometry.Polygon) []model.Point3D {
	min, max := poly.Bounds()
	n := CoverageSamplesPerAxis
	stepX := (max.X - min.X) / float64(n-1)
	stepY := (max.Y - min.Y) / float64(n-1)

	out := make([]model.Point3D, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := model.Pt(min.X+float64(i)*stepX, min.Y+float64(j)*stepY, c.Settings.CeilingHeight)
			if poly.Contains(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// score fills scores[i] for every candidate. Ineligible candidates score 0.
// Each worker writes only its own indices.
func (c CoveragePlacer) score(candidates, samples []model.Point3D, nearest []float64, placed []model.Point3D, scores []float64) error {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(candidates) + workers - 1) / workers
	if chunk == 0 {
		return nil
	}

	radius := c.Settings.MinimumCoverageRadius
	spacing := c.Settings.SprinklerSpacing

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(candidates); lo += chunk {
		hi := min(lo+chunk, len(candidates))
		g.Go(func() (err error) {
			// errgroup does not forward panics to Wait.
			defer func() {
				if r := recover(); r != nil {
					err = model.NewError(model.ErrCodeComputationFailure, "scoring candidates %d-%d: %v", lo, hi, r)
				}
			}()
			for i := lo; i < hi; i++ {
				cand := candidates[i]
				if !spacedFrom(cand, placed, spacing) {
					scores[i] = 0
					continue
				}
				total := 0.0
				for k, sp := range samples {
					if nearest[k] <= radius {
						continue
					}
					if d := cand.Distance2D(sp); d <= radius {
						total += math.Max(0, nearest[k]-d)
					}
				}
				scores[i] = total
			}
			return nil
		})
	}
	return g.Wait()
}
