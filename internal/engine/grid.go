package engine

import (
	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// GridPlacer scans a uniform lattice inset from the bounding box by the wall
// clearance. Output is ordered by ascending X, then ascending Y.
type GridPlacer struct {
	Settings model.Settings
}

func (g GridPlacer) Place(room model.Boundary, _ []model.Pipe) ([]model.Point3D, error) {
	poly, err := geometry.NewPolygon(room)
	if err != nil {
		return nil, err
	}
	s := g.Settings
	min, max := poly.Bounds()

	xs := lattice(min.X+s.WallClearance, max.X-s.WallClearance, s.SprinklerSpacing)
	ys := lattice(min.Y+s.WallClearance, max.Y-s.WallClearance, s.SprinklerSpacing)

	placed := []model.Point3D{}
	for _, x := range xs {
		for _, y := range ys {
			p := model.Pt(x, y, s.CeilingHeight)
			if poly.Accepts(p, s.WallClearance) {
				placed = append(placed, p)
			}
		}
	}
	return placed, nil
}
