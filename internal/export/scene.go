// Package export renders sprinkler layouts as text reports, ASCII pictures,
// PDF drawings, QR-coded installation tags, Excel workbooks, PNG plots and
// DXF drawings.
package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Scene bundles a computed layout with the inputs it was computed from.
type Scene struct {
	Name     string
	Room     model.Boundary
	Pipes    []model.Pipe
	Settings model.Settings
	Result   model.LayoutResult
}

func (s Scene) title() string {
	if s.Name == "" {
		return "Sprinkler Layout"
	}
	return s.Name
}

func (s Scene) check() error {
	if len(s.Room) < 3 {
		return fmt.Errorf("no room boundary to export")
	}
	return nil
}

// viewport maps world XY coordinates (mm) into a target rectangle, keeping
// the aspect ratio. The target Y axis points down.
type viewport struct {
	minX, minY float64
	maxY       float64
	scale      float64
	offX, offY float64
}

// newViewport fits the room bounding box into a w×h area at (x, y).
func newViewport(room model.Boundary, x, y, w, h float64) viewport {
	min, max := geometry.BoundingBox(room)
	spanX := math.Max(max.X-min.X, 1)
	spanY := math.Max(max.Y-min.Y, 1)
	scale := math.Min(w/spanX, h/spanY)
	return viewport{
		minX:  min.X,
		minY:  min.Y,
		maxY:  max.Y,
		scale: scale,
		offX:  x + (w-spanX*scale)/2,
		offY:  y,
	}
}

func (v viewport) point(p model.Point3D) (float64, float64) {
	return v.offX + (p.X-v.minX)*v.scale, v.offY + (v.maxY-p.Y)*v.scale
}

func (v viewport) length(mm float64) float64 {
	return mm * v.scale
}
