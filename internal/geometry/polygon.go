package geometry

import "github.com/piwi3910/SprinklerLayout/internal/model"

// Polygon is a boundary that has passed the vertex-count check, with its
// bounding box cached for lattice scans.
type Polygon struct {
	vertices model.Boundary
	min, max model.Point3D
}

// NewPolygon validates boundary and returns a Polygon. The vertices are
// copied; the caller's slice is never modified.
func NewPolygon(boundary model.Boundary) (Polygon, error) {
	if err := requireVertices(boundary); err != nil {
		return Polygon{}, err
	}
	v := make(model.Boundary, len(boundary))
	copy(v, boundary)
	min, max := BoundingBox(v)
	return Polygon{vertices: v, min: min, max: max}, nil
}

// Bounds returns the cached bounding box.
func (p Polygon) Bounds() (min, max model.Point3D) {
	return p.min, p.max
}

// Contains reports whether q lies inside the polygon (even-odd rule).
func (p Polygon) Contains(q model.Point3D) bool {
	return pointInPolygon(q, p.vertices)
}

// MaintainsClearance reports whether q is at least clearance from every edge.
func (p Polygon) MaintainsClearance(q model.Point3D, clearance float64) bool {
	return MaintainsClearance(q, p.vertices, clearance)
}

// Accepts reports whether q is inside the polygon and clear of every wall.
func (p Polygon) Accepts(q model.Point3D, clearance float64) bool {
	return p.Contains(q) && p.MaintainsClearance(q, clearance)
}

// Centroid returns the area-weighted centroid.
func (p Polygon) Centroid() model.Point3D {
	c, _ := PolygonCentroid(p.vertices)
	return c
}
