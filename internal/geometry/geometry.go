// Package geometry implements the planar predicates used by sprinkler
// placement: point-in-polygon, edge clearance, area, centroid and inset.
// All polygon operations work in the XY plane and ignore Z.
package geometry

import (
	"math"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Epsilon is the tolerance for degenerate lengths and areas.
const Epsilon = 1e-9

// Distance3D returns the Euclidean distance between a and b.
func Distance3D(a, b model.Point3D) float64 {
	return a.Distance(b)
}

// Distance2D returns the planar distance between a and b.
func Distance2D(a, b model.Point3D) float64 {
	return a.Distance2D(b)
}

func requireVertices(boundary model.Boundary) error {
	if len(boundary) < 3 {
		return model.NewError(model.ErrCodeInvalidGeometry,
			"polygon must have at least 3 vertices, got %d", len(boundary))
	}
	return nil
}

// PointInPolygon reports whether p lies inside boundary using the even-odd
// rule. Points exactly on an edge may classify either way.
func PointInPolygon(p model.Point3D, boundary model.Boundary) (bool, error) {
	if err := requireVertices(boundary); err != nil {
		return false, err
	}
	return pointInPolygon(p, boundary), nil
}

func pointInPolygon(p model.Point3D, boundary model.Boundary) bool {
	inside := false
	prev := boundary[len(boundary)-1]
	for _, cur := range boundary {
		if (prev.Y > p.Y) != (cur.Y > p.Y) {
			x := prev.X + (p.Y-prev.Y)*(cur.X-prev.X)/(cur.Y-prev.Y)
			if x > p.X {
				inside = !inside
			}
		}
		prev = cur
	}
	return inside
}

// PointToSegmentDistance returns the planar distance from p to the segment
// a→b. A degenerate segment yields the distance to a.
func PointToSegmentDistance(p, a, b model.Point3D) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < Epsilon {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// EdgeDistance returns the smallest planar distance from p to any edge of
// boundary. Returns +Inf for an empty boundary.
func EdgeDistance(p model.Point3D, boundary model.Boundary) float64 {
	min := math.Inf(1)
	n := len(boundary)
	for i := 0; i < n; i++ {
		d := PointToSegmentDistance(p, boundary[i], boundary[(i+1)%n])
		if d < min {
			min = d
		}
	}
	return min
}

// MaintainsClearance reports whether p is at least clearance away from
// every edge of boundary.
func MaintainsClearance(p model.Point3D, boundary model.Boundary, clearance float64) bool {
	n := len(boundary)
	for i := 0; i < n; i++ {
		if PointToSegmentDistance(p, boundary[i], boundary[(i+1)%n]) < clearance {
			return false
		}
	}
	return true
}

// SignedArea returns the shoelace sum halved. Positive for counterclockwise
// winding.
func SignedArea(boundary model.Boundary) float64 {
	n := len(boundary)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += boundary[i].X*boundary[j].Y - boundary[j].X*boundary[i].Y
	}
	return area / 2
}

// PolygonArea returns the unsigned area of boundary, 0 for fewer than 3 vertices.
func PolygonArea(boundary model.Boundary) float64 {
	return math.Abs(SignedArea(boundary))
}

// PolygonCentroid returns the area-weighted centroid of boundary. Collinear
// input falls back to the vertex mean. Z is the mean vertex height.
func PolygonCentroid(boundary model.Boundary) (model.Point3D, error) {
	if err := requireVertices(boundary); err != nil {
		return model.Point3D{}, err
	}
	n := float64(len(boundary))
	mean := model.Point3D{}
	for _, v := range boundary {
		mean = mean.Add(v)
	}
	mean = mean.Scale(1 / n)

	a := SignedArea(boundary)
	if math.Abs(a) < Epsilon {
		return mean, nil
	}
	cx, cy := 0.0, 0.0
	for i := range boundary {
		cur, next := boundary[i], boundary[(i+1)%len(boundary)]
		cross := cur.X*next.Y - next.X*cur.Y
		cx += (cur.X + next.X) * cross
		cy += (cur.Y + next.Y) * cross
	}
	f := 1 / (6 * a)
	return model.Pt(cx*f, cy*f, mean.Z), nil
}

// OffsetPolygon moves every vertex by offset along the bisector of its two
// incident edges. Vertices with a degenerate edge or bisector are kept.
func OffsetPolygon(boundary model.Boundary, offset float64) model.Boundary {
	n := len(boundary)
	result := make(model.Boundary, n)
	for i, cur := range boundary {
		prev := boundary[(i-1+n)%n]
		next := boundary[(i+1)%n]

		toPrev := prev.Sub(cur)
		toNext := next.Sub(cur)
		toPrev.Z, toNext.Z = 0, 0
		lp, ln := toPrev.Length(), toNext.Length()
		if lp < Epsilon || ln < Epsilon {
			result[i] = cur
			continue
		}
		bisector := toPrev.Scale(1 / lp).Add(toNext.Scale(1 / ln))
		lb := bisector.Length()
		if lb < Epsilon {
			result[i] = cur
			continue
		}
		result[i] = cur.Add(bisector.Scale(offset / lb))
	}
	return result
}

// BoundingBox returns the min and max XY corners of boundary. Both are zero
// for an empty boundary.
func BoundingBox(boundary model.Boundary) (min, max model.Point3D) {
	if len(boundary) == 0 {
		return model.Point3D{}, model.Point3D{}
	}
	min = model.Pt(boundary[0].X, boundary[0].Y, 0)
	max = min
	for _, p := range boundary[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// AngleBetween returns the planar bearing from a to b in degrees, in [0, 360).
func AngleBetween(a, b model.Point3D) float64 {
	deg := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
