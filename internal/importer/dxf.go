package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// chainTolerance is the largest planar gap (mm) between two endpoints that
// still joins them into one outline.
const chainTolerance = 0.01

// segment represents a line segment, used for chaining disconnected LINE
// entities into closed outlines.
type segment struct {
	start model.Point3D
	end   model.Point3D
}

// ImportRoomDXF reads the room boundary from a DXF file. Closed shapes come
// from LWPOLYLINE and CIRCLE entities and from chains of connected LINEs and
// ARCs; the shape enclosing the largest area is taken as the room.
func ImportRoomDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []model.Boundary
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToBoundary(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToBoundary(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Pt(e.Start[0], e.Start[1], e.Start[2]),
				end:   model.Pt(e.End[0], e.End[1], e.End[2]),
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, chainTolerance)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return geometry.PolygonArea(outlines[i]) > geometry.PolygonArea(outlines[j])
	})
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed shapes, using the largest as the room", len(outlines)))
	}

	room := outlines[0]
	if area := geometry.PolygonArea(room); area < chainTolerance {
		result.Errors = append(result.Errors, fmt.Sprintf("Room outline is degenerate (area %.4f mm²)", area))
		return result
	}
	result.Room = room
	return result
}

// ImportPipesDXF reads supply pipes from the LINE entities of a DXF file.
// Each LINE becomes one pipe with its 3D endpoints.
func ImportPipesDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	skipped := 0
	for _, ent := range drawing.Entities() {
		e, ok := ent.(*entity.Line)
		if !ok {
			skipped++
			continue
		}
		pipe := model.NewPipe(
			model.Pt(e.Start[0], e.Start[1], e.Start[2]),
			model.Pt(e.End[0], e.End[1], e.End[2]),
		)
		if pipe.Length() == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Pipe %d: Zero-length pipe", len(result.Pipes)+1))
		}
		result.Pipes = append(result.Pipes, pipe)
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d non-LINE entities", skipped))
	}

	result.checkComplete(KindPipes)
	return result
}

// lwPolylineToBoundary converts a DXF LWPOLYLINE entity to a boundary at
// elevation zero. Bulge values on vertices produce interpolated arc segments.
func lwPolylineToBoundary(lw *entity.LwPolyline) model.Boundary {
	var outline model.Boundary

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := model.Pt(v[0], v[1], 0)

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := model.Pt(lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1], 0)
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex is added by its own iteration.
			outline = append(outline, arcPts[:len(arcPts)-1]...)
		} else {
			outline = append(outline, current)
		}
	}

	return outline
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 model.Point3D, bulge float64, numSegments int) []model.Point3D {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []model.Point3D{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]model.Point3D, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, model.Pt(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle), p1.Z))
	}
	return pts
}

// circleToBoundary approximates a circle as a regular polygon.
func circleToBoundary(c *entity.Circle, numSegments int) model.Boundary {
	outline := make(model.Boundary, numSegments)
	cx, cy, cz, r := c.Center[0], c.Center[1], c.Center[2], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		outline[i] = model.Pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle), cz)
	}
	return outline
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []model.Point3D {
	cx, cy, cz := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Center[2]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]model.Point3D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = model.Pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle), cz)
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []model.Point3D) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines. Chains
// that do not return to their starting point are dropped.
func chainSegments(segs []segment, tolerance float64) []model.Boundary {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []model.Boundary

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point3D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, model.Boundary(chain[:len(chain)-1]))
		}
	}

	return outlines
}

// pointsClose checks whether two points are within tolerance in plan.
func pointsClose(a, b model.Point3D, tolerance float64) bool {
	return a.Distance2D(b) <= tolerance
}
