package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Point3D represents a coordinate in mm. Values are immutable: every
// operation returns a new point.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pt is a shorthand constructor for Point3D.
func Pt(x, y, z float64) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

func (p Point3D) Scale(f float64) Point3D {
	return Point3D{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns p × q.
func (p Point3D) Cross(q Point3D) Point3D {
	return Point3D{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

// Length returns the Euclidean norm of p treated as a vector.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

// Distance returns the 3D Euclidean distance from p to q.
func (p Point3D) Distance(q Point3D) float64 {
	return q.Sub(p).Length()
}

// Distance2D returns the planar distance from p to q, ignoring Z.
func (p Point3D) Distance2D(q Point3D) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// AtHeight returns p projected to the plane z.
func (p Point3D) AtHeight(z float64) Point3D {
	return Point3D{X: p.X, Y: p.Y, Z: z}
}

// ApproxEqual reports whether every coordinate of p and q differs by less
// than tol. Intended for diagnostics and tests, never as an identity.
func (p Point3D) ApproxEqual(q Point3D, tol float64) bool {
	return math.Abs(p.X-q.X) < tol && math.Abs(p.Y-q.Y) < tol && math.Abs(p.Z-q.Z) < tol
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

// Pipe is a straight supply line segment between two points.
type Pipe struct {
	Start Point3D `json:"start"`
	End   Point3D `json:"end"`
}

func NewPipe(start, end Point3D) Pipe {
	return Pipe{Start: start, End: end}
}

// Direction returns the vector from Start to End (not normalized).
func (p Pipe) Direction() Point3D {
	return p.End.Sub(p.Start)
}

// Length returns the 3D length of the pipe.
func (p Pipe) Length() float64 {
	return p.Direction().Length()
}

// Midpoint returns the point halfway along the pipe.
func (p Pipe) Midpoint() Point3D {
	return p.PointAt(0.5)
}

// PointAt returns Start + t*(End-Start). t is not clamped.
func (p Pipe) PointAt(t float64) Point3D {
	return p.Start.Add(p.Direction().Scale(t))
}

// ClosestPoint returns the point on the pipe nearest to q. The projection
// parameter is clamped to [0, 1]; a zero-length pipe returns Start.
func (p Pipe) ClosestPoint(q Point3D) Point3D {
	d := p.Direction()
	lenSq := d.Dot(d)
	if lenSq < 1e-18 {
		return p.Start
	}
	t := q.Sub(p.Start).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.PointAt(t)
}

// DistanceTo returns the shortest 3D distance from q to the pipe.
func (p Pipe) DistanceTo(q Point3D) float64 {
	return q.Distance(p.ClosestPoint(q))
}

// Boundary is a closed room outline in the XY plane. The last vertex
// connects back to the first.
type Boundary []Point3D

// Strategy selects a sprinkler placement algorithm.
type Strategy string

const (
	StrategyGrid            Strategy = "grid"             // Uniform lattice scan
	StrategyMaximumCoverage Strategy = "maximum-coverage" // Greedy coverage heuristic
	StrategyPipeProximity   Strategy = "pipe-proximity"   // Candidates sampled along pipes
)

// AllStrategies lists every strategy in reporting order.
func AllStrategies() []Strategy {
	return []Strategy{StrategyGrid, StrategyMaximumCoverage, StrategyPipeProximity}
}

func (s Strategy) String() string {
	switch s {
	case StrategyGrid:
		return "Grid"
	case StrategyMaximumCoverage:
		return "MaximumCoverage"
	case StrategyPipeProximity:
		return "PipeProximity"
	default:
		return string(s)
	}
}

// ParseStrategy accepts the canonical identifier or the display name,
// case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllStrategies() {
		if n == string(s) || n == strings.ToLower(s.String()) {
			return s, nil
		}
	}
	switch n {
	case "coverage", "max-coverage":
		return StrategyMaximumCoverage, nil
	case "pipe", "proximity", "minimum-pipe-distance":
		return StrategyPipeProximity, nil
	}
	return "", NewError(ErrCodeInvalidInput, "unknown strategy %q", name)
}

// Settings holds the placement constraints. All values are in mm.
type Settings struct {
	WallClearance             float64 `json:"wall_clearance" toml:"wall_clearance"`                           // Minimum distance to every wall
	SprinklerSpacing          float64 `json:"sprinkler_spacing" toml:"sprinkler_spacing"`                     // Minimum planar distance between sprinklers
	CeilingHeight             float64 `json:"ceiling_height" toml:"ceiling_height"`                           // Z of every placed sprinkler
	MinimumCoverageRadius     float64 `json:"minimum_coverage_radius" toml:"minimum_coverage_radius"`         // Effective spray radius
	MaximumConnectionDistance float64 `json:"maximum_connection_distance" toml:"maximum_connection_distance"` // Longest allowed drop to a pipe
}

func DefaultSettings() Settings {
	return Settings{
		WallClearance:             2500.0,
		SprinklerSpacing:          2500.0,
		CeilingHeight:             2500.0,
		MinimumCoverageRadius:     1800.0,
		MaximumConnectionDistance: 5000.0,
	}
}

// Validate checks that every parameter is a positive finite number.
func (s Settings) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"wall clearance", s.WallClearance},
		{"sprinkler spacing", s.SprinklerSpacing},
		{"ceiling height", s.CeilingHeight},
		{"minimum coverage radius", s.MinimumCoverageRadius},
		{"maximum connection distance", s.MaximumConnectionDistance},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return NewError(ErrCodeInvalidInput, "%s must be positive, got %v", f.name, f.value)
		}
	}
	return nil
}

// Connection links one placed sprinkler to its nearest point on a pipe.
type Connection struct {
	Sprinkler Point3D `json:"sprinkler"`
	Point     Point3D `json:"point"`
	PipeIndex int     `json:"pipe_index"` // Index into the input pipe list
	Distance  float64 `json:"distance"`   // 3D distance sprinkler → point (mm) as assigned
}

// Length measures the 3D drop from the sprinkler to its connection point.
// Consumers use it rather than Distance, which a caller-built result may
// leave unset.
func (c Connection) Length() float64 {
	return c.Sprinkler.Distance(c.Point)
}

// Metrics holds aggregate quality figures for a layout.
type Metrics struct {
	TotalSprinklers           int     `json:"total_sprinklers"`
	RoomArea                  float64 `json:"room_area"`                   // sq mm
	AverageSpacingDistance    float64 `json:"average_spacing_distance"`    // Mean pairwise planar distance
	SpacingUniformity         float64 `json:"spacing_uniformity"`          // Configured spacing / average spacing; 0 when fewer than 2 sprinklers
	AverageConnectionDistance float64 `json:"average_connection_distance"` // mm
	MinConnectionDistance     float64 `json:"min_connection_distance"`     // mm
	MaxConnectionDistance     float64 `json:"max_connection_distance"`     // mm
	CoveragePerSprinkler      float64 `json:"coverage_per_sprinkler"`      // sq mm per sprinkler
	CoverageEfficiency        float64 `json:"coverage_efficiency"`         // Ratio in [0, 1]
}

// LayoutResult is the complete output of one engine run. An invalid result
// still carries whatever placements were computed.
type LayoutResult struct {
	ID                string        `json:"id"`
	Sprinklers        []Point3D     `json:"sprinklers"`
	Connections       []Connection  `json:"connections"`
	Strategy          Strategy      `json:"strategy"`
	Metrics           Metrics       `json:"metrics"`
	CalculationTime   time.Duration `json:"calculation_time"`
	Valid             bool          `json:"valid"`
	ValidationMessage string        `json:"validation_message,omitempty"`
	Failure           error         `json:"-"` // Set when the run was aborted by an error
}

func NewLayoutResult(strategy Strategy) LayoutResult {
	return LayoutResult{
		ID:       uuid.New().String()[:8],
		Strategy: strategy,
	}
}

// CalculationMillis returns the calculation time in fractional milliseconds.
func (r LayoutResult) CalculationMillis() float64 {
	return float64(r.CalculationTime) / float64(time.Millisecond)
}

// ConnectionFor returns the connection of the i-th sprinkler.
func (r LayoutResult) ConnectionFor(i int) (Connection, bool) {
	if i < 0 || i >= len(r.Connections) {
		return Connection{}, false
	}
	return r.Connections[i], true
}

// Project ties the inputs of one design together for save/load.
type Project struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Room     Boundary `json:"room"`
	Pipes    []Pipe   `json:"pipes"`
	Settings Settings `json:"settings"`
	Strategy Strategy `json:"strategy"`
}

func NewProject() Project {
	return Project{
		ID:       uuid.New().String()[:8],
		Name:     "Untitled",
		Room:     Boundary{},
		Pipes:    []Pipe{},
		Settings: DefaultSettings(),
		Strategy: StrategyGrid,
	}
}

// DemoProject returns the irregular quadrilateral room with three sloped
// pipes used as the reference problem.
func DemoProject() Project {
	p := NewProject()
	p.Name = "Demo room"
	p.Room = Boundary{
		Pt(97500.00, 34000.00, 2500.00),
		Pt(85647.67, 43193.61, 2500.00),
		Pt(91776.75, 51095.16, 2500.00),
		Pt(103629.07, 41901.55, 2500.00),
	}
	p.Pipes = []Pipe{
		NewPipe(Pt(98242.11, 36588.29, 3000.00), Pt(87970.10, 44556.09, 3500.00)),
		NewPipe(Pt(99774.38, 38563.68, 3500.00), Pt(89502.37, 46531.47, 3000.00)),
		NewPipe(Pt(101306.65, 40539.07, 3000.00), Pt(91034.63, 48506.86, 3000.00)),
	}
	p.Settings.MaximumConnectionDistance = 8000.0
	return p
}
