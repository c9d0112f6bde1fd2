package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

func squareRoom(size float64) model.Boundary {
	return model.Boundary{
		model.Pt(0, 0, 2500),
		model.Pt(size, 0, 2500),
		model.Pt(size, size, 2500),
		model.Pt(0, size, 2500),
	}
}

func diagonalPipe() []model.Pipe {
	return []model.Pipe{model.NewPipe(model.Pt(2000, 2000, 3000), model.Pt(8000, 8000, 3000))}
}

func assertSpacing(t *testing.T, pts []model.Point3D, spacing float64) {
	t.Helper()
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			assert.GreaterOrEqual(t, pts[i].Distance2D(pts[j]), spacing-SpacingTolerance,
				"sprinklers %d and %d too close", i+1, j+1)
		}
	}
}

func assertInsideWithClearance(t *testing.T, room model.Boundary, pts []model.Point3D, clearance float64) {
	t.Helper()
	for _, p := range pts {
		in, err := geometry.PointInPolygon(p, room)
		require.NoError(t, err)
		assert.True(t, in, "%v outside room", p)
		assert.True(t, geometry.MaintainsClearance(p, room, clearance), "%v violates clearance", p)
	}
}

func TestLattice(t *testing.T) {
	assert.Equal(t, []float64{2500, 5000, 7500}, lattice(2500, 7500, 2500))
	assert.Equal(t, []float64{0}, lattice(0, 0, 10))
	assert.Nil(t, lattice(2500, 1500, 2500))
	assert.Nil(t, lattice(0, 10, 0))
}

func TestNewPlacer_UnknownStrategy(t *testing.T) {
	_, err := NewPlacer("hexagonal", model.DefaultSettings())
	require.Error(t, err)
	assert.True(t, model.IsCode(err, model.ErrCodeInvalidInput))

	for _, s := range model.AllStrategies() {
		p, err := NewPlacer(s, model.DefaultSettings())
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
}

// --- Grid ---

func TestGridPlacer_SquareRoom(t *testing.T) {
	g := GridPlacer{Settings: model.DefaultSettings()}
	pts, err := g.Place(squareRoom(10000), nil)
	require.NoError(t, err)

	expected := []model.Point3D{}
	for _, x := range []float64{2500, 5000, 7500} {
		for _, y := range []float64{2500, 5000, 7500} {
			expected = append(expected, model.Pt(x, y, 2500))
		}
	}
	assert.Equal(t, expected, pts, "lattice order must be ascending X then ascending Y")
}

func TestGridPlacer_RoomTooSmall(t *testing.T) {
	g := GridPlacer{Settings: model.DefaultSettings()}
	pts, err := g.Place(squareRoom(4000), nil)
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestGridPlacer_TriangleRejectsOutsidePoints(t *testing.T) {
	s := model.DefaultSettings()
	s.WallClearance = 1000
	s.SprinklerSpacing = 1000
	room := model.Boundary{model.Pt(0, 0, 0), model.Pt(10000, 0, 0), model.Pt(0, 10000, 0)}

	pts, err := GridPlacer{Settings: s}.Place(room, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pts)
	assertInsideWithClearance(t, room, pts, s.WallClearance)
	for _, p := range pts {
		assert.Equal(t, s.CeilingHeight, p.Z)
	}
}

func TestGridPlacer_InvalidBoundary(t *testing.T) {
	_, err := GridPlacer{Settings: model.DefaultSettings()}.Place(model.Boundary{model.Pt(0, 0, 0)}, nil)
	assert.True(t, model.IsCode(err, model.ErrCodeInvalidGeometry))
}

// --- Maximum coverage ---

func TestCoveragePlacer_FirstSprinklerIsCentroid(t *testing.T) {
	c := CoveragePlacer{Settings: model.DefaultSettings()}
	pts, err := c.Place(squareRoom(10000), nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(pts), 2)

	assert.Equal(t, model.Pt(5000, 5000, 2500), pts[0])
	assertSpacing(t, pts, 2500)
	assertInsideWithClearance(t, squareRoom(10000), pts, 2500)
	assert.LessOrEqual(t, len(pts), MaxCoverageIterations+1)
}

func TestCoveragePlacer_DeterministicAcrossWorkerCounts(t *testing.T) {
	room := model.DemoProject().Room
	s := model.DefaultSettings()

	serial, err := CoveragePlacer{Settings: s, Workers: 1}.Place(room, nil)
	require.NoError(t, err)
	parallel, err := CoveragePlacer{Settings: s, Workers: 7}.Place(room, nil)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestCoveragePlacer_CentroidRejectedStartsEmpty(t *testing.T) {
	// U-shaped room: the centroid falls in the notch
	room := model.Boundary{
		model.Pt(0, 0, 0), model.Pt(30000, 0, 0), model.Pt(30000, 20000, 0),
		model.Pt(20000, 20000, 0), model.Pt(20000, 6000, 0), model.Pt(10000, 6000, 0),
		model.Pt(10000, 20000, 0), model.Pt(0, 20000, 0),
	}
	centroid, err := geometry.PolygonCentroid(room)
	require.NoError(t, err)
	in, _ := geometry.PointInPolygon(centroid, room)
	require.False(t, in, "test room centroid should lie in the notch")

	pts, err := CoveragePlacer{Settings: model.DefaultSettings()}.Place(room, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pts)
	// With nothing placed every covering candidate ties, so the first in
	// scan order wins.
	assert.Equal(t, model.Pt(2500, 2500, 2500), pts[0])
	assertSpacing(t, pts, 2500)
	assertInsideWithClearance(t, room, pts, 2500)
}

func TestCoveragePlacer_StopsAtIterationCap(t *testing.T) {
	s := model.DefaultSettings()
	s.WallClearance = 100
	s.SprinklerSpacing = 1000
	s.MinimumCoverageRadius = 200

	pts, err := CoveragePlacer{Settings: s}.Place(squareRoom(19000), nil)
	require.NoError(t, err)
	assert.Len(t, pts, MaxCoverageIterations+1)
	assert.Equal(t, model.Pt(9500, 9500, 2500), pts[0])
	assertSpacing(t, pts, 1000)
}

func TestCoveragePlacer_ScoringPanicBecomesError(t *testing.T) {
	c := CoveragePlacer{Settings: model.DefaultSettings(), Workers: 2}
	candidates := []model.Point3D{model.Pt(0, 0, 0), model.Pt(1000, 0, 0)}
	samples := []model.Point3D{model.Pt(500, 0, 0)}
	nearest := []float64{math.MaxFloat64}

	// scores is too short for the candidates
	err := c.score(candidates, samples, nearest, nil, make([]float64, 1))
	require.Error(t, err)
	assert.True(t, model.IsCode(err, model.ErrCodeComputationFailure), err)
}

func TestCoveragePlacer_RoomTooSmall(t *testing.T) {
	pts, err := CoveragePlacer{Settings: model.DefaultSettings()}.Place(squareRoom(4000), nil)
	require.NoError(t, err)
	assert.Empty(t, pts)
}

// --- Pipe proximity ---

func TestPipeProximityPlacer_DiagonalPipe(t *testing.T) {
	p := PipeProximityPlacer{Settings: model.DefaultSettings()}
	pts, err := p.Place(squareRoom(10000), diagonalPipe())
	require.NoError(t, err)
	require.Len(t, pts, 2)

	assert.InDelta(t, 4000, pts[0].X, 1e-6)
	assert.InDelta(t, 4000, pts[0].Y, 1e-6)
	assert.InDelta(t, 6000, pts[1].X, 1e-6)
	assert.InDelta(t, 6000, pts[1].Y, 1e-6)
	assert.Equal(t, 2500.0, pts[0].Z)
	assert.Equal(t, 2500.0, pts[1].Z)
}

func TestPipeProximityPlacer_SpacingHolds(t *testing.T) {
	demo := model.DemoProject()
	pts, err := PipeProximityPlacer{Settings: demo.Settings}.Place(demo.Room, demo.Pipes)
	require.NoError(t, err)
	assertSpacing(t, pts, demo.Settings.SprinklerSpacing)
	assertInsideWithClearance(t, demo.Room, pts, demo.Settings.WallClearance)
}

func TestPipeProximityPlacer_PrefersCloserPipe(t *testing.T) {
	s := model.DefaultSettings()
	s.WallClearance = 1000
	room := squareRoom(10000)
	pipes := []model.Pipe{
		// Far above the ceiling
		model.NewPipe(model.Pt(5000, 2000, 9000), model.Pt(5000, 8000, 9000)),
		// Just above the ceiling, crossing the same spot
		model.NewPipe(model.Pt(2000, 5000, 2600), model.Pt(8000, 5000, 2600)),
	}
	pts, err := PipeProximityPlacer{Settings: s}.Place(room, pipes)
	require.NoError(t, err)
	require.NotEmpty(t, pts)
	// Candidates on the low pipe (distance 100) beat those on the high one
	assert.InDelta(t, 5000, pts[0].Y, 1e-6)
}

func TestPipeProximityPlacer_NoCandidates(t *testing.T) {
	pipes := []model.Pipe{model.NewPipe(model.Pt(-5000, -5000, 3000), model.Pt(-1000, -1000, 3000))}
	pts, err := PipeProximityPlacer{Settings: model.DefaultSettings()}.Place(squareRoom(10000), pipes)
	require.NoError(t, err)
	assert.Empty(t, pts)
}
