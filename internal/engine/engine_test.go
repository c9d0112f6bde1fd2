package engine

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

func quietEngine(settings model.Settings) *Engine {
	e := New(settings)
	e.Logger = log.New(io.Discard)
	return e
}

type countingPlacer struct {
	calls *int
	inner Placer
}

func (c countingPlacer) Place(room model.Boundary, pipes []model.Pipe) ([]model.Point3D, error) {
	*c.calls++
	return c.inner.Place(room, pipes)
}

type panickingPlacer struct{}

func (panickingPlacer) Place(model.Boundary, []model.Pipe) ([]model.Point3D, error) {
	panic("boom")
}

// --- Connections ---

func TestAssignConnections_NearestPipe(t *testing.T) {
	pipes := []model.Pipe{
		model.NewPipe(model.Pt(0, 0, 3000), model.Pt(10000, 0, 3000)),
		model.NewPipe(model.Pt(0, 10000, 3000), model.Pt(10000, 10000, 3000)),
	}
	sprinklers := []model.Point3D{model.Pt(5000, 2000, 2500), model.Pt(5000, 9000, 2500)}

	conns, err := AssignConnections(sprinklers, pipes)
	require.NoError(t, err)
	require.Len(t, conns, 2)

	assert.Equal(t, 0, conns[0].PipeIndex)
	assert.Equal(t, model.Pt(5000, 0, 3000), conns[0].Point)
	assert.Equal(t, sprinklers[0], conns[0].Sprinkler)
	assert.InDelta(t, math.Hypot(2000, 500), conns[0].Distance, 1e-9)

	assert.Equal(t, 1, conns[1].PipeIndex)
	assert.Equal(t, model.Pt(5000, 10000, 3000), conns[1].Point)
}

func TestAssignConnections_TieGoesToFirstPipe(t *testing.T) {
	pipes := []model.Pipe{
		model.NewPipe(model.Pt(0, 0, 3000), model.Pt(10000, 0, 3000)),
		model.NewPipe(model.Pt(0, 10000, 3000), model.Pt(10000, 10000, 3000)),
	}
	conns, err := AssignConnections([]model.Point3D{model.Pt(5000, 5000, 3000)}, pipes)
	require.NoError(t, err)
	assert.Equal(t, 0, conns[0].PipeIndex)
}

func TestAssignConnections_DuplicateSprinklersKeepOwnEntries(t *testing.T) {
	p := model.Pt(1000, 1000, 2500)
	conns, err := AssignConnections([]model.Point3D{p, p}, diagonalPipe())
	require.NoError(t, err)
	assert.Len(t, conns, 2)
}

func TestAssignConnections_NoPipes(t *testing.T) {
	_, err := AssignConnections([]model.Point3D{model.Pt(0, 0, 0)}, nil)
	assert.True(t, model.IsCode(err, model.ErrCodeInvalidInput))
}

// --- Metrics ---

func TestCalculateMetrics_TwoSprinklers(t *testing.T) {
	s := model.DefaultSettings()
	room := squareRoom(10000)
	sprinklers := []model.Point3D{model.Pt(2500, 5000, 2500), model.Pt(7500, 5000, 2500)}
	pipes := []model.Pipe{model.NewPipe(model.Pt(0, 5000, 3000), model.Pt(10000, 5000, 3000))}
	conns, err := AssignConnections(sprinklers, pipes)
	require.NoError(t, err)

	m := CalculateMetrics(sprinklers, conns, room, s)

	assert.Equal(t, 2, m.TotalSprinklers)
	assert.InDelta(t, 1e8, m.RoomArea, 1e-6)
	assert.InDelta(t, 500, m.AverageConnectionDistance, 1e-9)
	assert.InDelta(t, 500, m.MinConnectionDistance, 1e-9)
	assert.InDelta(t, 500, m.MaxConnectionDistance, 1e-9)
	assert.InDelta(t, 5000, m.AverageSpacingDistance, 1e-9)
	assert.InDelta(t, 0.5, m.SpacingUniformity, 1e-9)
	assert.InDelta(t, 5e7, m.CoveragePerSprinkler, 1e-6)
	assert.Equal(t, 1.0, m.CoverageEfficiency)
}

func TestCalculateMetrics_EfficiencyBelowOne(t *testing.T) {
	s := model.DefaultSettings()
	room := squareRoom(10000)
	var sprinklers []model.Point3D
	for i := 0; i < 20; i++ {
		sprinklers = append(sprinklers, model.Pt(float64(i)*100, 0, 2500))
	}
	m := CalculateMetrics(sprinklers, nil, room, s)

	optimal := 1e8 / (math.Pi * 1800 * 1800)
	assert.InDelta(t, optimal/20, m.CoverageEfficiency, 1e-9)
	assert.Zero(t, m.AverageConnectionDistance)
}

func TestCalculateMetrics_SingleSprinklerHasNoUniformity(t *testing.T) {
	m := CalculateMetrics([]model.Point3D{model.Pt(5000, 5000, 2500)}, nil, squareRoom(10000), model.DefaultSettings())
	assert.Equal(t, 1, m.TotalSprinklers)
	assert.Zero(t, m.AverageSpacingDistance)
	assert.Zero(t, m.SpacingUniformity)
	assert.InDelta(t, 1e8, m.CoveragePerSprinkler, 1e-6)
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m := CalculateMetrics(nil, nil, squareRoom(10000), model.DefaultSettings())
	assert.Equal(t, model.Metrics{RoomArea: m.RoomArea}, m)
}

// --- Validator ---

func TestValidateLayout_Valid(t *testing.T) {
	r := model.LayoutResult{
		Sprinklers:  []model.Point3D{model.Pt(0, 0, 0), model.Pt(2500, 0, 0)},
		Connections: []model.Connection{
			{Sprinkler: model.Pt(0, 0, 0), Point: model.Pt(0, 0, 100), Distance: 100},
			{Sprinkler: model.Pt(2500, 0, 0), Point: model.Pt(2500, 0, 5000), Distance: 5000},
		},
	}
	ok, msg := ValidateLayout(r, model.DefaultSettings())
	assert.True(t, ok)
	assert.Empty(t, msg)
}

func TestValidateLayout_MeasuresConnectionFromPoints(t *testing.T) {
	// Caller-built result without the Distance field filled in
	sprinkler := model.Pt(0, 0, 2500)
	r := model.LayoutResult{
		Sprinklers:  []model.Point3D{sprinkler},
		Connections: []model.Connection{{Sprinkler: sprinkler, Point: model.Pt(20000, 0, 3000)}},
	}
	ok, msg := ValidateLayout(r, model.DefaultSettings())
	assert.False(t, ok)
	assert.Equal(t, "Connection distance 20006.25 mm exceeds maximum 5000 mm", msg)

	// A stale Distance does not hide a short drop either
	r.Connections[0] = model.Connection{Sprinkler: sprinkler, Point: model.Pt(0, 0, 3000), Distance: 9999}
	ok, msg = ValidateLayout(r, model.DefaultSettings())
	assert.True(t, ok, msg)
}

func TestValidateLayout_ToleratesNoise(t *testing.T) {
	r := model.LayoutResult{Sprinklers: []model.Point3D{model.Pt(0, 0, 0), model.Pt(2500-1e-7, 0, 0)}}
	ok, _ := ValidateLayout(r, model.DefaultSettings())
	assert.True(t, ok)
}

func TestValidateLayout_Empty(t *testing.T) {
	ok, msg := ValidateLayout(model.LayoutResult{}, model.DefaultSettings())
	assert.False(t, ok)
	assert.Equal(t, "No sprinklers placed", msg)
}

func TestValidateLayout_AllChecksReported(t *testing.T) {
	r := model.LayoutResult{
		Sprinklers:  []model.Point3D{model.Pt(0, 0, 0), model.Pt(1000, 0, 0)},
		Connections: []model.Connection{
			{Sprinkler: model.Pt(0, 0, 0), Point: model.Pt(0, 100, 0)},
			{Sprinkler: model.Pt(1000, 0, 0), Point: model.Pt(1000, 6000, 0)},
		},
	}
	ok, msg := ValidateLayout(r, model.DefaultSettings())
	assert.False(t, ok)
	assert.Equal(t,
		"Sprinklers 1 and 2 are too close (1000.00 mm < 2500 mm); Connection distance 6000.00 mm exceeds maximum 5000 mm",
		msg)
}

// --- Engine ---

func TestComputeLayout_GridSquareRoom(t *testing.T) {
	e := quietEngine(model.DefaultSettings())
	r := e.ComputeLayout(squareRoom(10000), diagonalPipe(), model.StrategyGrid)

	require.NoError(t, r.Failure)
	assert.True(t, r.Valid, r.ValidationMessage)
	assert.Empty(t, r.ValidationMessage)
	assert.Equal(t, model.StrategyGrid, r.Strategy)
	assert.Len(t, r.Sprinklers, 9)
	assert.Len(t, r.Connections, 9)
	assert.Equal(t, 9, r.Metrics.TotalSprinklers)
	assert.InDelta(t, math.Hypot(math.Hypot(2500, 2500), 500), r.Metrics.MaxConnectionDistance, 1e-6)
	assert.InDelta(t, 500, r.Metrics.MinConnectionDistance, 1e-6)
	assert.Positive(t, r.CalculationTime)
	assert.Len(t, r.ID, 8)
}

func TestComputeLayout_EveryStrategyOnSquareRoom(t *testing.T) {
	e := quietEngine(model.DefaultSettings())
	for _, s := range model.AllStrategies() {
		t.Run(string(s), func(t *testing.T) {
			r := e.ComputeLayout(squareRoom(10000), diagonalPipe(), s)
			require.NoError(t, r.Failure)
			assert.True(t, r.Valid, r.ValidationMessage)
			assert.Equal(t, len(r.Sprinklers), len(r.Connections))
			assertSpacing(t, r.Sprinklers, 2500)
		})
	}
}

func TestComputeLayout_PipeProximityExactPositions(t *testing.T) {
	e := quietEngine(model.DefaultSettings())
	r := e.ComputeLayout(squareRoom(10000), diagonalPipe(), model.StrategyPipeProximity)

	require.Len(t, r.Sprinklers, 2)
	assert.True(t, r.Sprinklers[0].ApproxEqual(model.Pt(4000, 4000, 2500), 1e-6))
	assert.True(t, r.Sprinklers[1].ApproxEqual(model.Pt(6000, 6000, 2500), 1e-6))
	assert.InDelta(t, 500, r.Metrics.AverageConnectionDistance, 1e-6)
}

func TestComputeLayout_EmptyPlacementIsInvalidNotFailed(t *testing.T) {
	e := quietEngine(model.DefaultSettings())
	r := e.ComputeLayout(squareRoom(4000), diagonalPipe(), model.StrategyGrid)

	assert.NoError(t, r.Failure)
	assert.False(t, r.Valid)
	assert.Equal(t, "No sprinklers placed", r.ValidationMessage)
	assert.Empty(t, r.Sprinklers)
}

func TestComputeLayout_ConstraintViolationKeepsPlacements(t *testing.T) {
	s := model.DefaultSettings()
	s.MaximumConnectionDistance = 1000
	e := quietEngine(s)
	r := e.ComputeLayout(squareRoom(10000), diagonalPipe(), model.StrategyGrid)

	assert.NoError(t, r.Failure)
	assert.False(t, r.Valid)
	assert.Len(t, r.Sprinklers, 9)
	assert.Contains(t, r.ValidationMessage, "exceeds maximum 1000 mm")
}

func TestComputeLayout_TwoPointBoundaryFailsFast(t *testing.T) {
	calls := 0
	e := quietEngine(model.DefaultSettings())
	e.placerFor = func(s model.Strategy, settings model.Settings) (Placer, error) {
		p, err := NewPlacer(s, settings)
		return countingPlacer{calls: &calls, inner: p}, err
	}

	room := model.Boundary{model.Pt(0, 0, 0), model.Pt(1000, 0, 0)}
	r := e.ComputeLayout(room, diagonalPipe(), model.StrategyGrid)

	assert.Equal(t, 0, calls, "placer must not run for invalid geometry")
	assert.False(t, r.Valid)
	assert.True(t, model.IsCode(r.Failure, model.ErrCodeInvalidGeometry))
	assert.True(t, strings.HasPrefix(r.ValidationMessage, "calculation failed: "))
}

func TestComputeLayout_NoPipes(t *testing.T) {
	r := quietEngine(model.DefaultSettings()).ComputeLayout(squareRoom(10000), nil, model.StrategyGrid)
	assert.False(t, r.Valid)
	assert.True(t, model.IsCode(r.Failure, model.ErrCodeInvalidInput))
}

func TestComputeLayout_UnknownStrategy(t *testing.T) {
	r := quietEngine(model.DefaultSettings()).ComputeLayout(squareRoom(10000), diagonalPipe(), "spiral")
	assert.False(t, r.Valid)
	assert.True(t, model.IsCode(r.Failure, model.ErrCodeInvalidInput))
}

func TestComputeLayout_InvalidSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.SprinklerSpacing = 0
	r := quietEngine(s).ComputeLayout(squareRoom(10000), diagonalPipe(), model.StrategyGrid)
	assert.False(t, r.Valid)
	assert.True(t, model.IsCode(r.Failure, model.ErrCodeInvalidInput))
}

func TestComputeLayout_PanicBecomesComputationFailure(t *testing.T) {
	e := quietEngine(model.DefaultSettings())
	e.placerFor = func(model.Strategy, model.Settings) (Placer, error) {
		return panickingPlacer{}, nil
	}

	var r model.LayoutResult
	require.NotPanics(t, func() {
		r = e.ComputeLayout(squareRoom(10000), diagonalPipe(), model.StrategyGrid)
	})
	assert.False(t, r.Valid)
	assert.True(t, model.IsCode(r.Failure, model.ErrCodeComputationFailure))
	assert.Contains(t, r.ValidationMessage, "boom")
	assert.Positive(t, r.CalculationTime)
}

func TestComputeLayout_DoesNotMutateInputs(t *testing.T) {
	demo := model.DemoProject()
	room := append(model.Boundary(nil), demo.Room...)
	pipes := append([]model.Pipe(nil), demo.Pipes...)

	e := quietEngine(demo.Settings)
	for _, s := range model.AllStrategies() {
		r := e.ComputeLayout(room, pipes, s)
		require.NoError(t, r.Failure)
	}
	assert.Equal(t, demo.Room, room)
	assert.Equal(t, demo.Pipes, pipes)
}

func TestEngineValidateLayout(t *testing.T) {
	e := quietEngine(model.DefaultSettings())
	ok, msg := e.ValidateLayout(model.LayoutResult{Sprinklers: []model.Point3D{model.Pt(0, 0, 0)}})
	assert.True(t, ok)
	assert.Empty(t, msg)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "validating-result", StageValidatingResult.String())
	assert.Equal(t, "failed", StageFailed.String())
}
