package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Stage is a step of the layout pipeline.
type Stage int

const (
	StageValidating Stage = iota
	StagePlacing
	StageConnecting
	StageScoring
	StageValidatingResult
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StagePlacing:
		return "placing"
	case StageConnecting:
		return "connecting"
	case StageScoring:
		return "scoring"
	case StageValidatingResult:
		return "validating-result"
	case StageDone:
		return "done"
	default:
		return "failed"
	}
}

// Engine computes sprinkler layouts for a fixed set of settings. It holds no
// state between calls and is safe for concurrent use.
type Engine struct {
	Settings model.Settings
	Logger   *log.Logger

	placerFor func(model.Strategy, model.Settings) (Placer, error)
}

func New(settings model.Settings) *Engine {
	return &Engine{Settings: settings, Logger: log.Default(), placerFor: NewPlacer}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// ComputeLayout runs the full pipeline. It never returns an error: input
// problems and internal faults produce an invalid result with Failure set,
// and constraint violations produce an invalid result with the placements kept.
func (e *Engine) ComputeLayout(room model.Boundary, pipes []model.Pipe, strategy model.Strategy) (result model.LayoutResult) {
	logger := e.logger().With("strategy", strategy)
	start := time.Now()
	result = model.NewLayoutResult(strategy)
	stage := StageValidating

	enter := func(s Stage) {
		stage = s
		logger.Debug("layout stage", "stage", s)
	}
	fail := func(err error) {
		logger.Error("layout failed", "stage", stage, "err", err)
		stage = StageFailed
		result.Valid = false
		result.Failure = err
		result.ValidationMessage = fmt.Sprintf("calculation failed: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			fail(model.NewError(model.ErrCodeComputationFailure, "panic during %s: %v", stage, r))
		}
		result.CalculationTime = time.Since(start)
	}()

	enter(StageValidating)
	placer, err := e.prepare(room, pipes, strategy)
	if err != nil {
		fail(err)
		return result
	}

	enter(StagePlacing)
	sprinklers, err := placer.Place(room, pipes)
	if err != nil {
		fail(err)
		return result
	}
	result.Sprinklers = sprinklers
	logger.Debug("placement complete", "sprinklers", len(sprinklers))

	enter(StageConnecting)
	conns, err := AssignConnections(sprinklers, pipes)
	if err != nil {
		fail(err)
		return result
	}
	result.Connections = conns

	enter(StageScoring)
	result.Metrics = CalculateMetrics(sprinklers, conns, room, e.Settings)

	enter(StageValidatingResult)
	result.Valid, result.ValidationMessage = ValidateLayout(result, e.Settings)
	if !result.Valid {
		logger.Warn("layout violates constraints", "reason", result.ValidationMessage)
	}

	enter(StageDone)
	logger.Info("layout computed",
		"sprinklers", len(sprinklers),
		"valid", result.Valid,
		"elapsed", time.Since(start).Round(time.Microsecond))
	return result
}

// prepare checks the inputs and resolves the placer.
func (e *Engine) prepare(room model.Boundary, pipes []model.Pipe, strategy model.Strategy) (Placer, error) {
	if err := e.Settings.Validate(); err != nil {
		return nil, err
	}
	if len(room) < 3 {
		return nil, model.NewError(model.ErrCodeInvalidGeometry,
			"room boundary needs at least 3 vertices, got %d", len(room))
	}
	if len(pipes) == 0 {
		return nil, model.NewError(model.ErrCodeInvalidInput, "at least one pipe is required")
	}
	placerFor := e.placerFor
	if placerFor == nil {
		placerFor = NewPlacer
	}
	return placerFor(strategy, e.Settings)
}

// ValidateLayout re-checks an externally constructed result against the
// engine's settings.
func (e *Engine) ValidateLayout(result model.LayoutResult) (bool, string) {
	return ValidateLayout(result, e.Settings)
}
