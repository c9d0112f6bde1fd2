package engine

import (
	"github.com/charmbracelet/log"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// ComparisonScenario defines a named strategy and settings pair to compare.
type ComparisonScenario struct {
	Name     string
	Strategy model.Strategy
	Settings model.Settings
}

// ComparisonResult holds the layout result and headline statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario           ComparisonScenario
	Result             model.LayoutResult
	SprinklerCount     int
	AverageConnection  float64
	CoverageEfficiency float64
	Valid              bool
}

// CompareStrategies computes a layout for each scenario and returns the
// results in scenario order.
func CompareStrategies(scenarios []ComparisonScenario, room model.Boundary, pipes []model.Pipe, logger *log.Logger) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		eng := New(scenario.Settings)
		if logger != nil {
			eng.Logger = logger.With("scenario", scenario.Name)
		}
		result := eng.ComputeLayout(room, pipes, scenario.Strategy)

		results = append(results, ComparisonResult{
			Scenario:           scenario,
			Result:             result,
			SprinklerCount:     len(result.Sprinklers),
			AverageConnection:  result.Metrics.AverageConnectionDistance,
			CoverageEfficiency: result.Metrics.CoverageEfficiency,
			Valid:              result.Valid,
		})
	}

	return results
}

// BuildDefaultScenarios returns one scenario per strategy using the given settings.
func BuildDefaultScenarios(settings model.Settings) []ComparisonScenario {
	strategies := model.AllStrategies()
	scenarios := make([]ComparisonScenario, 0, len(strategies))
	for _, s := range strategies {
		scenarios = append(scenarios, ComparisonScenario{
			Name:     s.String(),
			Strategy: s,
			Settings: settings,
		})
	}
	return scenarios
}

// BestResult picks the preferred valid result: highest coverage efficiency,
// then fewer sprinklers, then shorter average connection. Earlier scenarios
// win exact ties. Returns false when no result is valid.
func BestResult(results []ComparisonResult) (ComparisonResult, bool) {
	best := -1
	for i, r := range results {
		if !r.Valid {
			continue
		}
		if best < 0 || better(r, results[best]) {
			best = i
		}
	}
	if best < 0 {
		return ComparisonResult{}, false
	}
	return results[best], true
}

func better(a, b ComparisonResult) bool {
	if a.CoverageEfficiency != b.CoverageEfficiency {
		return a.CoverageEfficiency > b.CoverageEfficiency
	}
	if a.SprinklerCount != b.SprinklerCount {
		return a.SprinklerCount < b.SprinklerCount
	}
	return a.AverageConnection < b.AverageConnection
}
