package export

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// buildTestScene creates a 10 m square room with one diagonal pipe and four
// connected sprinklers.
func buildTestScene() Scene {
	room := model.Boundary{
		model.Pt(0, 0, 2500),
		model.Pt(10000, 0, 2500),
		model.Pt(10000, 10000, 2500),
		model.Pt(0, 10000, 2500),
	}
	pipe := model.NewPipe(model.Pt(2000, 2000, 3000), model.Pt(8000, 8000, 3000))

	sprinklers := []model.Point3D{
		model.Pt(2500, 2500, 2500),
		model.Pt(2500, 7500, 2500),
		model.Pt(7500, 2500, 2500),
		model.Pt(7500, 7500, 2500),
	}
	result := model.NewLayoutResult(model.StrategyGrid)
	result.Sprinklers = sprinklers
	for _, s := range sprinklers {
		cp := pipe.ClosestPoint(s)
		result.Connections = append(result.Connections, model.Connection{
			Sprinkler: s,
			Point:     cp,
			PipeIndex: 0,
			Distance:  s.Distance(cp),
		})
	}
	result.Metrics = model.Metrics{
		TotalSprinklers:           4,
		RoomArea:                  1e8,
		AverageSpacingDistance:    5690.17,
		SpacingUniformity:         0.4394,
		AverageConnectionDistance: 2040.0,
		MinConnectionDistance:     707.1,
		MaxConnectionDistance:     3570.0,
		CoveragePerSprinkler:      2.5e7,
		CoverageEfficiency:        0.75,
	}
	result.CalculationTime = 1500 * time.Microsecond
	result.Valid = true

	settings := model.DefaultSettings()
	return Scene{
		Name:     "Test room",
		Room:     room,
		Pipes:    []model.Pipe{pipe},
		Settings: settings,
		Result:   result,
	}
}

// assertFileWritten fails unless path exists and holds at least minSize bytes.
func assertFileWritten(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestSceneTitle(t *testing.T) {
	if got := (Scene{}).title(); got != "Sprinkler Layout" {
		t.Errorf("expected default title, got %q", got)
	}
	if got := buildTestScene().title(); got != "Test room" {
		t.Errorf("expected scene name as title, got %q", got)
	}
}

func TestSceneCheck(t *testing.T) {
	if err := buildTestScene().check(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Scene{Room: model.Boundary{model.Pt(0, 0, 0), model.Pt(1, 0, 0)}}).check(); err == nil {
		t.Error("expected error for a room with two corners")
	}
}

func TestViewport_FitsAndFlipsY(t *testing.T) {
	room := buildTestScene().Room
	vp := newViewport(room, 10, 20, 200, 100)

	// The 10 m square is height-bound: 100 units for 10000 mm.
	if math.Abs(vp.length(10000)-100) > 1e-9 {
		t.Errorf("expected 10000 mm to map to 100, got %f", vp.length(10000))
	}

	x, y := vp.point(model.Pt(0, 10000, 0))
	if math.Abs(x-60) > 1e-9 || math.Abs(y-20) > 1e-9 {
		t.Errorf("top-left corner mapped to (%f, %f), want (60, 20)", x, y)
	}
	x, y = vp.point(model.Pt(10000, 0, 0))
	if math.Abs(x-160) > 1e-9 || math.Abs(y-120) > 1e-9 {
		t.Errorf("bottom-right corner mapped to (%f, %f), want (160, 120)", x, y)
	}
}
