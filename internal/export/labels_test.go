package export

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.pdf")

	if err := ExportLabels(path, buildTestScene()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportLabels_NoSprinklers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")

	scene := buildTestScene()
	scene.Result.Sprinklers = nil
	if err := ExportLabels(path, scene); err == nil {
		t.Fatal("expected error for layout without sprinklers, got nil")
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.pdf")

	scene := buildTestScene()
	scene.Result.Connections = nil
	scene.Result.Sprinklers = nil
	for i := 0; i < labelsPerPage+5; i++ {
		scene.Result.Sprinklers = append(scene.Result.Sprinklers, model.Pt(float64(100*i), 500, 2500))
	}
	if err := ExportLabels(path, scene); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileWritten(t, path, 1000)
}

func TestCollectTagInfos(t *testing.T) {
	scene := buildTestScene()
	tags := CollectTagInfos(scene)

	if len(tags) != 4 {
		t.Fatalf("expected 4 tags, got %d", len(tags))
	}
	first := tags[0]
	if first.Number != 1 || first.LayoutID != scene.Result.ID {
		t.Errorf("unexpected tag identity: %+v", first)
	}
	if first.Strategy != "grid" {
		t.Errorf("expected strategy grid, got %q", first.Strategy)
	}
	if first.Pipe != 1 {
		t.Errorf("expected 1-based pipe number 1, got %d", first.Pipe)
	}
	if first.ConnectZ != 3000 || math.Abs(first.DropLength-500) > 1e-6 {
		t.Errorf("unexpected connection data: %+v", first)
	}
}

func TestCollectTagInfos_Unconnected(t *testing.T) {
	scene := buildTestScene()
	scene.Result.Connections = scene.Result.Connections[:2]
	tags := CollectTagInfos(scene)

	if tags[3].Pipe != 0 || tags[3].DropLength != 0 {
		t.Errorf("expected unconnected tag, got %+v", tags[3])
	}
}

func TestTagInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(CollectTagInfos(buildTestScene())[1])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"layout", "sprinkler", "x_mm", "pipe", "drop_mm"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("QR payload missing key %q", key)
		}
	}
	if got := fmt.Sprint(decoded["sprinkler"]); got != "2" {
		t.Errorf("expected sprinkler 2, got %s", got)
	}
}
