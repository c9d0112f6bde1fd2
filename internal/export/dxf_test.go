package export

import (
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

func TestExportDXF_Entities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")

	if err := ExportDXF(path, buildTestScene()); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen DXF: %v", err)
	}

	var lines, circles int
	for _, e := range drawing.Entities() {
		switch e.(type) {
		case *entity.Line:
			lines++
		case *entity.Circle:
			circles++
		}
	}
	// 4 walls, 1 pipe, 4 connection drops.
	if lines != 9 {
		t.Errorf("expected 9 lines, got %d", lines)
	}
	// Coverage circle and head marker per sprinkler.
	if circles != 8 {
		t.Errorf("expected 8 circles, got %d", circles)
	}
}

func TestExportDXF_RoomOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.dxf")

	scene := buildTestScene()
	scene.Pipes = nil
	scene.Result.Sprinklers = nil
	scene.Result.Connections = nil
	if err := ExportDXF(path, scene); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}
	assertFileWritten(t, path, 100)
}

func TestExportDXF_EmptyRoom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")
	if err := ExportDXF(path, Scene{}); err == nil {
		t.Fatal("expected error for empty room, got nil")
	}
}
