package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// DXF layer names written by ExportDXF.
const (
	LayerRoom        = "ROOM"
	LayerPipes       = "PIPES"
	LayerSprinklers  = "SPRINKLERS"
	LayerCoverage    = "COVERAGE"
	LayerConnections = "CONNECTIONS"
)

// sprinklerMarkRadius is the drawn radius of a sprinkler head in mm.
const sprinklerMarkRadius = 50.0

// ExportDXF writes the layout as a 3D DXF drawing. Walls are drawn at the
// height of their corners, pipes and connection drops keep their Z values.
func ExportDXF(path string, scene Scene) error {
	if err := scene.check(); err != nil {
		return err
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerRoom, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerRoom, err)
	}
	n := len(scene.Room)
	for i := range scene.Room {
		a, b := scene.Room[i], scene.Room[(i+1)%n]
		if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
			return fmt.Errorf("failed to draw wall %d: %w", i+1, err)
		}
	}

	if _, err := d.AddLayer(LayerPipes, color.Blue, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerPipes, err)
	}
	for i, p := range scene.Pipes {
		if _, err := d.Line(p.Start.X, p.Start.Y, p.Start.Z, p.End.X, p.End.Y, p.End.Z); err != nil {
			return fmt.Errorf("failed to draw pipe %d: %w", i+1, err)
		}
	}

	result := scene.Result
	if radius := scene.Settings.MinimumCoverageRadius; radius > 0 && len(result.Sprinklers) > 0 {
		if _, err := d.AddLayer(LayerCoverage, color.Yellow, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", LayerCoverage, err)
		}
		for _, s := range result.Sprinklers {
			if _, err := d.Circle(s.X, s.Y, s.Z, radius); err != nil {
				return fmt.Errorf("failed to draw coverage circle: %w", err)
			}
		}
	}

	if len(result.Connections) > 0 {
		if _, err := d.AddLayer(LayerConnections, color.Green, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", LayerConnections, err)
		}
		for _, c := range result.Connections {
			s := c.Sprinkler
			if _, err := d.Line(s.X, s.Y, s.Z, c.Point.X, c.Point.Y, c.Point.Z); err != nil {
				return fmt.Errorf("failed to draw connection: %w", err)
			}
		}
	}

	if len(result.Sprinklers) > 0 {
		if _, err := d.AddLayer(LayerSprinklers, color.Red, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", LayerSprinklers, err)
		}
		for i, s := range result.Sprinklers {
			if _, err := d.Circle(s.X, s.Y, s.Z, sprinklerMarkRadius); err != nil {
				return fmt.Errorf("failed to draw sprinkler %d: %w", i+1, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
