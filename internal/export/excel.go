package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names used in exported workbooks. The importer recognises the Room
// and Pipes sheets, so an exported workbook can be read back as input.
const (
	SheetSprinklers = "Sprinklers"
	SheetMetrics    = "Metrics"
	SheetRoom       = "Room"
	SheetPipes      = "Pipes"
)

// ExportExcel writes the layout to an .xlsx workbook with one sheet each for
// sprinklers, metrics, room corners and pipes.
func ExportExcel(path string, scene Scene) error {
	if err := scene.check(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSprinklers); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetMetrics, SheetRoom, SheetPipes} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	result := scene.Result

	sprinklerRows := make([][]any, 0, len(result.Sprinklers))
	for i, s := range result.Sprinklers {
		row := []any{i + 1, s.X, s.Y, s.Z}
		if c, ok := result.ConnectionFor(i); ok {
			row = append(row, c.PipeIndex+1, c.Point.X, c.Point.Y, c.Point.Z, c.Length())
		}
		sprinklerRows = append(sprinklerRows, row)
	}
	if err := writeTable(f, SheetSprinklers, headerStyle,
		[]string{"#", "X", "Y", "Z", "Pipe", "Connection X", "Connection Y", "Connection Z", "Distance"},
		sprinklerRows); err != nil {
		return err
	}

	m := result.Metrics
	metricRows := [][]any{
		{"Layout ID", result.ID},
		{"Strategy", result.Strategy.String()},
		{"Valid", result.Valid},
		{"Validation Message", result.ValidationMessage},
		{"Total Sprinklers", m.TotalSprinklers},
		{"Room Area (mm²)", m.RoomArea},
		{"Coverage per Sprinkler (mm²)", m.CoveragePerSprinkler},
		{"Coverage Efficiency", m.CoverageEfficiency},
		{"Average Connection (mm)", m.AverageConnectionDistance},
		{"Min Connection (mm)", m.MinConnectionDistance},
		{"Max Connection (mm)", m.MaxConnectionDistance},
		{"Average Spacing (mm)", m.AverageSpacingDistance},
		{"Spacing Uniformity", m.SpacingUniformity},
		{"Calculation Time (ms)", result.CalculationMillis()},
		{"Wall Clearance (mm)", scene.Settings.WallClearance},
		{"Sprinkler Spacing (mm)", scene.Settings.SprinklerSpacing},
		{"Ceiling Height (mm)", scene.Settings.CeilingHeight},
		{"Coverage Radius (mm)", scene.Settings.MinimumCoverageRadius},
		{"Max Connection Distance (mm)", scene.Settings.MaximumConnectionDistance},
	}
	if err := writeTable(f, SheetMetrics, headerStyle, []string{"Metric", "Value"}, metricRows); err != nil {
		return err
	}

	roomRows := make([][]any, 0, len(scene.Room))
	for _, p := range scene.Room {
		roomRows = append(roomRows, []any{p.X, p.Y, p.Z})
	}
	if err := writeTable(f, SheetRoom, headerStyle, []string{"x", "y", "z"}, roomRows); err != nil {
		return err
	}

	pipeRows := make([][]any, 0, len(scene.Pipes))
	for _, p := range scene.Pipes {
		pipeRows = append(pipeRows, []any{p.Start.X, p.Start.Y, p.Start.Z, p.End.X, p.End.Y, p.End.Z})
	}
	if err := writeTable(f, SheetPipes, headerStyle,
		[]string{"start_x", "start_y", "start_z", "end_x", "end_y", "end_z"}, pipeRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeTable writes a styled header row followed by data rows starting at A1.
func writeTable(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]any) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}
