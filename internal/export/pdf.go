package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// pipeColor is an RGB color for a supply pipe.
type pipeColor struct {
	R, G, B int
}

// pipeColors distinguishes pipes; connections take the color of their pipe.
var pipeColors = []pipeColor{
	{R: 33, G: 150, B: 243}, // blue
	{R: 0, G: 188, B: 212},  // cyan
	{R: 156, G: 39, B: 176}, // purple
	{R: 255, G: 152, B: 0},  // orange
	{R: 121, G: 85, B: 72},  // brown
	{R: 76, G: 175, B: 80},  // green
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a PDF with the layout drawing on the first page and a
// summary of metrics, settings and connections on the following pages.
func ExportPDF(path string, scene Scene) error {
	if err := scene.check(); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(scene.title(), true)

	pdf.AddPage()
	renderLayoutPage(pdf, scene)

	pdf.AddPage()
	renderSummaryPage(pdf, scene)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws room, pipes, connections and sprinklers.
func renderLayoutPage(pdf *fpdf.Fpdf, scene Scene) {
	result := scene.Result

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %s strategy", scene.title(), result.Strategy)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, pdf.UnicodeTranslatorFromDescriptor("")(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sprinklers: %d | Avg connection: %.0f mm | Coverage efficiency: %s | %s",
		len(result.Sprinklers), result.Metrics.AverageConnectionDistance,
		percent(result.Metrics.CoverageEfficiency), validityLabel(result))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	vp := newViewport(scene.Room, marginLeft, drawAreaTop, drawWidth, drawHeight)

	// Room
	pts := make([]fpdf.PointType, len(scene.Room))
	for i, p := range scene.Room {
		x, y := vp.point(p)
		pts[i] = fpdf.PointType{X: x, Y: y}
	}
	pdf.SetFillColor(245, 245, 235)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.6)
	pdf.Polygon(pts, "FD")

	// Coverage circles
	pdf.SetAlpha(0.15, "Normal")
	pdf.SetFillColor(244, 67, 54)
	for _, s := range result.Sprinklers {
		x, y := vp.point(s)
		pdf.Circle(x, y, vp.length(scene.Settings.MinimumCoverageRadius), "F")
	}
	pdf.SetAlpha(1, "Normal")

	// Pipes
	pdf.SetLineWidth(0.8)
	for i, p := range scene.Pipes {
		col := pipeColors[i%len(pipeColors)]
		pdf.SetDrawColor(col.R, col.G, col.B)
		x1, y1 := vp.point(p.Start)
		x2, y2 := vp.point(p.End)
		pdf.Line(x1, y1, x2, y2)
	}

	// Connections
	pdf.SetLineWidth(0.25)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, c := range result.Connections {
		col := pipeColors[max(c.PipeIndex, 0)%len(pipeColors)]
		pdf.SetDrawColor(col.R, col.G, col.B)
		x1, y1 := vp.point(c.Sprinkler)
		x2, y2 := vp.point(c.Point)
		pdf.Line(x1, y1, x2, y2)
	}
	pdf.SetDashPattern([]float64{}, 0)

	// Sprinklers with their number
	pdf.SetFillColor(211, 47, 47)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.2)
	pdf.SetFont("Helvetica", "", 6)
	for i, s := range result.Sprinklers {
		x, y := vp.point(s)
		pdf.Circle(x, y, 1.2, "FD")
		pdf.SetXY(x+1.5, y-3)
		pdf.CellFormat(6, 3, fmt.Sprintf("%d", i+1), "", 0, "L", false, 0, "")
	}

	drawLegend(pdf, scene, pageHeight-marginBottom-legendHeight+4)
}

// drawLegend renders the pipe color swatches and glyph key under the drawing.
func drawLegend(pdf *fpdf.Fpdf, scene Scene, y float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(20, 4, "Legend:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	for i := range scene.Pipes {
		col := pipeColors[i%len(pipeColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, y+0.5, 3, 3, "F")
		label := fmt.Sprintf("Pipe %d", i+1)
		pdf.SetXY(xPos+4, y)
		pdf.CellFormat(16, 4, label, "", 0, "L", false, 0, "")
		xPos += 22
	}

	pdf.SetFillColor(211, 47, 47)
	pdf.Circle(xPos+1.5, y+2, 1.2, "F")
	pdf.SetXY(xPos+4, y)
	pdf.CellFormat(60, 4, fmt.Sprintf("Sprinkler (coverage radius %.0f mm)", scene.Settings.MinimumCoverageRadius), "", 0, "L", false, 0, "")
}

// renderSummaryPage lists metrics, settings and the connection table.
func renderSummaryPage(pdf *fpdf.Fpdf, scene Scene) {
	result := scene.Result
	m := result.Metrics

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Sprinkler Layout Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	metricItems := []keyValue{
		{"Strategy", result.Strategy.String()},
		{"Layout Valid", fmt.Sprintf("%t", result.Valid)},
		{"Total Sprinklers", fmt.Sprintf("%d", m.TotalSprinklers)},
		{"Room Area", fmt.Sprintf("%.2f m²", m.RoomArea/1e6)},
		{"Coverage per Sprinkler", fmt.Sprintf("%.2f m²", m.CoveragePerSprinkler/1e6)},
		{"Coverage Efficiency", percent(m.CoverageEfficiency)},
		{"Average Connection", fmt.Sprintf("%.2f mm", m.AverageConnectionDistance)},
		{"Min / Max Connection", fmt.Sprintf("%.2f / %.2f mm", m.MinConnectionDistance, m.MaxConnectionDistance)},
		{"Average Spacing", fmt.Sprintf("%.2f mm", m.AverageSpacingDistance)},
		{"Spacing Uniformity", percent(m.SpacingUniformity)},
		{"Calculation Time", fmt.Sprintf("%.2f ms", result.CalculationMillis())},
	}
	y = renderKeyValues(pdf, "Layout Metrics", metricItems, marginLeft, y)

	settingsItems := []keyValue{
		{"Wall Clearance", fmt.Sprintf("%.0f mm", scene.Settings.WallClearance)},
		{"Sprinkler Spacing", fmt.Sprintf("%.0f mm", scene.Settings.SprinklerSpacing)},
		{"Ceiling Height", fmt.Sprintf("%.0f mm", scene.Settings.CeilingHeight)},
		{"Coverage Radius", fmt.Sprintf("%.0f mm", scene.Settings.MinimumCoverageRadius)},
		{"Max Connection", fmt.Sprintf("%.0f mm", scene.Settings.MaximumConnectionDistance)},
	}
	renderKeyValues(pdf, "Settings", settingsItems, marginLeft+140, marginTop+18)

	if !result.Valid && result.ValidationMessage != "" {
		y += 4
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Validation Issues", "", 0, "L", false, 0, "")
		y += 8
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft+5, y)
		pdf.MultiCell(pageWidth-marginLeft-marginRight-5, 4, result.ValidationMessage, "", "L", false)
		y = pdf.GetY() + 2
	}

	renderConnectionTable(pdf, result, y+4)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SprinklerLayout", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

type keyValue struct {
	label string
	value string
}

// renderKeyValues draws a heading and label/value rows, returning the next free Y.
func renderKeyValues(pdf *fpdf.Fpdf, heading string, items []keyValue, x, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(x+5, y)
		pdf.CellFormat(55, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, pdf.UnicodeTranslatorFromDescriptor("")(item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// renderConnectionTable lists every sprinkler with its connection, adding
// pages as needed.
func renderConnectionTable(pdf *fpdf.Fpdf, result model.LayoutResult, y float64) {
	colWidths := []float64{15, 70, 70, 20, 35}
	headers := []string{"#", "Sprinkler (x, y, z)", "Connection (x, y, z)", "Pipe", "Distance"}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, h := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	for i, c := range result.Connections {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
			header()
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			c.Sprinkler.String(),
			c.Point.String(),
			fmt.Sprintf("%d", c.PipeIndex+1),
			fmt.Sprintf("%.2f mm", c.Length()),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 5, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 5
	}
}

func validityLabel(result model.LayoutResult) string {
	if result.Valid {
		return "VALID"
	}
	return "INVALID"
}
