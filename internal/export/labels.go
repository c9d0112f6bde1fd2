package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// TagInfo holds the data encoded into each sprinkler installation tag's QR code.
type TagInfo struct {
	LayoutID   string  `json:"layout"`
	Number     int     `json:"sprinkler"`
	Strategy   string  `json:"strategy"`
	X          float64 `json:"x_mm"`
	Y          float64 `json:"y_mm"`
	Z          float64 `json:"z_mm"`
	Pipe       int     `json:"pipe"` // 1-based; 0 when unconnected
	ConnectX   float64 `json:"connect_x_mm"`
	ConnectY   float64 `json:"connect_y_mm"`
	ConnectZ   float64 `json:"connect_z_mm"`
	DropLength float64 `json:"drop_mm"`
}

// Tag layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded installation tags, one per placed
// sprinkler, on Avery 5160 sheets.
func ExportLabels(path string, scene Scene) error {
	tags := CollectTagInfos(scene)
	if len(tags) == 0 {
		return fmt.Errorf("no sprinklers placed to generate tags for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, tag := range tags {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderTag(pdf, x, y, tag); err != nil {
			return fmt.Errorf("failed to render tag for sprinkler %d: %w", tag.Number, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderTag draws a single tag at the given position.
func renderTag(pdf *fpdf.Fpdf, x, y float64, info TagInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal tag info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.LayoutID, info.Number)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Sprinkler %d", info.Number), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("X %.0f  Y %.0f", info.X, info.Y), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Height %.0f mm", info.Z), "", 1, "L", false, 0, "")

	if info.Pipe > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(0, 90, 160)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Pipe %d, drop %.0f mm", info.Pipe, info.DropLength), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectTagInfos extracts tag information for every placed sprinkler.
func CollectTagInfos(scene Scene) []TagInfo {
	result := scene.Result
	var tags []TagInfo
	for i, s := range result.Sprinklers {
		tag := TagInfo{
			LayoutID: result.ID,
			Number:   i + 1,
			Strategy: string(result.Strategy),
			X:        s.X,
			Y:        s.Y,
			Z:        s.Z,
		}
		if c, ok := result.ConnectionFor(i); ok {
			tag.Pipe = c.PipeIndex + 1
			tag.ConnectX = c.Point.X
			tag.ConnectY = c.Point.Y
			tag.ConnectZ = c.Point.Z
			tag.DropLength = c.Length()
		}
		tags = append(tags, tag)
	}
	return tags
}
