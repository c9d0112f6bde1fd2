// Package importer reads room boundaries and supply pipes from CSV, Excel and
// DXF files. Tabular input supports automatic delimiter detection, flexible
// column mapping and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Sheet names preferred when reading workbooks. The first sheet is used when
// the preferred one is absent.
const (
	RoomSheet  = "Room"
	PipesSheet = "Pipes"
)

// Kind selects what a tabular file describes.
type Kind int

const (
	KindRoom  Kind = iota // One boundary corner per row: x, y, z
	KindPipes             // One pipe per row: start_x .. end_z
)

func (k Kind) String() string {
	if k == KindPipes {
		return "pipes"
	}
	return "room"
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Room     model.Boundary
	Pipes    []model.Pipe
	Errors   []string
	Warnings []string
}

// Err folds the collected errors into a single INVALID_INPUT error, or
// returns nil when the import succeeded.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return model.NewError(model.ErrCodeInvalidInput, "%s", strings.Join(r.Errors, "; "))
}

// column describes one semantic column of a table.
type column struct {
	name     string
	aliases  []string // lowercase
	required bool
}

var roomColumns = []column{
	{name: "X", aliases: []string{"x", "x_mm", "x (mm)", "east", "easting"}, required: true},
	{name: "Y", aliases: []string{"y", "y_mm", "y (mm)", "north", "northing"}, required: true},
	{name: "Z", aliases: []string{"z", "z_mm", "z (mm)", "elevation", "elev", "height"}},
}

var pipeColumns = []column{
	{name: "Start X", aliases: []string{"start_x", "start x", "startx", "x1", "sx", "from_x"}, required: true},
	{name: "Start Y", aliases: []string{"start_y", "start y", "starty", "y1", "sy", "from_y"}, required: true},
	{name: "Start Z", aliases: []string{"start_z", "start z", "startz", "z1", "sz", "from_z"}},
	{name: "End X", aliases: []string{"end_x", "end x", "endx", "x2", "ex", "to_x"}, required: true},
	{name: "End Y", aliases: []string{"end_y", "end y", "endy", "y2", "ey", "to_y"}, required: true},
	{name: "End Z", aliases: []string{"end_z", "end z", "endz", "z2", "ez", "to_z"}},
}

func (k Kind) columns() []column {
	if k == KindPipes {
		return pipeColumns
	}
	return roomColumns
}

// ColumnMapping holds the index of each column of a Kind in the data, or -1
// when the column is absent.
type ColumnMapping []int

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns the column mapping for kind.
// Matching is case-insensitive against known aliases. When no cell matches, it
// returns the positional mapping and false.
func DetectColumns(row []string, kind Kind) (ColumnMapping, bool) {
	cols := kind.columns()
	mapping := make(ColumnMapping, len(cols))
	for i := range mapping {
		mapping[i] = -1
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for c, col := range cols {
			for _, alias := range col.aliases {
				if normalized == alias {
					isHeader = true
					if mapping[c] == -1 {
						mapping[c] = i
					}
				}
			}
		}
	}

	if !isHeader {
		for i := range mapping {
			mapping[i] = i
		}
		return mapping, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts the numeric values of one row. Missing optional columns
// read as zero.
func parseRow(row []string, mapping ColumnMapping, cols []column, rowLabel string) ([]float64, string) {
	values := make([]float64, len(cols))
	for c, col := range cols {
		s := getCell(row, mapping[c])
		if s == "" {
			if col.required {
				return nil, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name)
			}
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, s)
		}
		values[c] = v
	}
	return values, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportRoom reads room corners from a .csv, .xlsx or .dxf file.
func ImportRoom(path string) ImportResult {
	return importFile(path, KindRoom)
}

// ImportPipes reads supply pipes from a .csv, .xlsx or .dxf file.
func ImportPipes(path string) ImportResult {
	return importFile(path, KindPipes)
}

func importFile(path string, kind Kind) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return importCSV(path, kind)
	case ".xlsx", ".xlsm", ".xls":
		return importExcel(path, kind)
	case ".dxf":
		if kind == KindPipes {
			return ImportPipesDXF(path)
		}
		return ImportRoomDXF(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// ImportRoomCSV imports room corners from a CSV file.
func ImportRoomCSV(path string) ImportResult {
	return importCSV(path, KindRoom)
}

// ImportPipesCSV imports pipes from a CSV file.
func ImportPipesCSV(path string) ImportResult {
	return importCSV(path, KindPipes)
}

// importCSV detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func importCSV(path string, kind Kind) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, kind, "Line", result.Warnings)
}

// ImportCSVFromReader imports a table of the given kind from a CSV reader with
// a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, kind Kind) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, kind, "Line", nil)
}

// ImportRoomExcel imports room corners from the Room sheet of a workbook.
func ImportRoomExcel(path string) ImportResult {
	return importExcel(path, KindRoom)
}

// ImportPipesExcel imports pipes from the Pipes sheet of a workbook.
func ImportPipesExcel(path string) ImportResult {
	return importExcel(path, KindPipes)
}

func importExcel(path string, kind Kind) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	preferred := RoomSheet
	if kind == KindPipes {
		preferred = PipesSheet
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if strings.EqualFold(s, preferred) {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, kind, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into corners or pipes.
func importFromRows(rows [][]string, kind Kind, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	cols := kind.columns()
	mapping, hasHeader := DetectColumns(rows[0], kind)
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		for c, col := range cols {
			if col.required && mapping[c] == -1 {
				missing = append(missing, col.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], 0), 64); err != nil && !isEmptyRow(rows[0]) {
		// Unrecognized header: skip it but keep positional mapping.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		values, errMsg := parseRow(row, mapping, cols, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		switch kind {
		case KindRoom:
			result.Room = append(result.Room, model.Pt(values[0], values[1], values[2]))
		case KindPipes:
			pipe := model.NewPipe(model.Pt(values[0], values[1], values[2]), model.Pt(values[3], values[4], values[5]))
			if pipe.Length() == 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Zero-length pipe", rowLabel))
			}
			result.Pipes = append(result.Pipes, pipe)
		}
	}

	result.checkComplete(kind)
	return result
}

// checkComplete records an error when the import produced too little data to
// describe a room or a pipe network.
func (r *ImportResult) checkComplete(kind Kind) {
	switch kind {
	case KindRoom:
		if len(r.Room) < 3 {
			r.Errors = append(r.Errors, fmt.Sprintf("Room needs at least 3 corners, found %d", len(r.Room)))
		}
	case KindPipes:
		if len(r.Pipes) == 0 {
			r.Errors = append(r.Errors, "No pipes found")
		}
	}
}
