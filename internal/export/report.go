package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// WriteReport writes the detailed text report of a layout: header, metrics,
// connection and spacing analysis, then one line per sprinkler.
func WriteReport(w io.Writer, result model.LayoutResult) error {
	var b strings.Builder

	b.WriteString("COMPREHENSIVE SPRINKLER LAYOUT REPORT\n")
	b.WriteString("====================================\n\n")

	fmt.Fprintf(&b, "Strategy Used: %s\n", result.Strategy)
	fmt.Fprintf(&b, "Calculation Time: %.2f ms\n", result.CalculationMillis())
	fmt.Fprintf(&b, "Layout Valid: %t\n", result.Valid)
	if !result.Valid {
		fmt.Fprintf(&b, "Validation Issues: %s\n", result.ValidationMessage)
	}
	b.WriteString("\n")

	m := result.Metrics
	b.WriteString("LAYOUT METRICS\n")
	b.WriteString("--------------\n")
	fmt.Fprintf(&b, "Total Sprinklers: %d\n", m.TotalSprinklers)
	fmt.Fprintf(&b, "Room Area: %.2f mm²\n", m.RoomArea)
	fmt.Fprintf(&b, "Coverage per Sprinkler: %.2f mm²\n", m.CoveragePerSprinkler)
	fmt.Fprintf(&b, "Coverage Efficiency: %s\n", percent(m.CoverageEfficiency))
	b.WriteString("\n")

	b.WriteString("CONNECTION ANALYSIS\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Average Connection Distance: %.2f mm\n", m.AverageConnectionDistance)
	fmt.Fprintf(&b, "Min Connection Distance: %.2f mm\n", m.MinConnectionDistance)
	fmt.Fprintf(&b, "Max Connection Distance: %.2f mm\n", m.MaxConnectionDistance)
	b.WriteString("\n")

	b.WriteString("SPACING ANALYSIS\n")
	b.WriteString("---------------\n")
	fmt.Fprintf(&b, "Average Sprinkler Spacing: %.2f mm\n", m.AverageSpacingDistance)
	fmt.Fprintf(&b, "Spacing Uniformity: %s\n", percent(m.SpacingUniformity))
	b.WriteString("\n")

	b.WriteString("DETAILED SPRINKLER POSITIONS\n")
	b.WriteString("---------------------------\n")
	for i, s := range result.Sprinklers {
		if c, ok := result.ConnectionFor(i); ok {
			fmt.Fprintf(&b, "Sprinkler %2d: %s → Connection: %s (Distance: %.2f mm)\n",
				i+1, s, c.Point, c.Length())
		} else {
			fmt.Fprintf(&b, "Sprinkler %2d: %s → No connection found\n", i+1, s)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatReport returns the detailed report as a string.
func FormatReport(result model.LayoutResult) string {
	var b strings.Builder
	_ = WriteReport(&b, result)
	return b.String()
}

// Summary returns the short per-strategy status lines.
func Summary(result model.LayoutResult) string {
	if !result.Valid {
		return fmt.Sprintf("Strategy %s failed: %s", result.Strategy, result.ValidationMessage)
	}
	return fmt.Sprintf("Strategy %s completed: %d sprinklers, avg connection %.2f mm, coverage efficiency %s, %.2f ms",
		result.Strategy, len(result.Sprinklers), result.Metrics.AverageConnectionDistance,
		percent(result.Metrics.CoverageEfficiency), result.CalculationMillis())
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
