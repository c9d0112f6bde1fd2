package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// SpacingTolerance absorbs floating-point noise in the spacing check.
const SpacingTolerance = 1e-6

// ValidateLayout checks the hard constraints of a layout. All checks run and
// their messages are joined with "; ". The message is empty when valid.
func ValidateLayout(result model.LayoutResult, settings model.Settings) (bool, string) {
	var problems []string

	if len(result.Sprinklers) == 0 {
		problems = append(problems, "No sprinklers placed")
	}

	sp := result.Sprinklers
	for i := 0; i < len(sp); i++ {
		for j := i + 1; j < len(sp); j++ {
			d := sp[i].Distance2D(sp[j])
			if d < settings.SprinklerSpacing-SpacingTolerance {
				problems = append(problems, fmt.Sprintf(
					"Sprinklers %d and %d are too close (%.2f mm < %g mm)",
					i+1, j+1, d, settings.SprinklerSpacing))
			}
		}
	}

	for _, c := range result.Connections {
		if d := c.Length(); d > settings.MaximumConnectionDistance {
			problems = append(problems, fmt.Sprintf(
				"Connection distance %.2f mm exceeds maximum %g mm",
				d, settings.MaximumConnectionDistance))
		}
	}

	return len(problems) == 0, strings.Join(problems, "; ")
}
