package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SprinklerLayout/internal/engine"
	"github.com/piwi3910/SprinklerLayout/internal/export"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	var (
		inputs  inputOptions
		exports exportOptions
		details bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every placement strategy and pick the best layout",
		Long: `Run every placement strategy on the same room, pipes and settings.

The best valid layout has the highest coverage efficiency, then the fewest
sprinklers, then the shortest average connection. Export flags write the
best layout.`,
		Example: `  sprinklerlayout compare --demo
  sprinklerlayout compare --project office.sprinkler.json --details --pdf best.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			p, err := inputs.load(cmd, root.config, logger)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			scenarios := engine.BuildDefaultScenarios(p.Settings)
			results := engine.CompareStrategies(scenarios, p.Room, p.Pipes, logger)
			prog.done(fmt.Sprintf("Compared %d strategies", len(results)))

			out := cmd.OutOrStdout()
			if details {
				for _, r := range results {
					fmt.Fprintln(out, StyleTitle.Render(r.Scenario.Name))
					if err := export.WriteReport(out, r.Result); err != nil {
						return err
					}
					fmt.Fprintln(out)
				}
			}

			bestIdx := -1
			best, ok := engine.BestResult(results)
			if ok {
				for i := range results {
					if results[i].Scenario.Name == best.Scenario.Name {
						bestIdx = i
						break
					}
				}
			}

			fmt.Fprintln(out, comparisonTable(results, bestIdx))
			for _, r := range results {
				printDetail(out, "%s", export.Summary(r.Result))
			}
			fmt.Fprintln(out)

			if !ok {
				printWarning(out, "No strategy produced a valid layout")
				return nil
			}
			printSuccess(out, "Best strategy: %s (%s sprinklers, %s coverage efficiency)",
				StyleTitle.Render(best.Scenario.Name),
				StyleNumber.Render(fmt.Sprintf("%d", best.SprinklerCount)),
				StyleNumber.Render(fmt.Sprintf("%.1f%%", best.CoverageEfficiency*100)))

			scene := export.Scene{Name: p.Name, Room: p.Room, Pipes: p.Pipes, Settings: best.Scenario.Settings, Result: best.Result}
			return exports.write(cmd, scene)
		},
	}

	addInputFlags(cmd, &inputs)
	addExportFlags(cmd, &exports)
	cmd.Flags().BoolVar(&details, "details", false, "print the full report of every strategy")
	// Every strategy runs regardless.
	_ = cmd.Flags().MarkHidden("strategy")

	return cmd
}
