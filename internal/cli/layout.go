package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SprinklerLayout/internal/engine"
	"github.com/piwi3910/SprinklerLayout/internal/export"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// exportOptions names the optional output files of a layout run.
type exportOptions struct {
	pdf    string
	labels string
	xlsx   string
	png    string
	dxf    string
}

func addExportFlags(cmd *cobra.Command, o *exportOptions) {
	f := cmd.Flags()
	f.StringVar(&o.pdf, "pdf", "", "write the layout drawing and summary as PDF")
	f.StringVar(&o.labels, "labels", "", "write QR-coded sprinkler installation tags as PDF")
	f.StringVar(&o.xlsx, "xlsx", "", "write the layout as an Excel workbook")
	f.StringVar(&o.png, "png", "", "write a plan-view plot (.png, .svg or .pdf)")
	f.StringVar(&o.dxf, "dxf", "", "write the layout as a DXF drawing")
}

// write runs every requested exporter for scene.
func (o *exportOptions) write(cmd *cobra.Command, scene export.Scene) error {
	jobs := []struct {
		kind string
		path string
		fn   func(string, export.Scene) error
	}{
		{"PDF", o.pdf, export.ExportPDF},
		{"tags", o.labels, export.ExportLabels},
		{"workbook", o.xlsx, export.ExportExcel},
		{"plot", o.png, export.ExportPNG},
		{"DXF", o.dxf, export.ExportDXF},
	}
	for _, job := range jobs {
		if job.path == "" {
			continue
		}
		if err := job.fn(job.path, scene); err != nil {
			return fmt.Errorf("export %s: %w", job.kind, err)
		}
		printSuccess(cmd.OutOrStdout(), "Wrote %s %s", job.kind, job.path)
	}
	return nil
}

func newLayoutCmd(root *rootOptions) *cobra.Command {
	var (
		inputs  inputOptions
		exports exportOptions
		ascii   bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute a sprinkler layout and print its report",
		Long: `Compute a sprinkler layout for one strategy.

The room and pipes come from --project, --demo, or --room and --pipes. Settings
start from the configuration file and can be overridden per run.`,
		Example: `  sprinklerlayout layout --demo --strategy maximum-coverage --ascii
  sprinklerlayout layout --room room.csv --pipes pipes.dxf --spacing 3000 --pdf layout.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg := root.config

			p, err := inputs.load(cmd, cfg, logger)
			if err != nil {
				return err
			}

			eng := engine.New(p.Settings)
			eng.Logger = logger
			result := eng.ComputeLayout(p.Room, p.Pipes, p.Strategy)
			if result.Failure != nil && model.CodeOf(result.Failure) != model.ErrCodeComputationFailure {
				return result.Failure
			}

			out := cmd.OutOrStdout()
			scene := export.Scene{Name: p.Name, Room: p.Room, Pipes: p.Pipes, Settings: p.Settings, Result: result}
			if !quiet {
				if err := export.WriteReport(out, result); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			if ascii || cfg.ShowASCII {
				fmt.Fprint(out, export.RenderASCII(scene, cfg.ASCIIWidth, cfg.ASCIIHeight))
				fmt.Fprintln(out)
			}

			if err := exports.write(cmd, scene); err != nil {
				return err
			}

			if result.Valid {
				printSuccess(out, "%s", export.Summary(result))
			} else {
				printWarning(out, "%s", export.Summary(result))
			}
			return nil
		},
	}

	addInputFlags(cmd, &inputs)
	addExportFlags(cmd, &exports)
	cmd.Flags().BoolVar(&ascii, "ascii", false, "print the ASCII picture after the report")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "skip the detailed report")

	return cmd
}
