package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SprinklerLayout/internal/importer"
	"github.com/piwi3910/SprinklerLayout/internal/model"
	"github.com/piwi3910/SprinklerLayout/internal/project"
)

// inputOptions selects the room, pipes, settings and strategy of a run.
type inputOptions struct {
	projectPath string
	demo        bool
	roomPath    string
	pipesPath   string
	strategy    string

	wallClearance    float64
	sprinklerSpacing float64
	ceilingHeight    float64
	coverageRadius   float64
	maxConnection    float64
}

// Flag names for the settings overrides.
const (
	flagClearance     = "clearance"
	flagSpacing       = "spacing"
	flagCeiling       = "ceiling"
	flagRadius        = "radius"
	flagMaxConnection = "max-connection"
)

func addInputFlags(cmd *cobra.Command, o *inputOptions) {
	f := cmd.Flags()
	f.StringVar(&o.projectPath, "project", "", "load room, pipes and settings from a project file")
	f.BoolVar(&o.demo, "demo", false, "use the built-in demo room and pipes")
	f.StringVar(&o.roomPath, "room", "", "room corners file (.csv, .xlsx or .dxf)")
	f.StringVar(&o.pipesPath, "pipes", "", "supply pipes file (.csv, .xlsx or .dxf)")
	f.StringVarP(&o.strategy, "strategy", "s", "", "placement strategy: "+strategyNames())
	f.Float64Var(&o.wallClearance, flagClearance, 0, "minimum wall clearance (mm)")
	f.Float64Var(&o.sprinklerSpacing, flagSpacing, 0, "minimum sprinkler spacing (mm)")
	f.Float64Var(&o.ceilingHeight, flagCeiling, 0, "sprinkler mounting height (mm)")
	f.Float64Var(&o.coverageRadius, flagRadius, 0, "sprinkler coverage radius (mm)")
	f.Float64Var(&o.maxConnection, flagMaxConnection, 0, "maximum sprinkler-to-pipe distance (mm)")
	cmd.MarkFlagsMutuallyExclusive("project", "demo")
}

func strategyNames() string {
	names := make([]string, 0, 3)
	for _, s := range model.AllStrategies() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// load resolves the inputs in order: project file or demo or configured
// defaults, then imported room and pipes, then flag overrides.
func (o *inputOptions) load(cmd *cobra.Command, cfg model.AppConfig, logger *log.Logger) (model.Project, error) {
	var p model.Project
	switch {
	case o.projectPath != "":
		loaded, err := project.LoadProject(o.projectPath)
		if err != nil {
			return model.Project{}, err
		}
		p = loaded
		logger.Debug("Loaded project", "path", o.projectPath, "name", p.Name)
	case o.demo:
		p = model.DemoProject()
	default:
		p = model.NewProject()
		cfg.ApplyToSettings(&p.Settings)
		p.Strategy = cfg.Strategy()
	}

	if o.roomPath != "" {
		res := importer.ImportRoom(o.roomPath)
		logImport(logger, o.roomPath, res)
		if err := res.Err(); err != nil {
			return model.Project{}, fmt.Errorf("import room %s: %w", o.roomPath, err)
		}
		p.Room = res.Room
		if o.projectPath == "" && !o.demo {
			p.Name = strings.TrimSuffix(filepath.Base(o.roomPath), filepath.Ext(o.roomPath))
		}
	}
	if o.pipesPath != "" {
		res := importer.ImportPipes(o.pipesPath)
		logImport(logger, o.pipesPath, res)
		if err := res.Err(); err != nil {
			return model.Project{}, fmt.Errorf("import pipes %s: %w", o.pipesPath, err)
		}
		p.Pipes = res.Pipes
	}

	if len(p.Room) == 0 {
		return model.Project{}, errors.New("no room given: use --room, --project or --demo")
	}
	if len(p.Pipes) == 0 {
		return model.Project{}, errors.New("no pipes given: use --pipes, --project or --demo")
	}

	flags := cmd.Flags()
	overrides := []struct {
		name   string
		value  float64
		target *float64
	}{
		{flagClearance, o.wallClearance, &p.Settings.WallClearance},
		{flagSpacing, o.sprinklerSpacing, &p.Settings.SprinklerSpacing},
		{flagCeiling, o.ceilingHeight, &p.Settings.CeilingHeight},
		{flagRadius, o.coverageRadius, &p.Settings.MinimumCoverageRadius},
		{flagMaxConnection, o.maxConnection, &p.Settings.MaximumConnectionDistance},
	}
	for _, ov := range overrides {
		if flags.Changed(ov.name) {
			*ov.target = ov.value
		}
	}

	if o.strategy != "" {
		s, err := model.ParseStrategy(o.strategy)
		if err != nil {
			return model.Project{}, err
		}
		p.Strategy = s
	}
	if p.Strategy == "" {
		p.Strategy = model.StrategyGrid
	}

	return p, nil
}

func logImport(logger *log.Logger, path string, res importer.ImportResult) {
	for _, w := range res.Warnings {
		logger.Warn(w, "file", path)
	}
	logger.Debug("Imported", "file", path, "corners", len(res.Room), "pipes", len(res.Pipes), "errors", len(res.Errors))
}
