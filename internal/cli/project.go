package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SprinklerLayout/internal/project"
)

// maxRecentProjects bounds the recent project list in the configuration.
const maxRecentProjects = 10

func newProjectCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage project files",
	}
	cmd.AddCommand(newProjectSaveCmd(root))
	cmd.AddCommand(newProjectRecentCmd(root))
	return cmd
}

func newProjectSaveCmd(root *rootOptions) *cobra.Command {
	var (
		inputs inputOptions
		name   string
	)

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Save room, pipes, settings and strategy as a project file",
		Example: `  sprinklerlayout project save office.sprinkler.json --room room.csv --pipes pipes.csv --spacing 3000
  sprinklerlayout project save demo.sprinkler.json --demo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			path := args[0]
			if !strings.HasSuffix(path, ".json") {
				path += project.Extension
			}

			p, err := inputs.load(cmd, root.config, logger)
			if err != nil {
				return err
			}
			if name != "" {
				p.Name = name
			}
			if err := p.Settings.Validate(); err != nil {
				return err
			}

			if err := project.SaveProject(path, p); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved project %q to %s", p.Name, path)

			root.config.AddRecentProject(path, maxRecentProjects)
			if err := project.SaveAppConfig(root.configPath, root.config); err != nil {
				logger.Warn("Could not update recent projects", "err", err)
			}
			return nil
		},
	}

	addInputFlags(cmd, &inputs)
	cmd.Flags().StringVar(&name, "name", "", "project name (default: room file name)")
	return cmd
}

func newProjectRecentCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently saved projects",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(root.config.RecentProjects) == 0 {
				printInfo(out, "No recent projects")
				return
			}
			for i, p := range root.config.RecentProjects {
				fmt.Fprintf(out, "%s %s\n", StyleNumber.Render(fmt.Sprintf("%2d.", i+1)), p)
			}
		},
	}
}
