package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/mazega/config"
	"github.com/lixenwraith/mazega/maze"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	root := &cobra.Command{
		Use:   "mazega",
		Short: "Search maze routes with a genetic algorithm",
		Long: `mazega evolves fixed-length move sequences until one walks from the start
cell to the end cell of a grid maze, drawing the best route as it improves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newSolveCmd(ro),
		newGenerateCmd(),
		newPresetsCmd(),
	)
	return root
}

func (ro *rootOptions) level() (slog.Level, error) {
	return parseLevel(ro.logLevel)
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List run and maze presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Run presets:")
			fmt.Fprintf(out, "  %-8s uniform parents, distance fitness, no generation cap, transposed axes\n", config.PresetWindow)
			fmt.Fprintf(out, "  %-8s tournament-5 parents, step-count fitness, 100 generations\n", config.PresetConsole)

			fmt.Fprintln(out, "Maze presets:")
			for _, name := range maze.PresetNames() {
				m, err := maze.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %-8s %dx%d start %v end %v walls %d\n",
					name, m.Width(), m.Height(), m.Start(), m.End(), m.WallCount())
			}
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		cfg      maze.GeneratorConfig
		solution bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a generated maze as layout text",
		Long: `Generate builds a maze with a recursive backtracker and optional braiding.
The output can be saved and loaded again with "mazega solve --maze FILE".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := maze.Generate(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), maze.Format(g.Maze))
			if solution {
				if g.SolutionPath == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "no route from start to end")
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "shortest route: %d cells\n", len(g.SolutionPath))
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Width, "width", 21, "Maze width, rounded down to odd")
	f.IntVar(&cfg.Height, "height", 11, "Maze height, rounded down to odd")
	f.Float64Var(&cfg.Braiding, "braiding", 0.2, "Dead-end removal probability (0-1)")
	f.BoolVar(&cfg.OpenBorders, "open-borders", false, "Clear the outer wall ring")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (0 for random)")
	f.BoolVar(&solution, "solution", false, "Report the shortest route length on stderr")
	return cmd
}

// parseSize reads "WxH"
func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	return w, h, nil
}
