package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/mazega/audio"
	"github.com/lixenwraith/mazega/config"
	"github.com/lixenwraith/mazega/genetic"
	"github.com/lixenwraith/mazega/maze"
	"github.com/lixenwraith/mazega/metrics"
	"github.com/lixenwraith/mazega/parameter"
	"github.com/lixenwraith/mazega/render"
)

// Views
const (
	viewAuto    = "auto"
	viewScreen  = "screen"
	viewConsole = "console"
	viewNone    = "none"
)

type solveOptions struct {
	configPath string
	preset     string
	mazeSource string
	generate   string
	braiding   float64
	mazeSeed   uint64

	population    int
	mutation      float64
	selection     string
	tournament    int
	fitness       string
	generations   int
	seed          uint64
	parallel      int
	stopOnOptimum bool
	axes          string

	view        string
	every       int
	metricsAddr string
	sound       bool
}

func newSolveCmd(ro *rootOptions) *cobra.Command {
	o := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Evolve a route through a maze",
		Long: `Solve runs the genetic search on a maze and shows the best route as it evolves.

Settings come from the preset, then the run file (--config, TOML or YAML),
then any flag given on the command line.`,
		Example: `  mazega solve --preset console
  mazega solve --maze window --selection tournament --tournament 5
  mazega solve --generate 21x11 --braiding 0.3 --generations 500 --view console
  mazega solve --config run.toml --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, ro, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Run file (.toml, .yaml)")
	f.StringVar(&o.preset, "preset", "", "Run preset: window or console")
	f.StringVar(&o.mazeSource, "maze", "", "Maze preset name or layout file")
	f.StringVar(&o.generate, "generate", "", "Generate a WxH maze")
	f.Float64Var(&o.braiding, "braiding", 0.2, "Dead-end removal for --generate (0-1)")
	f.Uint64Var(&o.mazeSeed, "maze-seed", 0, "Seed for --generate (0 for random)")

	f.IntVar(&o.population, "population", parameter.GAPopulationSize, "Population size")
	f.Float64Var(&o.mutation, "mutation", parameter.GAMutationRate, "Per-gene mutation rate (0-1)")
	f.StringVar(&o.selection, "selection", "tournament", "Parent selection: uniform or tournament")
	f.IntVar(&o.tournament, "tournament", parameter.GATournamentSize, "Tournament size")
	f.StringVar(&o.fitness, "fitness", "distance", "Fitness policy: distance or steps")
	f.IntVar(&o.generations, "generations", parameter.GAMaxGenerations, "Generation cap (0 for none)")
	f.Uint64Var(&o.seed, "seed", 0, "Engine seed (0 for random)")
	f.IntVar(&o.parallel, "parallel", parameter.GAParallelism, "Concurrent evaluations")
	f.BoolVar(&o.stopOnOptimum, "stop-on-optimum", true, "Converge when the best score reaches the optimum")
	f.StringVar(&o.axes, "axes", "compass", "Move axes: compass or transposed")

	f.StringVar(&o.view, "view", viewAuto, "Output: auto, screen, console or none")
	f.IntVar(&o.every, "every", 1, "Console view prints every n-th generation")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	f.BoolVar(&o.sound, "sound", false, "Play audio cues")
	return cmd
}

// runFile merges the run file with the flags that were set
func (o *solveOptions) runFile(cmd *cobra.Command) (config.File, error) {
	var file config.File
	if o.configPath != "" {
		var err error
		if file, err = config.Load(o.configPath); err != nil {
			return file, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("preset") {
		file.Preset = o.preset
	}

	e := &file.Engine
	if changed("population") {
		e.PopulationSize = &o.population
	}
	if changed("mutation") {
		e.MutationRate = &o.mutation
	}
	if changed("selection") {
		e.Selection = &o.selection
	}
	if changed("tournament") {
		e.TournamentSize = &o.tournament
	}
	if changed("fitness") {
		e.Fitness = &o.fitness
	}
	if changed("generations") {
		e.MaxGenerations = &o.generations
	}
	if changed("seed") {
		e.Seed = &o.seed
	}
	if changed("parallel") {
		e.Parallelism = &o.parallel
	}
	if changed("stop-on-optimum") {
		e.StopOnOptimum = &o.stopOnOptimum
	}
	if changed("axes") {
		e.Axes = &o.axes
	}

	switch {
	case changed("maze") && changed("generate"):
		return file, fmt.Errorf("%w: --maze and --generate are exclusive", config.ErrInvalid)
	case changed("maze"):
		if isMazePreset(o.mazeSource) {
			file.Maze = config.Maze{Preset: o.mazeSource}
		} else {
			file.Maze = config.Maze{File: o.mazeSource}
		}
	case changed("generate"):
		w, h, err := parseSize(o.generate)
		if err != nil {
			return file, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		file.Maze = config.Maze{Generate: &config.Generate{
			Width:    w,
			Height:   h,
			Braiding: o.braiding,
			Seed:     o.mazeSeed,
		}}
	}

	return file, file.Validate()
}

func isMazePreset(name string) bool {
	for _, p := range maze.PresetNames() {
		if p == name {
			return true
		}
	}
	return false
}

// resolveView turns auto into screen on a terminal and console otherwise
func (o *solveOptions) resolveView(out io.Writer) (string, error) {
	switch o.view {
	case viewScreen, viewConsole, viewNone:
		return o.view, nil
	case viewAuto:
		if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return viewScreen, nil
		}
		return viewConsole, nil
	default:
		return "", fmt.Errorf("unknown view %q", o.view)
	}
}

func runSolve(cmd *cobra.Command, ro *rootOptions, o *solveOptions) error {
	level, err := ro.level()
	if err != nil {
		return err
	}
	view, err := o.resolveView(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	file, err := o.runFile(cmd)
	if err != nil {
		return err
	}
	cfg, err := file.EngineConfig()
	if err != nil {
		return err
	}
	m, err := file.BuildMaze()
	if err != nil {
		return err
	}

	logger, closer, err := setupLogging(level, view == viewScreen, parameter.LogDir, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []genetic.Option{genetic.WithLogger(logger)}

	if o.metricsAddr != "" {
		shutdown, err := serveMetrics(o.metricsAddr, logger, &opts)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	if o.sound {
		cues := audio.NewCues()
		if err := cues.Initialize(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			defer cues.Cleanup()
			opts = append(opts, genetic.WithObserver(cues))
		}
	}

	switch view {
	case viewScreen:
		return solveOnScreen(ctx, cmd.OutOrStdout(), m, cfg, opts)
	case viewConsole:
		console := render.NewConsole(cmd.OutOrStdout(), render.WithEvery(o.every))
		opts = append(opts, genetic.WithObserver(console))
		_, err := runEngine(ctx, m, cfg, opts)
		return err
	default:
		res, err := runEngine(ctx, m, cfg, opts)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), m, res)
		return nil
	}
}

// runEngine runs to completion; an interrupt is a normal way to end a run
func runEngine(ctx context.Context, m *maze.Maze, cfg genetic.Config, opts []genetic.Option) (genetic.Result, error) {
	e, err := genetic.NewEngine(m, cfg, opts...)
	if err != nil {
		return genetic.Result{}, err
	}
	res, err := e.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return res, err
}

func solveOnScreen(ctx context.Context, out io.Writer, m *maze.Maze, cfg genetic.Config, opts []genetic.Option) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	// Restore the terminal before a panic prints
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			panic(r)
		}
	}()

	quit := make(chan struct{})
	var e *genetic.Engine
	renderer := render.NewTerminalRenderer(screen, parameter.RenderFrameRate, func() {
		e.Stop()
		close(quit)
	})
	opts = append(opts, genetic.WithObserver(renderer))

	e, err = genetic.NewEngine(m, cfg, opts...)
	if err != nil {
		screen.Fini()
		return err
	}

	uiCtx, cancelUI := context.WithCancel(ctx)
	uiDone := make(chan struct{})
	go func() {
		renderer.Run(uiCtx)
		close(uiDone)
	}()

	if err := e.Start(ctx); err != nil {
		cancelUI()
		<-uiDone
		screen.Fini()
		return err
	}
	res := e.Wait()

	// Keep the final frame up until the user leaves
	select {
	case <-quit:
	case <-ctx.Done():
	}
	cancelUI()
	<-uiDone
	screen.Fini()

	printResult(out, m, res)
	return nil
}

func printResult(out io.Writer, m *maze.Maze, res genetic.Result) {
	if !res.HasBest {
		fmt.Fprintf(out, "%s before the first generation\n", res.State)
		return
	}
	fmt.Fprint(out, render.FormatOverlay(m, res.Route.Cells))

	outcome := "end not reached"
	if res.Route.Reached {
		outcome = "end reached"
	}
	fmt.Fprintf(out, "%s (%s) after generation %d in %s: best %.4f from generation %d, %s\n",
		res.State, res.Reason, res.Generation, res.Elapsed.Round(time.Millisecond), res.Best.Score, res.Best.Generation, outcome)
	fmt.Fprintf(out, "moves %s\n", res.Best.Path)
}

// serveMetrics registers an observer on a private registry and serves it over HTTP
func serveMetrics(addr string, logger *slog.Logger, opts *[]genetic.Option) (func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	mx, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	*opts = append(*opts, genetic.WithObserver(mx))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: parameter.MetricsReadHeaderTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), parameter.MetricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", "error", err)
		}
	}, nil
}
