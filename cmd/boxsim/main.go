package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/geom"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/stream"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/san-kum/boxsim/internal/watch"
)

var (
	dataDir  string
	addr     string
	envFile  string
	dt       float64
	duration float64
	seed     int64
	body     string
	axisName string
	outPath  string
	frameAt  float64
	watchCfg bool
	runs     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "boxsim",
		Short:        "axis-aligned box physics sandbox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(envFile); err != nil {
				return fmt.Errorf("load env: %w", err)
			}
			if !cmd.Flags().Changed("data") {
				dataDir = config.Getenv(config.EnvDataDir, dataDir)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boxsim", "data directory (env "+config.EnvDataDir+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file")

	runCmd := &cobra.Command{
		Use:   "run [preset|scene.yaml]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (overrides scene)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (overrides scene)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "jitter seed (overrides scene)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and settling analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position against velocity plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	for _, c := range []*cobra.Command{plotCmd, analyzeCmd, phaseCmd} {
		c.Flags().StringVar(&body, "body", "", "body name (default: first moving body)")
		c.Flags().StringVar(&axisName, "axis", "y", "axis: x, y or z")
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <run_id>.csv)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a frame or the phase portrait as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <run_id>.svg)")
	svgCmd.Flags().Float64Var(&frameAt, "at", -1, "time of the frame to draw, -1 for the last")
	svgCmd.Flags().StringVar(&body, "body", "", "draw this body's phase portrait instead of a frame")
	svgCmd.Flags().StringVar(&axisName, "axis", "y", "axis for --body: x, y or z")

	liveCmd := &cobra.Command{
		Use:   "live [preset|scene.yaml]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVarP(&watchCfg, "watch", "w", false, "reload when the scene file changes")

	serveCmd := &cobra.Command{
		Use:   "serve [preset|scene.yaml]",
		Short: "stream a scene over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (env "+config.EnvAddr+")")
	serveCmd.Flags().BoolVarP(&watchCfg, "watch", "w", false, "reload when the scene file changes")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tDT\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.4fs\t%.2fs\n", name, len(p.Bodies), p.Dt, p.Duration)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset|scene.yaml]",
		Short: "benchmark a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&runs, "parallel", 4, "scenes to run concurrently")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportCmd, exportCSVCmd,
		svgCmd, liveCmd, serveCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves a preset name or a scene file path. No argument means
// the default scene.
func loadConfig(args []string) (*config.Config, string, error) {
	if len(args) == 0 {
		return config.DefaultConfig(), "", nil
	}
	if p := config.GetPreset(args[0]); p != nil {
		return p, "", nil
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("%s is neither a preset (%s) nor a readable scene: %w",
			args[0], strings.Join(config.ListPresets(), ", "), err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	return cfg, args[0], nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simulator := sim.New()
	for _, m := range metrics.Default() {
		simulator.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}
	fmt.Printf("running %s (%d bodies)...\n", cfg.Name, sc.Len())
	start := time.Now()

	result, err := simulator.Run(ctx, sc, simCfg)
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}

	runID, saveErr := st.Save(storage.NewMetadata(cfg.Name, cfg.Seed, simCfg, result), result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)
	return err
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tBODIES\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Bodies),
			run.Steps,
		)
	}

	return w.Flush()
}

// loadSeries reads a run and picks the body and axis from the flags. Without
// --body the first body that moved is used.
func loadSeries(runID string) (*storage.RunMetadata, *sim.Result, string, geom.Axis, error) {
	st := storage.New(dataDir)
	meta, result, err := st.Result(runID)
	if err != nil {
		return nil, nil, "", 0, err
	}
	if len(result.Frames) == 0 {
		return nil, nil, "", 0, fmt.Errorf("run %s has no frames", runID)
	}

	axes, err := geom.ParseAxisSet(axisName)
	if err != nil || len(axes.Slice()) != 1 {
		return nil, nil, "", 0, fmt.Errorf("--axis must be one of x, y, z")
	}
	axis := axes.Slice()[0]

	name := body
	if name == "" {
		first, last := result.Frames[0], result.Frames[len(result.Frames)-1]
		for _, b := range first.Bodies {
			if end, ok := last.Body(b.Name); ok && end.Position != b.Position {
				name = b.Name
				break
			}
		}
		if name == "" {
			name = first.Bodies[0].Name
		}
	}
	if _, ok := result.Frames[0].Body(name); !ok {
		return nil, nil, "", 0, fmt.Errorf("run %s has no body %q (bodies: %s)", runID, name, strings.Join(meta.Bodies, ", "))
	}
	return meta, result, name, axis, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, name, axis, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(result.Frames))

	pos := result.Series(name, axis)
	fmt.Println(asciigraph.Plot(pos,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s %s position", name, axis)),
	))
	fmt.Println()

	vel := make([]float64, 0, len(result.Frames))
	for _, f := range result.Frames {
		if b, ok := f.Body(name); ok {
			vel = append(vel, b.Velocity[axis])
		}
	}
	fmt.Println(asciigraph.Plot(vel,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s %s velocity", name, axis)),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, name, axis, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("body: %s (%s)\n\n", name, axis)

	data := result.Series(name, axis)
	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		plotData := ps[:len(ps)/4]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if t, ok := analysis.SettleTime(result, name, 1e-3); ok {
		fmt.Printf("settled at: %.3f s\n", t)
	} else {
		fmt.Println("settled at: still moving")
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	_, result, name, axis, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(result, name, axis)
	fmt.Printf("phase portrait: %s %s (position → velocity ↑)\n\n", name, axis)
	fmt.Print(portrait.ASCII(80, 24))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := storage.New(dataDir).Result(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(outPath, *meta, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, result, err := storage.New(dataDir).Result(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = args[0] + ".csv"
	}
	if err := storage.ExportCSV(path, *meta, result); err != nil {
		return err
	}
	fmt.Printf("exported %d rows to %s\n", len(result.Frames), path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var svg string
	if body != "" {
		_, result, name, axis, err := loadSeries(args[0])
		if err != nil {
			return err
		}
		svg = export.TrajectoryToSVG(analysis.NewPhasePortrait(result, name, axis).Points, 800, 600, "#00ff00")
	} else {
		_, result, err := storage.New(dataDir).Result(args[0])
		if err != nil {
			return err
		}
		if len(result.Frames) == 0 {
			return fmt.Errorf("run %s has no frames", args[0])
		}
		frame := result.Frames[len(result.Frames)-1]
		if frameAt >= 0 {
			for _, f := range result.Frames {
				if f.Time > frameAt {
					break
				}
				frame = f
			}
		}
		svg = export.FrameToSVG(frame, 800, 600)
	}

	path := outPath
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// builder re-reads the scene file on every call so resets and reloads pick
// up edits. Presets always build the same scene.
func builder(args []string) func() (*scene.Scene, error) {
	return func() (*scene.Scene, error) {
		cfg, _, err := loadConfig(args)
		if err != nil {
			return nil, err
		}
		return cfg.Build()
	}
}

func sceneWatcher(path string) (*watch.Watcher, error) {
	if !watchCfg {
		return nil, nil
	}
	if path == "" {
		return nil, fmt.Errorf("--watch needs a scene file, not a preset")
	}
	return watch.New(path)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(args)
	if err != nil {
		return err
	}

	model, err := viz.NewModel(cfg.Name, cfg.Dt, builder(args))
	if err != nil {
		return err
	}

	w, err := sceneWatcher(path)
	if err != nil {
		return err
	}
	if w != nil {
		defer w.Close()
		model = model.WithWatcher(w)
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("addr") {
		addr = config.Getenv(config.EnvAddr, addr)
	}

	hub, err := stream.NewHub(cfg.Name, cfg.Dt, builder(args))
	if err != nil {
		return err
	}

	w, err := sceneWatcher(path)
	if err != nil {
		return err
	}
	if w != nil {
		defer w.Close()
		go func() {
			for changed := range w.Events {
				log.Printf("scene %s changed, reloading", changed)
				hub.Inbox <- stream.Reload{Name: cfg.Name, Build: builder(args)}
			}
		}()
	}

	return stream.Serve(addr, hub)
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}
	if runs < 1 {
		runs = 1
	}

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSCENES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range []float64{1.0, 5.0} {
		for _, step := range []float64{0.001, 0.01} {
			scenes := make([]*scene.Scene, runs)
			for i := range scenes {
				if scenes[i], err = cfg.Build(); err != nil {
					return err
				}
			}

			simCfg := sim.Config{Dt: step, Duration: dur}
			start := time.Now()
			results, err := sim.NewBatch(metrics.Default).Run(context.Background(), scenes, simCfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := 0
			for _, r := range results {
				steps += r.StepsTaken
			}
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%d\t%v\t%.0f\n",
				dur, step, runs, steps, elapsed, float64(steps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
