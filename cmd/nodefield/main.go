package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/nodefield/internal/config"
	"github.com/san-kum/nodefield/internal/field"
	"github.com/san-kum/nodefield/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64
	logLevel   string
	logJSON    bool

	// live / gui
	frameRate int
	cellPx    float64
	theme     string

	// snapshot / record / bench
	width      float64
	height     float64
	ticks      int
	format     string
	outPath    string
	background string
	realtime   bool

	// sweep
	distances   []float64
	areas       []float64
	seeds       int
	targetLinks float64
	workers     int
)

// main registers the nodefield commands and runs the terminal view when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "nodefield",
		Short: "animated particle network background",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory (default from config)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	addViewFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the field in the terminal",
		RunE:  runLive,
	}
	addViewFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate the field in a window",
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate")
	guiCmd.Flags().Float64Var(&width, "width", 0, "window width")
	guiCmd.Flags().Float64Var(&height, "height", 0, "window height")
	guiCmd.Flags().StringVar(&background, "background", "#05070a", "background color")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to an image",
		RunE:  runSnapshot,
	}
	addSizeFlags(snapshotCmd)
	snapshotCmd.Flags().StringVar(&format, "format", "", "output format (png, svg)")
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default nodefield.<format>)")
	snapshotCmd.Flags().StringVar(&background, "background", "#05070a", "background color, empty for transparent")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run the field headless and store frame statistics",
		RunE:  runRecord,
	}
	addSizeFlags(recordCmd)
	recordCmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames with the wall clock")
	recordCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time frames at the configured size",
		RunE:  benchField,
	}
	addSizeFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "search link distance and density for a target link count",
		RunE:  runSweep,
	}
	addSizeFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&distances, "distances", []float64{150, 200, 250, 300, 350}, "link distances to try")
	sweepCmd.Flags().Float64SliceVar(&areas, "areas", []float64{6000, 10000, 16000}, "areas per particle to try")
	sweepCmd.Flags().IntVar(&seeds, "seeds", 3, "seeds per point")
	sweepCmd.Flags().Float64Var(&targetLinks, "target", 120, "target links per frame")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted viewport sequence and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective config to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, snapshotCmd, recordCmd, listCmd, plotCmd, benchCmd, sweepCmd, scenarioCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate")
	cmd.Flags().Float64Var(&cellPx, "cell", 0, "field units per braille dot")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&width, "width", 0, "surface width")
	cmd.Flags().Float64Var(&height, "height", 0, "surface height")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "frames to run")
}

func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if logJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// loadConfig resolves defaults, then --preset, then --config laid over the
// preset, then any flag set explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var base *config.Config
	if preset != "" {
		base = config.GetPreset(preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	cfg := base
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, base)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	if flags.Changed("cell") {
		cfg.View.CellPx = cellPx
	}
	if flags.Changed("theme") {
		cfg.View.Theme = theme
	}
	if flags.Changed("width") {
		cfg.Snapshot.Width = int(width)
	}
	if flags.Changed("height") {
		cfg.Snapshot.Height = int(height)
	}
	if flags.Changed("ticks") {
		cfg.Snapshot.Ticks = ticks
	}
	if flags.Changed("format") {
		cfg.Snapshot.Format = format
	}
	return cfg, nil
}

func newField(cfg *config.Config, obs ...field.Observer) (*field.Field, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	return field.New(params,
		field.WithSeed(cfg.Seed),
		field.WithLogger(slog.Default()),
		field.WithObserver(obs...),
	)
}
