package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rotorsim/internal/bemt"
	"github.com/san-kum/rotorsim/internal/config"
	"github.com/san-kum/rotorsim/internal/optim"
	"github.com/san-kum/rotorsim/internal/report"
)

var (
	logLevel   string
	configFile string
	preset     string
	stations   int
	jsonOut    bool
	// perf
	rpm        float64
	pitch      float64
	perElement bool
	// map
	rpmMin, rpmMax     float64
	rpmSteps           int
	pitchMin, pitchMax float64
	pitchSteps         int
	workers            int
	minThrust          float64

	log = logrus.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rotorsim",
		Short:         "hover performance of helically twisted rotors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	perfCmd := &cobra.Command{
		Use:   "perf",
		Short: "solve one operating point",
		Args:  cobra.NoArgs,
		RunE:  runPerf,
	}
	addRotorFlags(perfCmd)
	perfCmd.Flags().Float64Var(&rpm, "rpm", 0, "rotor speed (default: design rpm)")
	perfCmd.Flags().Float64Var(&pitch, "pitch", 5, "collective pitch, degrees")
	perfCmd.Flags().BoolVar(&perElement, "elements", false, "print per-station breakdown")

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "sweep rpm and collective pitch",
		Args:  cobra.NoArgs,
		RunE:  runMap,
	}
	addRotorFlags(mapCmd)
	mapCmd.Flags().Float64Var(&rpmMin, "rpm-min", optim.DefaultRPMRange.Min, "lowest rpm")
	mapCmd.Flags().Float64Var(&rpmMax, "rpm-max", optim.DefaultRPMRange.Max, "highest rpm")
	mapCmd.Flags().IntVar(&rpmSteps, "rpm-steps", optim.DefaultRPMRange.Steps, "rpm samples")
	mapCmd.Flags().Float64Var(&pitchMin, "pitch-min", optim.DefaultCollectiveRange.Min, "lowest collective, degrees")
	mapCmd.Flags().Float64Var(&pitchMax, "pitch-max", optim.DefaultCollectiveRange.Max, "highest collective, degrees")
	mapCmd.Flags().IntVar(&pitchSteps, "pitch-steps", optim.DefaultCollectiveRange.Steps, "collective samples")
	mapCmd.Flags().IntVar(&workers, "workers", 0, "concurrent solves (default: GOMAXPROCS)")
	mapCmd.Flags().Float64Var(&minThrust, "min-thrust", 0, "also report the best point producing at least this thrust, N")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list rotor presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from preset")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(perfCmd, mapCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}

func addRotorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&stations, "stations", 0, "blade elements (default: from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write json")
}

// loadConfig starts from the preset, if any, and overlays the config file
// on it. Flags override both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("stations") {
		cfg.Solver.Stations = stations
	}
	return cfg, nil
}

func newSolver(cfg *config.Config) (*bemt.Solver, error) {
	geom, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	opts := cfg.SolverOptions()
	opts.Logger = log
	return bemt.New(geom, opts)
}

func runPerf(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}

	speed := rpm
	if !cmd.Flags().Changed("rpm") {
		speed = solver.Geometry().DesignRPM()
	}

	res, err := solver.Compute(cmd.Context(), speed, pitch)
	if err != nil {
		return err
	}

	if jsonOut {
		if !perElement {
			res.Elements = nil
		}
		return report.JSON(os.Stdout, res)
	}
	return report.Performance(os.Stdout, res, perElement)
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}

	rpmRange, collRange := cfg.Ranges()
	flags := cmd.Flags()
	if flags.Changed("rpm-min") {
		rpmRange.Min = rpmMin
	}
	if flags.Changed("rpm-max") {
		rpmRange.Max = rpmMax
	}
	if flags.Changed("rpm-steps") {
		rpmRange.Steps = rpmSteps
	}
	if flags.Changed("pitch-min") {
		collRange.Min = pitchMin
	}
	if flags.Changed("pitch-max") {
		collRange.Max = pitchMax
	}
	if flags.Changed("pitch-steps") {
		collRange.Steps = pitchSteps
	}
	n := cfg.Map.Workers
	if flags.Changed("workers") {
		n = workers
	}

	pm, err := optim.NewMapper(solver, n).Map(cmd.Context(), rpmRange, collRange)
	if err != nil {
		return err
	}

	if jsonOut {
		return report.MapJSON(os.Stdout, pm)
	}
	if err := report.Map(os.Stdout, pm); err != nil {
		return err
	}
	fmt.Println()
	report.Point(os.Stdout, "best", pm.Best)
	if flags.Changed("min-thrust") {
		p, ok := pm.Search(optim.MinThrust(minThrust), optim.ConvergedOnly())
		if !ok {
			fmt.Printf("no converged point produces %.2f N\n", minThrust)
			return nil
		}
		report.Point(os.Stdout, fmt.Sprintf("best ≥ %.2f N", minThrust), p)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRADIUS\tINNER\tPITCH\tBLADES\tDESIGN RPM")
	for _, name := range config.ListPresets() {
		r := config.GetPreset(name).Rotor
		fmt.Fprintf(w, "%s\t%.3f m\t%.3f m\t%.3f m\t%d\t%.0f\n",
			name, r.Radius, r.InnerRadius, r.Pitch, r.Blades, r.DesignRPM)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
