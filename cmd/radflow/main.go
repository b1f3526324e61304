package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mkarlsen/radflow/internal/config"
	"github.com/mkarlsen/radflow/internal/export"
	"github.com/mkarlsen/radflow/internal/metrics"
	"github.com/mkarlsen/radflow/internal/store"
	"github.com/mkarlsen/radflow/internal/sweep"
	"github.com/mkarlsen/radflow/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	steps      int
	dt         float64
	inflow     float64
	angle      float64
	angleList  string
	parallel   bool
	svgField   string
	svgOut     string
	svgScale   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "radflow",
		Short: "2d airflow simulation for radiator placement",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".radflow", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario to completion",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = scenario default)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (0 = scenario default)")
	runCmd.Flags().Float64Var(&inflow, "inflow", 0, "inflow speed override, m/s")
	runCmd.Flags().Float64Var(&angle, "angle", 0, "radiator angle override, degrees")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep the radiator over a range of angles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	sweepCmd.Flags().IntVar(&steps, "steps", 0, "steps per angle (0 = scenario default)")
	sweepCmd.Flags().StringVar(&angleList, "angles", "", "comma separated angles, degrees")
	sweepCmd.Flags().BoolVar(&parallel, "parallel", false, "run angles concurrently")
	sweepCmd.Flags().StringVar(&svgOut, "svg", "", "write efficiency curve to SVG file")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().Float64Var(&angle, "angle", 0, "radiator angle override, degrees")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print stored run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run's fields as an SVG heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgField, "field", "smoke", "field to render: smoke, pressure or speed")
	exportCmd.Flags().StringVar(&svgOut, "out", "heatmap.svg", "output file")
	exportCmd.Flags().Float64Var(&svgScale, "scale", 4, "pixels per cell")

	rootCmd.AddCommand(runCmd, sweepCmd, liveCmd, presetsCmd, listCmd, showCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from a preset name and/or a
// config file, then applies the shared flag overrides.
func loadScenario(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	name := "tunnel"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, err
		}
		cfg = loaded
		if len(args) == 0 {
			name = strings.TrimSuffix(configFile, ".yaml")
		}
	} else {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown preset %q (available: %v)", name, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("steps") {
		cfg.Step.Steps = steps
	}
	if cmd.Flags().Changed("dt") {
		cfg.Step.Dt = dt
	}
	if cmd.Flags().Changed("inflow") {
		cfg.Flow.InflowSpeed = inflow
	}
	if cmd.Flags().Changed("angle") {
		if cfg.Radiator == nil {
			return "", nil, fmt.Errorf("scenario %q has no radiator to rotate", name)
		}
		cfg.Radiator.AngleDeg = angle
	}
	return name, cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	sol, err := cfg.BuildSolver()
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	n := cfg.Step.Steps
	log.WithFields(log.Fields{"scenario": name, "steps": n}).Info("simulation start")
	start := time.Now()

	for i := 0; i < n; i++ {
		diag := sol.Step(cfg.Step.Dt)
		if (i+1)%100 == 0 {
			log.WithFields(log.Fields{
				"step":       i + 1,
				"divergence": diag.MaxDivergence,
				"iterations": diag.Iterations,
			}).Debug("step")
		}
	}
	elapsed := time.Since(start)

	var rec metrics.Record
	if cfg.Radiator != nil {
		rec = metrics.Compute(sol, cfg.BuildRadiator(), metrics.Axial(cfg.Flow.InflowSpeed))
	}

	runID, err := st.Save(name, cfg, sol.Snapshot(), rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d steps in %v\n", n, elapsed)
	fmt.Printf("run id: %s\n", runID)

	if cfg.Radiator != nil {
		fmt.Println()
		printRecords([]metrics.Record{rec})
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Radiator == nil {
		return fmt.Errorf("scenario %q has no radiator to sweep", name)
	}

	sw := sweep.New(cfg)
	sw.Parallel = parallel
	if cmd.Flags().Changed("steps") {
		sw.StepsPerAngle = steps
	}
	if angleList != "" {
		sw.Angles, err = parseAngles(angleList)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(log.Fields{
		"scenario": name,
		"angles":   len(sw.Angles),
		"parallel": sw.Parallel,
	}).Info("sweep start")
	start := time.Now()

	records, err := sw.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("swept %d angles in %v\n\n", len(records), time.Since(start))

	printRecords(records)

	efficiencies := make([]float64, len(records))
	for i, rec := range records {
		efficiencies[i] = rec.CoolingEfficiency
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(efficiencies,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("cooling efficiency vs angle index")))

	best, score := sweep.Best(records)
	fmt.Printf("\nbest angle: %.1f deg (score %.4f)\n", best.AngleDeg, score)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveSweep(name, cfg, records)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	if svgOut != "" {
		if err := export.WriteSweepCurveSVG(svgOut, records, 640, 400); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(name, cfg)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tANGLE\tMASS FLOW\tDP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.3f\t%.1f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Record.AngleDeg,
			run.Record.MassFlowRate,
			run.Record.PressureDrop,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	snap, err := st.LoadFields(args[0])
	if err != nil {
		return err
	}

	var quantity export.Quantity
	switch svgField {
	case "smoke":
		quantity = export.QuantitySmoke
	case "pressure":
		quantity = export.QuantityPressure
	case "speed":
		quantity = export.QuantitySpeed
	default:
		return fmt.Errorf("unknown field %q", svgField)
	}

	if err := export.WriteHeatmapSVG(svgOut, snap, quantity, svgScale); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func printRecords(records []metrics.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tMASS FLOW\tDP\tV IN\tV OUT\tDRAG\tLIFT\tEFF\tFAN W")
	for _, r := range records {
		fmt.Fprintf(w, "%.1f\t%.3f\t%.1f\t%.2f\t%.2f\t%.2f\t%.2f\t%.3f\t%.1f\n",
			r.AngleDeg,
			r.MassFlowRate,
			r.PressureDrop,
			r.InletSpeed,
			r.OutletSpeed,
			r.DragForce,
			r.LiftForce,
			r.CoolingEfficiency,
			r.FanPowerRequired,
		)
	}
	w.Flush()
}

func parseAngles(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	angles := make([]float64, 0, len(parts))
	for _, part := range parts {
		a, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad angle %q", part)
		}
		angles = append(angles, a)
	}
	return angles, nil
}
