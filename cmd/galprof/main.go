package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/galprof/internal/analysis"
	"github.com/san-kum/galprof/internal/config"
	"github.com/san-kum/galprof/internal/dynamics"
	"github.com/san-kum/galprof/internal/export"
	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/snapshot"
	"github.com/san-kum/galprof/internal/storage"
	"github.com/san-kum/galprof/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	paramFile  string
	seed       uint64
	outputDir  string

	noRecord bool

	name          string
	species       string
	kind          string
	filterKind    string
	filterValue   float64
	rmin          float64
	rmax          float64
	bins          int
	logBins       bool
	centreSpecies string

	profileName string
	format      string
	output      string
	logValues   bool
	plotWidth   int
	plotHeight  int
	theme       string
	extent      float64
	projWidth   int
	projHeight  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "galprof",
		Short:         "radial profiles and bulk kinematics of simulation particles",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for the run catalogue")
	pf.StringVarP(&configFile, "config", "c", "", "analysis config file (yaml)")
	pf.StringVarP(&preset, "preset", "p", "", "named analysis preset")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&paramFile, "param-file", "", "snapshot parameter file (defaults built in)")
	pf.Uint64Var(&seed, "seed", config.DefaultSeed, "random seed for the snapshot")
	pf.StringVar(&outputDir, "out", config.DefaultOutputDir, "output directory for profile text files")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an analysis config or preset against a snapshot",
		RunE:  runAnalysis,
	}
	runCmd.Flags().BoolVar(&noRecord, "no-record", false, "don't record the run in the catalogue")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "compute a single radial profile",
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVar(&name, "name", "", "profile name (default <species>_<kind>)")
	profileCmd.Flags().StringVar(&species, "species", "dark_matter", "particle species")
	profileCmd.Flags().StringVar(&kind, "kind", "density", "profile kind")
	profileCmd.Flags().StringVar(&filterKind, "filter", "", "particle filter, e.g. age_lt")
	profileCmd.Flags().Float64Var(&filterValue, "value", 0, "filter threshold")
	profileCmd.Flags().Float64Var(&rmin, "rmin", config.DefaultRMin, "inner radius")
	profileCmd.Flags().Float64Var(&rmax, "rmax", config.DefaultRMax, "outer radius")
	profileCmd.Flags().IntVar(&bins, "bins", config.DefaultBins, "number of bins")
	profileCmd.Flags().BoolVar(&logBins, "log", false, "bin uniformly in log10(radius)")
	profileCmd.Flags().StringVar(&centreSpecies, "centre", snapshot.DarkMatter.String(), "species whose centre of mass is the profile centre")
	profileCmd.Flags().BoolVar(&noRecord, "no-record", false, "don't record the profile in the catalogue")

	kinematicsCmd := &cobra.Command{
		Use:   "kinematics [species]",
		Short: "centre of mass, angular momentum and velocity dispersion of a species",
		Args:  cobra.ExactArgs(1),
		RunE:  runKinematics,
	}
	kinematicsCmd.Flags().StringVar(&filterKind, "filter", "", "particle filter, e.g. temperature_gt")
	kinematicsCmd.Flags().Float64Var(&filterValue, "value", 0, "filter threshold")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the profiles of a run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&profileName, "profile", "", "plot only this profile")
	plotCmd.Flags().BoolVar(&logValues, "log-values", false, "plot log10 of the values")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json, profile text files or svg charts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json, text, svg")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (json) or directory (text, svg)")
	exportCmd.Flags().StringVar(&profileName, "profile", "", "export only this profile")
	exportCmd.Flags().BoolVar(&logValues, "log-values", false, "svg: log10 value axis")
	exportCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "svg stroke color theme")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse the profiles of a run interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list analysis presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("available presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s %d profiles, %d kinematics\n", name, len(p.Profiles), len(p.Kinematics))
				for _, pc := range p.Profiles {
					fmt.Printf("    %-30s %s of %s\n", pc.Name, pc.Kind, pc.Species)
				}
			}
			return nil
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "describe the snapshot and project a species onto the x-y plane",
		RunE:  showSnapshot,
	}
	snapshotCmd.Flags().StringVar(&species, "species", "dark_matter", "species to project")
	snapshotCmd.Flags().Float64Var(&extent, "extent", 0, "half-width of the projection (default half the box)")
	snapshotCmd.Flags().IntVar(&projWidth, "width", 60, "projection width in cells")
	snapshotCmd.Flags().IntVar(&projHeight, "height", 30, "projection height in cells")

	rootCmd.AddCommand(runCmd, profileCmd, kinematicsCmd, listCmd, plotCmd, exportCmd, viewCmd, deleteCmd, presetsCmd, snapshotCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", category(err), err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration: config file, else preset,
// else defaults; then GALPROF_* variables; then explicitly set flags. It
// also installs the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", config.ErrInvalid, preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("param-file") {
		cfg.ParamFile = paramFile
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}

	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	st, err := storage.OpenDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	return st, nil
}

func runPipeline(ctx context.Context, cfg *config.Config) (*analysis.Report, error) {
	sim, err := snapshot.Open(cfg.ParamFile, cfg.Seed)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded snapshot", "particles", sim.Total(), "dims", geom.NDims, "seed", cfg.Seed)

	p := &analysis.Pipeline{Config: cfg, Simulation: sim}
	if !noRecord {
		st, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		p.Store = st
	}
	return p.Run(ctx)
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	if configFile == "" && preset == "" {
		preset = "demo"
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	report, err := runPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(report))
	return nil
}

func filterFlag() *config.FilterConfig {
	if filterKind == "" {
		return nil
	}
	return &config.FilterConfig{Kind: filterKind, Value: filterValue}
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pc := config.ProfileConfig{
		Name:    name,
		Species: species,
		Kind:    kind,
		Filter:  filterFlag(),
		RMin:    rmin,
		RMax:    rmax,
		Bins:    bins,
		Log:     logBins,
	}
	if pc.Name == "" {
		pc.Name = species + "_" + kind
	}
	cfg.Label = pc.Name
	cfg.Centre = config.CentreConfig{Species: centreSpecies}
	cfg.Profiles = []config.ProfileConfig{pc}
	cfg.Kinematics = nil

	report, err := runPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	res := report.Profiles[0]
	fmt.Printf("profile: %s\n", res.Path)
	fmt.Printf("particles: %d selected, %d binned\n", res.Selected, res.Profile.TotalCount())
	if report.RunID != "" {
		fmt.Printf("run: %s\n\n", report.RunID)
	} else {
		fmt.Println()
	}

	stored := report.Record().Profiles[0]
	fmt.Println(viz.Plot(viz.FromStored(stored), 80, 12, false))
	return nil
}

func runKinematics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	kc := config.KinematicsConfig{Name: args[0], Species: args[0], Filter: filterFlag()}
	cfg.Profiles = nil
	cfg.Kinematics = []config.KinematicsConfig{kc}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sim, err := snapshot.Open(cfg.ParamFile, cfg.Seed)
	if err != nil {
		return err
	}
	res, err := analysis.ComputeKinematics(sim, kc)
	if err != nil {
		return err
	}

	label := kc.Species
	if f := analysis.FilterLabel(kc.Filter); f != "" {
		label += ", " + f
	}
	fmt.Printf("[%s]\n", label)
	fmt.Printf(" particles: %d\n", res.Count)
	fmt.Printf(" centre of mass: %v\n", res.CentreOfMass)
	if res.HasAngularMomentum {
		fmt.Printf(" specific angular momentum vector: %v\n", res.AngularMomentum)
	} else {
		fmt.Printf(" specific angular momentum vector: %v\n", dynamics.ErrRequires3D)
	}
	fmt.Printf(" velocity dispersion: %g\n", res.Dispersion)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tDIMS\tPARTICLES\tSEED\tPROFILES\tKINEMATICS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dD\t%d\t%d\t%d\t%d\n",
			shortID(run.ID),
			run.Label,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Dims,
			run.Particles,
			run.Seed,
			run.NumProfiles,
			run.NumKinematics,
		)
	}

	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// loadRun opens the catalogue and loads the run named by args, or the latest
// run when args is empty.
func loadRun(cmd *cobra.Command, args []string) (*storage.Run, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if len(args) == 0 {
		return st.Latest(cmd.Context())
	}
	return st.LoadRun(cmd.Context(), args[0])
}

// selectProfiles returns the profiles of run, or just the one named by
// --profile.
func selectProfiles(run *storage.Run) ([]storage.Profile, error) {
	if profileName == "" {
		return run.Profiles, nil
	}
	for _, p := range run.Profiles {
		if p.Name == profileName {
			return []storage.Profile{p}, nil
		}
	}
	return nil, fmt.Errorf("%w: no profile %q in run %s", storage.ErrNotFound, profileName, run.ID)
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args)
	if err != nil {
		return err
	}
	profiles, err := selectProfiles(run)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", run.ID)
	fmt.Printf("label: %s\n", run.Label)
	fmt.Printf("profiles: %d\n\n", len(profiles))

	for _, p := range profiles {
		fmt.Println(viz.Plot(viz.FromStored(p), plotWidth, plotHeight, logValues))
		fmt.Println()
	}

	for _, k := range run.Kinematics {
		l := "undefined"
		if k.AngularMomentum != nil {
			l = fmt.Sprintf("%g", k.AngularMomentum)
		}
		fmt.Printf("[%s] n=%d com=%g L=%s sigma=%g\n", k.Name, k.Count, k.CentreOfMass, l, k.Dispersion)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		if output == "" {
			return export.WriteJSON(os.Stdout, run)
		}
		if err := export.ExportJSON(output, run); err != nil {
			return err
		}
		fmt.Printf("exported run %s to %s\n", run.ID, output)
		return nil
	case "text", "svg":
	default:
		return fmt.Errorf("%w: unknown export format %q (json, text, svg)", config.ErrInvalid, format)
	}

	profiles, err := selectProfiles(run)
	if err != nil {
		return err
	}
	dir := output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, p := range profiles {
		path := filepath.Join(dir, p.Name+"."+extension(format))
		if format == "text" {
			if err := export.ExportProfileText(path, p); err != nil {
				return err
			}
		} else {
			svg := export.ProfileToSVG(p, 640, 400, logValues, string(viz.GetTheme(theme).Primary))
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
		}
		fmt.Printf("exported %s to %s\n", p.Name, path)
	}
	return nil
}

func extension(format string) string {
	if format == "text" {
		return "txt"
	}
	return format
}

func viewRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args)
	if err != nil {
		return err
	}
	if len(run.Profiles) == 0 {
		return fmt.Errorf("run %s has no profiles to view", run.ID)
	}
	return viz.RunViewer(viz.FromRun(run), viz.GetTheme(theme))
}

func deleteRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted run %s\n", args[0])
	return nil
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sp, err := snapshot.ParseSpecies(species)
	if err != nil {
		return err
	}
	sim, err := snapshot.Open(cfg.ParamFile, cfg.Seed)
	if err != nil {
		return err
	}
	fmt.Println(sim)

	bodies := sim.Bodies(sp)
	positions := make([]geom.Coords, len(bodies))
	for i, b := range bodies {
		positions[i] = b.Position()
	}
	centre := dynamics.CentreOfMass[geom.Coords](bodies)

	half := extent
	if half <= 0 {
		half = sim.Params.Simulation.BoxSize / 2
	}
	canvas := viz.Projection(positions, centre, half, projWidth, projHeight, half/2)
	fmt.Printf("\n%s around its centre of mass %v (x-y, half-width %g)\n", sp, centre, half)
	fmt.Println(canvas.String())
	return nil
}
