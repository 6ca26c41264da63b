package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/uniconv/internal/config"
	"github.com/san-kum/uniconv/internal/convergence"
	"github.com/san-kum/uniconv/internal/export"
	"github.com/san-kum/uniconv/internal/logging"
	"github.com/san-kum/uniconv/internal/metrics"
	"github.com/san-kum/uniconv/internal/pointcloud"
	"github.com/san-kum/uniconv/internal/report"
	"github.com/san-kum/uniconv/internal/sequences"
	"github.com/san-kum/uniconv/internal/storage"
	"github.com/san-kum/uniconv/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	metricsAddr string
	showMetrics bool
	// domain and search
	start    float64
	end      float64
	points   int
	epsilon  float64
	maxN     int
	strategy string
	// sources
	configFile string
	preset     string
	// per-command
	index   int
	samples int
	workers int
	noSave  bool
	showAll bool
	svgOut  string

	logger   *slog.Logger
	registry = prometheus.NewRegistry()
	recorder *metrics.Recorder
)

// main registers commands and flags and executes the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "uniconv",
		Short:         "uniform convergence and boundedness checks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(level)

			recorder, err = metrics.New(registry)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if showMetrics {
				printMetrics()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".uniconv", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print collected metrics on exit")

	checkCmd := &cobra.Command{
		Use:   "check [sequence]",
		Short: "search for the smallest N with sup-norm below epsilon",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	addRunFlags(checkCmd)
	checkCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	checkCmd.Flags().BoolVar(&showAll, "trace", false, "print every probe")

	supnormCmd := &cobra.Command{
		Use:   "supnorm [sequence]",
		Short: "sup-norm distance at a single index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSupNorm,
	}
	addRunFlags(supnormCmd)
	supnormCmd.Flags().IntVar(&index, "n", 1, "sequence index")

	profileCmd := &cobra.Command{
		Use:   "profile [sequence]",
		Short: "plot sup-norm against n and test the monotone precondition",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProfile,
	}
	addRunFlags(profileCmd)
	profileCmd.Flags().IntVar(&samples, "samples", 40, "number of sampled indices")
	profileCmd.Flags().IntVar(&workers, "workers", 4, "parallel workers")
	profileCmd.Flags().StringVar(&svgOut, "svg", "", "also write the profile chart to this svg file")

	compactCmd := &cobra.Command{
		Use:   "compact [file]",
		Short: "boundedness check of a point cloud (csv, json, yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompact,
	}
	compactCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	benchCmd := &cobra.Command{
		Use:   "bench [sequence]",
		Short: "time checks across grid sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	addRunFlags(benchCmd)

	sequencesCmd := &cobra.Command{
		Use:   "sequences",
		Short: "list built-in sequences",
		RunE:  listSequences,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [sequence]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the probe distances of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the probe chart of a stored run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default <run_id>.svg)")

	stepCmd := &cobra.Command{
		Use:   "step [run_id]",
		Short: "step through the search of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  stepRun,
	}

	rootCmd.AddCommand(checkCmd, supnormCmd, profileCmd, compactCmd, benchCmd, sequencesCmd,
		presetsCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportSVGCmd, stepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&start, "start", config.DefaultStart, "domain start")
	cmd.Flags().Float64Var(&end, "end", config.DefaultEnd, "domain end")
	cmd.Flags().IntVar(&points, "points", convergence.DefaultPoints, "number of domain points")
	cmd.Flags().Float64Var(&epsilon, "epsilon", convergence.DefaultEpsilon, "convergence tolerance")
	cmd.Flags().IntVar(&maxN, "max-n", convergence.DefaultMaxN, "largest index to search")
	cmd.Flags().StringVar(&strategy, "strategy", string(convergence.StrategyBisect), "search strategy (bisect, linear)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolve builds the run configuration. Sources apply in order: defaults
// and the sequence's own interval, preset, config file, explicit flags.
func resolve(cmd *cobra.Command, args []string) (*config.Config, sequences.Entry, error) {
	cfg := config.DefaultConfig()

	var fileCfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, sequences.Entry{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = loaded
		cfg.Sequence = loaded.Sequence
	}
	if len(args) > 0 {
		cfg.Sequence = args[0]
	}

	entry, err := sequences.NewRegistry().Get(cfg.Sequence)
	if err != nil {
		return nil, sequences.Entry{}, err
	}
	cfg.Domain.Start, cfg.Domain.End = entry.Start, entry.End

	if preset != "" {
		p := config.GetPreset(cfg.Sequence, preset)
		if p == nil {
			return nil, sequences.Entry{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Sequence))
		}
		cfg.Domain = p.Domain
		cfg.Search = p.Search
	}

	// a file written for another sequence still supplies search settings,
	// but its domain belongs to that sequence
	if fileCfg != nil {
		if fileCfg.Sequence == cfg.Sequence {
			cfg.Domain = fileCfg.Domain
		}
		cfg.Search = fileCfg.Search
		cfg.PointsFile = fileCfg.PointsFile
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Domain.Start = start
	}
	if flags.Changed("end") {
		cfg.Domain.End = end
	}
	if flags.Changed("points") {
		cfg.Domain.Points = points
	}
	if flags.Changed("epsilon") {
		cfg.Search.Epsilon = epsilon
	}
	if flags.Changed("max-n") {
		cfg.Search.MaxN = maxN
	}
	if flags.Changed("strategy") {
		cfg.Search.Strategy = strategy
	}

	if err := cfg.Validate(); err != nil {
		return nil, sequences.Entry{}, err
	}
	return cfg, entry, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, entry, err := resolve(cmd, args)
	if err != nil {
		return err
	}

	a, err := cfg.NewAnalyzer()
	if err != nil {
		return err
	}
	search := cfg.SearchConfig()

	if search.Strategy == convergence.StrategyBisect && !entry.Monotone {
		logger.Warn("sequence is not known to be monotone; bisect result depends on the probe path",
			"sequence", entry.Name)
	}
	logger.Info("check started", "sequence", entry.Name, "points", a.Len(),
		"epsilon", search.Epsilon, "max_n", search.MaxN, "strategy", search.Strategy)

	var res convergence.Result
	var checkErr error
	elapsed := convergence.Benchmark(func() {
		res, checkErr = a.CheckUniform(recorder.Sequence(entry.Sequence), recorder.Limit(entry.Limit), search)
	})
	if checkErr != nil {
		return checkErr
	}
	recorder.Observe(res, time.Duration(elapsed))
	logger.Info("check finished", "converged", res.Converged, "n", res.N,
		"probes", res.Probes, "elapsed", time.Duration(elapsed))

	fmt.Println(report.Summary(entry.Name, res))
	if showAll {
		fmt.Println()
		if err := report.TraceTable(os.Stdout, res); err != nil {
			return err
		}
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInput{
		Sequence: entry.Name,
		Start:    cfg.Domain.Start,
		End:      cfg.Domain.End,
		Points:   cfg.Domain.Points,
	}, res, elapsed)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runSupNorm(cmd *cobra.Command, args []string) error {
	cfg, entry, err := resolve(cmd, args)
	if err != nil {
		return err
	}
	if index < 1 {
		return fmt.Errorf("%w: n must be at least 1", convergence.ErrInvalidArgument)
	}

	a, err := cfg.NewAnalyzer()
	if err != nil {
		return err
	}

	d, err := a.SupNorm(recorder.Sequence(entry.Sequence), recorder.Limit(entry.Limit), index)
	if err != nil {
		return err
	}

	below := d < cfg.Search.Epsilon
	fmt.Printf("%s n=%d sup-norm=%.12g (eps=%g, below=%t)\n", entry.Name, index, d, cfg.Search.Epsilon, below)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, entry, err := resolve(cmd, args)
	if err != nil {
		return err
	}

	a, err := cfg.NewAnalyzer()
	if err != nil {
		return err
	}

	ns := convergence.SampleIndices(cfg.Search.MaxN, samples)
	logger.Debug("profiling", "sequence", entry.Name, "indices", len(ns), "workers", workers)

	profile, err := a.Profile(recorder.Sequence(entry.Sequence), recorder.Limit(entry.Limit), ns, workers)
	if err != nil {
		return err
	}

	fmt.Println(report.ProfilePlot(profile))
	fmt.Println()
	fmt.Println(report.MonotoneSummary(convergence.MonotoneFromProfile(profile)))

	if svgOut != "" {
		if err := writeSVG(svgOut, export.ProfilePoints(profile), cfg.Search.Epsilon); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func runCompact(cmd *cobra.Command, args []string) error {
	var path string
	switch {
	case len(args) > 0:
		path = args[0]
	case configFile != "":
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.PointsFile
	}
	if path == "" {
		return errors.New("no point file given")
	}

	pts, err := pointcloud.Load(path)
	if err != nil {
		return err
	}

	res, err := convergence.Compactness(pts)
	if err != nil {
		return err
	}
	logger.Info("compactness checked", "file", path, "points", res.Points, "bounded", res.Bounded)

	fmt.Println(report.CompactnessSummary(path, res))
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, entry, err := resolve(cmd, args)
	if err != nil {
		return err
	}
	search := cfg.SearchConfig()

	grids := []int{100, 1000, 10000}
	if cmd.Flags().Changed("points") || preset != "" || configFile != "" {
		grids = []int{cfg.Domain.Points}
	}

	fmt.Printf("benchmarking %s (eps=%g, max_n=%d, %s)\n\n", entry.Name, search.Epsilon, search.MaxN, search.Strategy)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tPROBES\tN\tTIME\tEVALS/SEC")

	for _, g := range grids {
		a, err := convergence.New(cfg.Domain.Start, cfg.Domain.End, g)
		if err != nil {
			return err
		}

		var res convergence.Result
		var checkErr error
		ns := a.BenchmarkNanoseconds(func() {
			res, checkErr = a.CheckUniform(recorder.Sequence(entry.Sequence), recorder.Limit(entry.Limit), search)
		})
		if checkErr != nil {
			return checkErr
		}
		recorder.Observe(res, time.Duration(ns))

		evals := float64(2 * g * res.Probes)
		rate := 0.0
		if ns > 0 {
			rate = evals / (float64(ns) / 1e9)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", g, res.Probes, res.N, time.Duration(ns), rate)
	}

	return w.Flush()
}

func listSequences(cmd *cobra.Command, args []string) error {
	reg := sequences.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOMAIN\tMONOTONE\tDESCRIPTION")
	for _, name := range reg.List() {
		e, _ := reg.Get(name)
		fmt.Fprintf(w, "%s\t[%g, %g]\t%t\t%s\n", e.Name, e.Start, e.End, e.Monotone, e.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := sequences.NewRegistry().List()
	if len(args) > 0 {
		names = args
	}

	found := false
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQUENCE\tPRESET\tDOMAIN\tPOINTS\tEPS\tMAX_N\tSTRATEGY")
	for _, name := range names {
		for _, p := range config.ListPresets(name) {
			cfg := config.GetPreset(name, p)
			fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t%d\t%g\t%d\t%s\n", name, p,
				cfg.Domain.Start, cfg.Domain.End, cfg.Domain.Points,
				cfg.Search.Epsilon, cfg.Search.MaxN, cfg.Search.Strategy)
			found = true
		}
	}
	if !found {
		fmt.Printf("no presets for: %v\n", names)
		return nil
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEQUENCE\tTIME\tPOINTS\tEPS\tSTRATEGY\tCONVERGED\tN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%s\t%t\t%d\n",
			run.ID,
			run.Sequence,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Epsilon,
			run.Strategy,
			run.Converged,
			run.N,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("domain: [%g, %g], %d points\n", meta.Start, meta.End, meta.Points)
	fmt.Printf("elapsed: %v\n\n", time.Duration(meta.ElapsedNs))
	fmt.Println(report.Summary(meta.Sequence, res))
	fmt.Println()
	return report.TraceTable(os.Stdout, res)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(res.Trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("sequence: %s\n\n", meta.Sequence)
	fmt.Println(report.TracePlot(res))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = meta.ID + ".svg"
	}
	if err := writeSVG(out, export.TracePoints(res), res.Epsilon); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func writeSVG(path string, pts []export.Point, epsilon float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, pts, epsilon, export.DefaultWidth, export.DefaultHeight); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func stepRun(cmd *cobra.Command, args []string) error {
	meta, res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewTraceModel(meta.Sequence, res))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", "error", err)
	}
}

func printMetrics() {
	families, err := registry.Gather()
	if err != nil {
		logger.Error("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			fmt.Fprintf(os.Stderr, "%s%s %g\n", mf.GetName(), labels, v)
		}
	}
}
