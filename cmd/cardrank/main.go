// Package main provides the CLI entry point for cardrank.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ukaji3/cardrank-go/internal/config"
	"github.com/ukaji3/cardrank-go/internal/metrics"
	"github.com/ukaji3/cardrank-go/pkg/cardrank"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/output"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/rank"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/source"
	"github.com/ukaji3/cardrank-go/pkg/logging"
)

var (
	configPath string
	outputPath string
	bandsDir   string
	pretty     bool
	sortMode   string
	query      string
	chips      []string
	issuer     string
	network    string
	country    string
	format     string
	sheet      string
	table      string
	watch      bool
	metricsOut string
	logLevel   string
	facets     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cardrank [input]",
		Short: "Rank card comparison tables",
		Long: `cardrank scores and ranks the rows of a card comparison table
(csv, tsv, xlsx or sqlite) and outputs banded JSON results.
Without an input the built-in sample table is ranked.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file (default: CARDRANK_* environment only)")
	f.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	f.StringVar(&bandsDir, "bands-dir", "", "Directory for per-band output files")
	f.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	f.StringVar(&sortMode, "sort", "", "Sort mode: overall, rewards, annual_fee")
	f.StringVarP(&query, "query", "q", "", "Free-text search over every cell")
	f.StringSliceVar(&chips, "chip", nil, "Quick filter term; repeat to require several")
	f.StringVar(&issuer, "issuer", "", "Exact issuer filter")
	f.StringVar(&network, "network", "", "Exact network filter")
	f.StringVar(&country, "country", "", "Exact country filter")
	f.StringVar(&format, "format", "", "Input format: csv, tsv, xlsx, sqlite (default: from extension)")
	f.StringVar(&sheet, "sheet", "", "Worksheet to read from an xlsx input")
	f.StringVar(&table, "table", "", "Table to read from a sqlite input")
	f.BoolVarP(&watch, "watch", "w", false, "Re-rank whenever the input file changes")
	f.StringVar(&metricsOut, "metrics-out", "", "Write prometheus metrics to this textfile after each run")
	f.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.BoolVar(&facets, "facets", false, "Print the issuer, network and country values instead of results")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger setup failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		if m, err = metrics.New(cfg.Metrics.Namespace); err != nil {
			return fmt.Errorf("metrics setup failed: %w", err)
		}
	}

	app := &app{cfg: cfg, logger: logger, metrics: m, out: cmd.OutOrStdout()}
	if err := app.reset(cfg); err != nil {
		return err
	}

	t, err := app.read(cmd.Context())
	if err != nil {
		return err
	}
	if err := app.emit(t); err != nil {
		return err
	}

	if !cfg.Source.Watch {
		return nil
	}
	return app.watch(cmd.Context())
}

// loadConfig reads the config file or environment and lets explicit flags win.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("configuration failed: %w", err)
	}

	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Source.Path = args[0]
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}
	if flags.Changed("bands-dir") {
		cfg.Output.BandsDir = bandsDir
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = pretty
	}
	if flags.Changed("sort") {
		cfg.Output.Sort = sortMode
	}
	if flags.Changed("format") {
		cfg.Source.Format = format
	}
	if flags.Changed("sheet") {
		cfg.Source.Sheet = sheet
	}
	if flags.Changed("table") {
		cfg.Source.Table = table
	}
	if flags.Changed("watch") {
		cfg.Source.Watch = watch
	}
	if flags.Changed("metrics-out") {
		cfg.Metrics.Textfile = metricsOut
		cfg.Metrics.Enabled = cfg.Metrics.Enabled || metricsOut != ""
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration failed: %w", err)
	}
	return cfg, nil
}

// app holds the state shared by the initial run and watch reloads.
type app struct {
	mu      sync.Mutex
	cfg     *config.Config
	session *cardrank.Session
	logger  logging.Logger
	metrics *metrics.Metrics
	out     io.Writer
	last    models.Table
}

// reset builds a new session from cfg.
func (a *app) reset(cfg *config.Config) error {
	opts := []cardrank.SessionOption{cardrank.WithLogger(a.logger)}
	if a.metrics != nil {
		opts = append(opts, cardrank.WithRecorder(a.metrics))
	}
	s, err := cardrank.NewSession(cfg.Options(), opts...)
	if err != nil {
		return fmt.Errorf("session setup failed: %w", err)
	}
	a.cfg = cfg
	a.session = s
	return nil
}

func (a *app) read(ctx context.Context) (models.Table, error) {
	if a.cfg.Source.Path == "" {
		return source.Sample(), nil
	}
	t, err := source.Open(ctx, a.cfg.Source.Path, a.cfg.SourceOptions())
	if err != nil {
		if a.metrics != nil {
			a.metrics.ObserveSourceError(err)
		}
		return models.Table{}, fmt.Errorf("read failed: %w", err)
	}
	return t, nil
}

// emit loads t into the session, ranks it and writes every configured output.
func (a *app) emit(t models.Table) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.session.Load(t); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	a.last = t

	if facets {
		return a.writeFacets(a.session.Facets())
	}

	q := cardrank.Query{
		Filters: rank.Filters{Query: query, Chips: chips, Issuer: issuer, Network: network, Country: country},
		Mode:    a.cfg.SortMode(),
	}
	result := a.session.Rank(q)

	jsonData, err := output.ToJSON(result, a.cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if err := a.writeResult(jsonData); err != nil {
		return err
	}

	if a.cfg.Output.BandsDir != "" {
		if err := writeBandFiles(result, a.cfg.Output.BandsDir, a.cfg.Output.Pretty); err != nil {
			return fmt.Errorf("failed to write band files: %w", err)
		}
	}

	if a.metrics != nil && a.cfg.Metrics.Textfile != "" {
		if err := a.metrics.WriteToTextfile(a.cfg.Metrics.Textfile); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) writeFacets(v cardrank.Facets) error {
	jsonData, err := output.FacetsToJSON(v, a.cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return a.writeResult(jsonData)
}

func (a *app) writeResult(jsonData []byte) error {
	if a.cfg.Output.Path != "" {
		if err := os.WriteFile(a.cfg.Output.Path, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if a.cfg.Output.BandsDir == "" {
		_, err := fmt.Fprintln(a.out, string(jsonData))
		return err
	}
	return nil
}

func writeBandFiles(result models.Result, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, band := range result.Bands {
		jsonData, err := output.BandToJSON(result.Mode, band, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, fmt.Sprintf("band%02d.json", band.Rank))
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

// watch re-ranks on input changes, and on config changes when a config file
// is in use, until interrupted.
func (a *app) watch(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configPath != "" {
		config.Watch(configPath, a.onConfigChange, func(err error) {
			a.logger.Error("config reload rejected", logging.Err(err))
		})
	}

	a.logger.Info("watching input", logging.String("path", a.cfg.Source.Path))
	return source.Watch(ctx, a.cfg.Source.Path, a.cfg.SourceOptions(), a.cfg.Source.Debounce, func(t models.Table, err error) {
		if err != nil {
			if a.metrics != nil {
				a.metrics.ObserveSourceError(err)
			}
			a.logger.Error("reload failed", logging.Err(err))
			return
		}
		if err := a.emit(t); err != nil {
			a.logger.Error("re-rank failed", logging.Err(err))
		}
	})
}

// onConfigChange rebuilds the session with the new engine settings and
// re-ranks the last table. Input, logging, metrics and output destinations
// stay as started.
func (a *app) onConfigChange(cfg *config.Config) {
	a.mu.Lock()
	cfg.Source = a.cfg.Source
	cfg.Log = a.cfg.Log
	cfg.Metrics = a.cfg.Metrics
	cfg.Output.Path, cfg.Output.BandsDir = a.cfg.Output.Path, a.cfg.Output.BandsDir
	err := a.reset(cfg)
	last := a.last
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("config reload rejected", logging.Err(err))
		return
	}
	a.logger.Info("config reloaded", logging.String("sort", cfg.Output.Sort))
	if err := a.emit(last); err != nil {
		a.logger.Error("re-rank failed", logging.Err(err))
	}
}
