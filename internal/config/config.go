// Package config loads cardrank settings from YAML files and CARDRANK_*
// environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ukaji3/cardrank-go/pkg/cardrank"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/scoring"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/source"
	"github.com/ukaji3/cardrank-go/pkg/logging"
)

// EngineConfig holds the ranking engine schema.
type EngineConfig struct {
	// Language is the collation language for card names.
	Language string `mapstructure:"language"`
	// FuzzyRewards enables the rewards header heuristic. Nil means enabled.
	FuzzyRewards *bool `mapstructure:"fuzzy_rewards"`
	// Aliases replace the built-in alias list of each field they name.
	Aliases map[string][]string `mapstructure:"aliases"`
	Fuzzy   header.FuzzyConfig  `mapstructure:"fuzzy"`
	// Segments zero fields fall back to the built-in detection settings.
	Segments      scoring.SegmentConfig `mapstructure:"segments"`
	DetailExclude []string              `mapstructure:"detail_exclude"`
}

// SourceConfig selects and reads the input table.
type SourceConfig struct {
	// Path is the input file. Empty uses the built-in sample table.
	Path         string        `mapstructure:"path"`
	Format       string        `mapstructure:"format"` // "" | csv | tsv | xlsx | sqlite
	Sheet        string        `mapstructure:"sheet"`
	Table        string        `mapstructure:"table"`
	UsePrintArea *bool         `mapstructure:"use_print_area"`
	ResolveLinks *bool         `mapstructure:"resolve_links"`
	Watch        bool          `mapstructure:"watch"`
	Debounce     time.Duration `mapstructure:"debounce"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	// Sort is the default sort mode label.
	Sort   string `mapstructure:"sort"`
	Pretty bool   `mapstructure:"pretty"`
	// Path is the output file. Empty writes to stdout.
	Path string `mapstructure:"path"`
	// BandsDir receives one JSON file per rank band when set.
	BandsDir string `mapstructure:"bands_dir"`
}

// MetricsConfig controls the prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	// Textfile is written in the node_exporter textfile format after each run.
	Textfile string `mapstructure:"textfile"`
}

// Config is the root configuration.
type Config struct {
	Log     logging.LogConfig `mapstructure:"log"`
	Engine  EngineConfig      `mapstructure:"engine"`
	Source  SourceConfig      `mapstructure:"source"`
	Output  OutputConfig      `mapstructure:"output"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

// Validate performs semantic validation of a defaulted Config.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return eris.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return eris.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch source.Format(c.Source.Format) {
	case source.FormatAuto, source.FormatCSV, source.FormatTSV, source.FormatXLSX, source.FormatSQLite:
	default:
		return eris.Errorf("config: source.format %q is invalid; expected csv|tsv|xlsx|sqlite", c.Source.Format)
	}
	if c.Source.Debounce < 0 {
		return eris.Errorf("config: source.debounce must be >= 0, got %s", c.Source.Debounce)
	}
	if c.Source.Watch && c.Source.Path == "" {
		return eris.New("config: source.watch requires source.path")
	}

	if !validSort(c.Output.Sort) {
		return eris.Errorf("config: output.sort %q is invalid; expected overall|rewards|annual_fee", c.Output.Sort)
	}

	if c.Metrics.Textfile != "" && !c.Metrics.Enabled {
		return eris.New("config: metrics.textfile requires metrics.enabled")
	}

	if err := c.Options().Validate(); err != nil {
		return eris.Wrap(err, "config: engine")
	}
	return nil
}

func validSort(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(t, string(models.SortOverall)) || models.ParseSortMode(t) != models.SortOverall
}

// Options converts the engine section to session options.
func (c *Config) Options() cardrank.Options {
	opts := cardrank.DefaultOptions()
	for field, list := range c.Engine.Aliases {
		opts.Aliases[canonicalField(opts.Aliases, field)] = list
	}
	if c.Engine.Fuzzy.Gate != "" {
		opts.Fuzzy = c.Engine.Fuzzy
	}
	if c.Engine.Segments.Detect != "" {
		opts.Segments.Detect = c.Engine.Segments.Detect
	}
	if c.Engine.Segments.LabelPrefix != "" {
		opts.Segments.LabelPrefix = c.Engine.Segments.LabelPrefix
	}
	if c.Engine.Segments.Max != 0 {
		opts.Segments.Max = c.Engine.Segments.Max
	}
	opts.Segments.Overrides = c.Engine.Segments.Overrides
	if c.Engine.DetailExclude != nil {
		opts.DetailExclude = c.Engine.DetailExclude
	}
	if c.Engine.Language != "" {
		opts.Language = c.Engine.Language
	}
	opts.FuzzyRewards = c.Engine.FuzzyRewards
	return opts
}

// canonicalField restores the spelling of a field name that viper lower-cased.
func canonicalField(known map[string][]string, field string) string {
	for name := range known {
		if strings.EqualFold(name, field) {
			return name
		}
	}
	return field
}

// SourceOptions converts the source section to read options.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Format:       source.Format(c.Source.Format),
		Sheet:        c.Source.Sheet,
		Table:        c.Source.Table,
		UsePrintArea: c.Source.UsePrintArea,
		ResolveLinks: c.Source.ResolveLinks,
	}
}

// SortMode returns the configured default sort mode.
func (c *Config) SortMode() models.SortMode {
	return models.ParseSortMode(c.Output.Sort)
}
