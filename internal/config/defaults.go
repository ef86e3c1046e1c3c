package config

import (
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/source"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultLanguage = "en"

	DefaultSort = string(models.SortOverall)

	DefaultMetricsNamespace = "cardrank"
)

// ApplyDefaults fills zero-value fields in cfg. Explicit values are left alone.
// Engine schema defaults are applied by Options.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Engine.Language == "" {
		cfg.Engine.Language = DefaultLanguage
	}

	if cfg.Source.Debounce == 0 {
		cfg.Source.Debounce = source.DefaultDebounce
	}

	if cfg.Output.Sort == "" {
		cfg.Output.Sort = DefaultSort
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
