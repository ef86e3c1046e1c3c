package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "CARDRANK"

// envKeys are registered with viper so that CARDRANK_* variables resolve
// even when no config file mentions them.
var envKeys = []string{
	"log.level", "log.format",
	"engine.language", "engine.fuzzy_rewards",
	"source.path", "source.format", "source.sheet", "source.table",
	"source.use_print_area", "source.resolve_links", "source.watch", "source.debounce",
	"output.sort", "output.pretty", "output.path", "output.bands_dir",
	"metrics.enabled", "metrics.namespace", "metrics.textfile",
}

// newViper returns a viper instance reading YAML, with CARDRANK_ env
// overrides where "source.path" maps to CARDRANK_SOURCE_PATH.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges CARDRANK_* overrides,
// applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "config: read config file %q", configPath)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from CARDRANK_* environment variables only.
//
//	CARDRANK_<SECTION>_<FIELD>   e.g.  CARDRANK_SOURCE_PATH, CARDRANK_LOG_LEVEL
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "config: validation failed")
	}
	return cfg, nil
}

// Watch calls onChange with the re-parsed Config whenever configPath changes.
// A change that fails to parse or validate is passed to onError instead, and
// the previous configuration stays in effect. Watch does not block.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			if onError != nil {
				onError(eris.Wrapf(err, "config: reload %q", configPath))
			}
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
