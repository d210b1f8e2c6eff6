package config

import (
	"github.com/spf13/viper"

	"github.com/napolitain/buildorder/internal/solver/buildorder"
	"github.com/napolitain/buildorder/internal/strategy"
)

const (
	DefaultCatalogPath = "data/catalog.yaml"
	DefaultStorePath   = "buildorder.db"
)

// Default returns the configuration used when nothing is configured
func Default() *Config {
	search := buildorder.DefaultSearchOptions()
	cfg := &Config{
		Search: SearchConfig{
			Attempts:    search.Attempts,
			Seed:        search.Seed,
			Workers:     search.Workers,
			Upgrades:    search.Upgrades,
			Economy:     search.Economy,
			MaxPlanSize: strategy.DefaultMaxPlanSize,
		},
	}
	SetDefaults(cfg)
	return cfg
}

// SetDefaults sets default values for all zero configuration fields.
// Booleans are left alone; their defaults come from Default and registerDefaults.
func SetDefaults(cfg *Config) {
	if cfg.Search.Attempts == 0 {
		cfg.Search.Attempts = buildorder.DefaultSearchOptions().Attempts
	}
	if cfg.Search.MaxPlanSize == 0 {
		cfg.Search.MaxPlanSize = strategy.DefaultMaxPlanSize
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

func registerDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("search.attempts", d.Search.Attempts)
	v.SetDefault("search.seed", d.Search.Seed)
	v.SetDefault("search.workers", d.Search.Workers)
	v.SetDefault("search.upgrades", d.Search.Upgrades)
	v.SetDefault("search.economy", d.Search.Economy)
	v.SetDefault("search.max_plan_size", d.Search.MaxPlanSize)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
}
