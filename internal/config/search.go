package config

import (
	"github.com/napolitain/buildorder/internal/solver/buildorder"
	"github.com/napolitain/buildorder/internal/strategy"
)

// SearchConfig holds trial search configuration
type SearchConfig struct {
	// Number of independent seeded trials per goal
	Attempts int `mapstructure:"attempts" validate:"min=1,max=100000"`

	// Base seed; trial i draws from the stream (seed, i)
	Seed uint64 `mapstructure:"seed"`

	// Concurrent trials, 0 uses every CPU
	Workers int `mapstructure:"workers" validate:"min=0"`

	// Append role upgrade technologies
	Upgrades bool `mapstructure:"upgrades"`

	// Append economy technologies
	Economy bool `mapstructure:"economy"`

	// Largest plan, gatherer splits included, kept by the strategy command
	MaxPlanSize int `mapstructure:"max_plan_size" validate:"min=1"`
}

// Options converts the configuration into solver options
func (c SearchConfig) Options() buildorder.SearchOptions {
	return buildorder.SearchOptions{
		Attempts: c.Attempts,
		Seed:     c.Seed,
		Workers:  c.Workers,
		Upgrades: c.Upgrades,
		Economy:  c.Economy,
	}
}

// StrategyOptions converts the configuration into strategy options
func (c SearchConfig) StrategyOptions() strategy.Options {
	return strategy.Options{
		Search:      c.Options(),
		MaxPlanSize: c.MaxPlanSize,
	}
}
