package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/napolitain/buildorder/internal/config"
	"github.com/napolitain/buildorder/internal/loader"
	"github.com/napolitain/buildorder/internal/logging"
	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/store"
)

var (
	configFile  string
	catalogPath string
	storePath   string
	logLevel    string
	quiet       bool
)

// app is the state shared by every subcommand once the config is loaded
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "buildorder",
		Short: "Build order generator for AI-script players",
		Long: `Generates build orders for real-time strategy AI scripts by
resolving a unit's technology tree and scheduling the result.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the catalog file")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "Path to the history database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(newPlanCmd(a), newStrategyCmd(a), newHistoryCmd(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog.Path = catalogPath
	}
	if flags.Changed("db") {
		cfg.Store.Path = storePath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	out, err := logging.Output(cfg.Logging.Output)
	if err != nil {
		return err
	}
	logger, err := logging.New(out, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) loadCatalog() (*models.Catalog, error) {
	catalog, err := loader.LoadCatalog(a.cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	a.logger.Debug("Catalog loaded",
		"path", a.cfg.Catalog.Path,
		"units", len(catalog.Units),
		"technologies", len(catalog.Technologies),
		"civilizations", len(catalog.Civilizations))
	return catalog, nil
}

func (a *app) openStore() (*store.DB, error) {
	db, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", a.cfg.Store.Path, err)
	}
	return db, nil
}

// applySearchFlags overrides the configured search with any flag the user set
func (a *app) applySearchFlags(cmd *cobra.Command, f *searchFlags) error {
	flags := cmd.Flags()
	s := &a.cfg.Search
	if flags.Changed("attempts") {
		s.Attempts = f.attempts
	}
	if flags.Changed("seed") {
		s.Seed = f.seed
	}
	if flags.Changed("workers") {
		s.Workers = f.workers
	}
	if flags.Changed("no-upgrades") {
		s.Upgrades = !f.noUpgrades
	}
	if flags.Changed("no-economy") {
		s.Economy = !f.noEconomy
	}
	if err := config.ValidateConfig(a.cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

type searchFlags struct {
	attempts   int
	seed       uint64
	workers    int
	noUpgrades bool
	noEconomy  bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.attempts, "attempts", "n", 0, "Independent search trials")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Base random seed")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Concurrent trials (0 uses every CPU)")
	cmd.Flags().BoolVar(&f.noUpgrades, "no-upgrades", false, "Skip role upgrade technologies")
	cmd.Flags().BoolVar(&f.noEconomy, "no-economy", false, "Skip economy technologies")
}
