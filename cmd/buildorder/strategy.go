package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/store"
	"github.com/napolitain/buildorder/internal/strategy"
)

type strategyFlags struct {
	search  searchFlags
	civ     string
	format  string
	workers int
	save    bool
}

func newStrategyCmd(a *app) *cobra.Command {
	f := &strategyFlags{}
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Generate a build order for every military line of one or all civilizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStrategy(cmd, f)
		},
	}

	f.search.register(cmd)
	cmd.Flags().StringVar(&f.civ, "civ", "", "Civilization id or name (default all)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "table", "Output format (table, codes)")
	cmd.Flags().IntVar(&f.workers, "civ-workers", 0, "Civilizations planned concurrently (0 runs all at once)")
	cmd.Flags().BoolVar(&f.save, "store", false, "Save every plan to the history database")
	return cmd
}

func (a *app) runStrategy(cmd *cobra.Command, f *strategyFlags) error {
	if f.format != "table" && f.format != "codes" {
		return fmt.Errorf("unknown format %q", f.format)
	}
	if err := a.applySearchFlags(cmd, &f.search); err != nil {
		return err
	}

	catalog, err := a.loadCatalog()
	if err != nil {
		return err
	}
	civs := catalog.Civilizations
	if f.civ != "" {
		civ, err := findCivilization(catalog, f.civ)
		if err != nil {
			return err
		}
		civs = []*models.Civilization{civ}
	}

	opts := a.cfg.Search.StrategyOptions()
	opts.Workers = f.workers
	assembler := strategy.NewAssembler(opts, a.logger)

	results, err := assembler.GenerateAll(cmd.Context(), civs)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if f.format == "table" && !quiet {
		printBanner(w)
	}

	ids := make([]int, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if f.format == "codes" {
			printStrategyCodes(w, results[id])
		} else {
			printStrategy(w, results[id])
		}
	}

	if f.save {
		return a.storeStrategies(cmd, results, ids)
	}
	return nil
}

func (a *app) storeStrategies(cmd *cobra.Command, results map[int]*strategy.Strategy, ids []int) error {
	db, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stored := 0
	for _, id := range ids {
		s := results[id]
		for _, e := range s.Entries {
			run := store.NewRun(s.Civilization, e.Plan, e.Actions, a.cfg.Search.Attempts)
			if _, err := db.Save(cmd.Context(), run); err != nil {
				return err
			}
			stored++
		}
	}
	a.logger.Info("Strategies stored", "plans", stored, "path", a.cfg.Store.Path)
	return nil
}
