package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/napolitain/buildorder/internal/solver/buildorder"
	"github.com/napolitain/buildorder/internal/store"
)

type planFlags struct {
	search    searchFlags
	civ       string
	primary   string
	secondary string
	siege     string
	format    string
	save      bool
}

func newPlanCmd(a *app) *cobra.Command {
	f := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate the build order for one set of goal units",
		Example: `  buildorder plan --civ Britons --primary Knight --siege "Battering Ram"
  buildorder plan --civ 2 --primary 38 --format codes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd, f)
		},
	}

	f.search.register(cmd)
	cmd.Flags().StringVar(&f.civ, "civ", "", "Civilization id or name")
	cmd.Flags().StringVarP(&f.primary, "primary", "p", "", "Primary goal unit id or name")
	cmd.Flags().StringVar(&f.secondary, "secondary", "", "Secondary goal unit id or name")
	cmd.Flags().StringVar(&f.siege, "siege", "", "Siege goal unit id or name")
	cmd.Flags().StringVarP(&f.format, "format", "f", "table", "Output format (table, codes)")
	cmd.Flags().BoolVar(&f.save, "store", false, "Save the plan to the history database")
	_ = cmd.MarkFlagRequired("civ")
	_ = cmd.MarkFlagRequired("primary")
	return cmd
}

func (a *app) runPlan(cmd *cobra.Command, f *planFlags) error {
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
	civ, err := findCivilization(catalog, f.civ)
	if err != nil {
		return err
	}

	var goals buildorder.Goals
	if goals.Primary, err = findUnit(civ, f.primary); err != nil {
		return err
	}
	if goals.Secondary, err = findUnit(civ, f.secondary); err != nil {
		return err
	}
	if goals.Siege, err = findUnit(civ, f.siege); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if f.format == "table" && !quiet {
		printBanner(w)
		infoColor.Fprintf(w, "🔄 Searching %d trials for %s...\n\n", a.cfg.Search.Attempts, civ.Name)
	}

	g := buildorder.NewGenerator(civ, buildorder.WithLogger(a.logger))
	opts := a.cfg.Search.Options()
	plan, err := g.BuildOrder(cmd.Context(), goals, opts)
	if err != nil {
		return err
	}
	actions, err := plan.Gatherers(civ)
	if err != nil {
		return err
	}

	if f.format == "codes" {
		printCodes(w, actions)
	} else {
		printPlan(w, civ, plan, actions)
	}

	if !f.save {
		return nil
	}
	db, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.Save(cmd.Context(), store.NewRun(civ, plan, actions, opts.Attempts))
	if err != nil {
		return err
	}
	a.logger.Info("Plan stored", "id", id, "path", a.cfg.Store.Path)
	if f.format == "table" {
		successColor.Fprintf(w, "✓ Stored as %s\n", id)
	}
	return nil
}
