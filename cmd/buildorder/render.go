package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/solver/buildorder"
	"github.com/napolitain/buildorder/internal/store"
	"github.com/napolitain/buildorder/internal/strategy"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
	warnColor    = color.New(color.FgRed)
)

func printBanner(w io.Writer) {
	titleColor.Fprintln(w, "\n╭───────────────────────────╮")
	titleColor.Fprintln(w, "│  Build Order Generator    │")
	titleColor.Fprintln(w, "╰───────────────────────────╯")
	fmt.Fprintln(w)
}

func formatCost(c models.Cost) string {
	return fmt.Sprintf("F:%s W:%s G:%s S:%s",
		humanize.Comma(int64(c.Food)),
		humanize.Comma(int64(c.Wood)),
		humanize.Comma(int64(c.Gold)),
		humanize.Comma(int64(c.Stone)))
}

func formatSplit(s models.Split) string {
	return fmt.Sprintf("F:%d%% W:%d%% G:%d%% S:%d%%", s.Food, s.Wood, s.Gold, s.Stone)
}

func formatGoals(goals ...string) string {
	var parts []string
	for _, g := range goals {
		if g != "" {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, " + ")
}

func unitName(u *models.Unit) string {
	if u == nil {
		return ""
	}
	return u.Name
}

// printPlan renders the final action list next to the schedule that produced it
func printPlan(w io.Writer, civ *models.Civilization, plan *buildorder.Plan, actions []models.Action) {
	steps := make(map[models.Action]buildorder.Step, len(plan.Steps))
	for _, s := range plan.Steps {
		steps[s.Action] = s
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Action", "Category", "Role", "Priority", "Cost"}),
	)

	n := 0
	for _, a := range actions {
		if a.Kind == models.ActionGatherers {
			_ = table.Append([]string{"", "⛏️ Gatherers", "", "", "", formatSplit(a.Split)})
			continue
		}
		n++
		s := steps[a]
		role := ""
		if s.Role != buildorder.RoleNone {
			role = s.Role.String()
		}
		_ = table.Append([]string{
			strconv.Itoa(n),
			a.String(),
			s.Category.String(),
			role,
			strconv.Itoa(s.Priority),
			formatCost(a.Cost()),
		})
	}
	_ = table.Render()

	successColor.Fprintf(w, "\n✓ %s: %d actions for %s\n", civ.Name, n,
		formatGoals(unitName(plan.Goals.Primary), unitName(plan.Goals.Secondary), unitName(plan.Goals.Siege)))
	fmt.Fprintf(w, "   Total cost: %s\n", formatCost(plan.TotalCost()))
	fmt.Fprintf(w, "   Score: %s (trial %d, seed %d)\n", humanize.Commaf(plan.Score), plan.Trial, plan.Seed)
}

// printCodes writes the program header and one code per line
func printCodes(w io.Writer, actions []models.Action) {
	for _, c := range models.EncodeProgram(actions) {
		fmt.Fprintln(w, c)
	}
}

func printStrategy(w io.Writer, s *strategy.Strategy) {
	titleColor.Fprintf(w, "\n%s", s.Civilization.Name)
	if s.Siege != nil {
		infoColor.Fprintf(w, " (siege: %s)", s.Siege.Name)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Line", "Goal", "Age", "Actions", "Score", "Cost"}),
	)
	for _, e := range s.Entries {
		_ = table.Append([]string{
			e.Base.Name,
			e.Goal.Name,
			strconv.Itoa(e.Age),
			strconv.Itoa(len(e.Actions)),
			humanize.Commaf(e.Plan.Score),
			formatCost(models.TotalCost(e.Actions)),
		})
	}
	_ = table.Render()

	for _, sk := range s.Skipped {
		warnColor.Fprintf(w, "   ✗ %s: %v\n", sk.Unit.Name, sk.Reason)
	}
}

// printStrategyCodes writes one line per entry: civilization id, goal id, then the program
func printStrategyCodes(w io.Writer, s *strategy.Strategy) {
	for _, e := range s.Entries {
		codes := models.EncodeProgram(e.Actions)
		fields := make([]string, 0, len(codes)+2)
		fields = append(fields, strconv.Itoa(s.Civilization.ID), strconv.Itoa(e.Goal.ID))
		for _, c := range codes {
			fields = append(fields, strconv.Itoa(c))
		}
		fmt.Fprintln(w, strings.Join(fields, " "))
	}
}

func printHistory(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		infoColor.Fprintln(w, "No stored plans")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"ID", "When", "Civilization", "Goals", "Actions", "Attempts", "Score", "Cost"}),
	)
	for _, r := range runs {
		_ = table.Append([]string{
			r.ID,
			humanize.Time(r.CreatedAt),
			r.Civilization,
			formatGoals(r.Primary, r.Secondary, r.Siege),
			strconv.Itoa(r.Actions),
			humanize.Comma(int64(r.Attempts)),
			humanize.Commaf(r.Score),
			formatCost(r.Cost),
		})
	}
	_ = table.Render()
}
