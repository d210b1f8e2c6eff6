package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/solver/buildorder"
)

// DefaultMaxPlanSize is the largest plan, gatherer splits included, that
// the target runtime accepts
const DefaultMaxPlanSize = 100

// Options controls strategy generation
type Options struct {
	Search      buildorder.SearchOptions
	MaxPlanSize int
	Workers     int // concurrent civilizations, 0 means one per civilization
}

// DefaultOptions returns the options used by the CLI
func DefaultOptions() Options {
	return Options{
		Search:      buildorder.DefaultSearchOptions(),
		MaxPlanSize: DefaultMaxPlanSize,
	}
}

// Entry is the build order for one candidate unit line
type Entry struct {
	Base    *models.Unit // root of the candidate's upgrade line
	Goal    *models.Unit // unit actually planned for
	Age     int
	Plan    *buildorder.Plan
	Actions []models.Action // plan with gatherer splits
}

// Strategy holds every usable build order of one civilization
type Strategy struct {
	Civilization *models.Civilization
	Siege        *models.Unit
	Entries      []Entry
	Skipped      []SkippedGoal
}

// Entry returns the entry whose line starts at base, or nil
func (s *Strategy) Entry(base *models.Unit) *Entry {
	for i := range s.Entries {
		if s.Entries[i].Base == base {
			return &s.Entries[i]
		}
	}
	return nil
}

// SkippedGoal records a candidate that produced no usable plan
type SkippedGoal struct {
	Unit   *models.Unit
	Reason error
}

// Assembler composes per-goal build orders into strategies
type Assembler struct {
	opts   Options
	logger *slog.Logger
}

// NewAssembler creates a new assembler
func NewAssembler(opts Options, logger *slog.Logger) *Assembler {
	if opts.MaxPlanSize <= 0 {
		opts.MaxPlanSize = DefaultMaxPlanSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{opts: opts, logger: logger}
}

// Candidates returns the distinct base units of the civilization's land
// military lines that have a place to be trained
func Candidates(civ *models.Civilization) []*models.Unit {
	var out []*models.Unit
	seen := make(map[*models.Unit]bool)
	for _, u := range civ.Units {
		if !u.Land {
			continue
		}
		base := u.BaseUnit()
		if seen[base] || !civ.HasUnit(base) {
			continue
		}
		if !(base.Available || base.TechRequired) || base.TrainLocation == nil || !base.Class.Military() {
			continue
		}
		seen[base] = true
		out = append(out, base)
	}
	return out
}

// siegeScore rates anti-building damage per second per resource
func siegeScore(u *models.Unit) float64 {
	score := float64(u.Stats.AntiBuildingAttack)
	score /= max(1, u.Stats.ReloadTime)
	score /= float64(max(1, u.Cost.Total()))
	return score
}

// BestSiege returns the reachable siege candidate with the best score, or nil
func BestSiege(g *buildorder.Generator, candidates []*models.Unit) *models.Unit {
	var best *models.Unit
	bestScore := -1.0
	for _, u := range candidates {
		if u.Class != models.ClassSiege || g.UnitAge(u) < 0 {
			continue
		}
		if score := siegeScore(u); score > bestScore {
			best = u
			bestScore = score
		}
	}
	return best
}

// planTarget returns the unit to plan a line for. Lines available from
// the first age are planned for their earliest later-age upgrade instead.
func planTarget(g *buildorder.Generator, base *models.Unit) (*models.Unit, int) {
	current, age := base, g.UnitAge(base)
	if age <= 1 {
		bestAge := math.MaxInt
		for _, upgr := range base.UpgradesTo {
			a := g.UnitAge(upgr)
			if a > 1 && a < bestAge {
				current, age, bestAge = upgr, a, a
			}
		}
	}
	return current, age
}

// Generate builds the strategy of one civilization
func (a *Assembler) Generate(ctx context.Context, civ *models.Civilization) (*Strategy, error) {
	g := buildorder.NewGenerator(civ, buildorder.WithLogger(a.logger))
	candidates := Candidates(civ)
	siege := BestSiege(g, candidates)

	s := &Strategy{Civilization: civ, Siege: siege}
	a.logger.Debug("Generating strategy",
		"civ", civ.Name,
		"candidates", len(candidates),
		"siege", siege)

	for _, base := range candidates {
		if base.Class == models.ClassSiege {
			continue
		}

		goal, age := planTarget(g, base)
		if age <= 1 {
			continue
		}

		plan, err := g.BuildOrder(ctx, buildorder.Goals{Primary: goal, Siege: siege}, a.opts.Search)
		if err != nil {
			if errors.Is(err, buildorder.ErrUnresolvableDependency) {
				a.logger.Debug("Skipping goal", "civ", civ.Name, "unit", goal.Name, "error", err)
				s.Skipped = append(s.Skipped, SkippedGoal{Unit: goal, Reason: err})
				continue
			}
			return nil, fmt.Errorf("civilization %s goal %s: %w", civ.Name, goal.Name, err)
		}

		actions, err := plan.Gatherers(civ)
		if err != nil {
			return nil, err
		}
		if len(actions) > a.opts.MaxPlanSize {
			err := fmt.Errorf("%w: %d actions, limit %d", buildorder.ErrPlanTooLarge, len(actions), a.opts.MaxPlanSize)
			a.logger.Info("Discarding plan", "civ", civ.Name, "unit", goal.Name, "error", err)
			s.Skipped = append(s.Skipped, SkippedGoal{Unit: goal, Reason: err})
			continue
		}

		s.Entries = append(s.Entries, Entry{
			Base:    base,
			Goal:    goal,
			Age:     age,
			Plan:    plan,
			Actions: actions,
		})
	}

	return s, nil
}

// GenerateAll builds strategies for many civilizations concurrently,
// keyed by civilization id
func (a *Assembler) GenerateAll(ctx context.Context, civs []*models.Civilization) (map[int]*Strategy, error) {
	var (
		mu      sync.Mutex
		results = make(map[int]*Strategy, len(civs))
	)

	eg, ctx := errgroup.WithContext(ctx)
	if a.opts.Workers > 0 {
		eg.SetLimit(a.opts.Workers)
	}

	for _, civ := range civs {
		eg.Go(func() error {
			s, err := a.Generate(ctx, civ)
			if err != nil {
				return err
			}
			mu.Lock()
			results[civ.ID] = s
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
