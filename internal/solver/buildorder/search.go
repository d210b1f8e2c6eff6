package buildorder

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/napolitain/buildorder/internal/models"
)

// Goals are the units a build order targets. Primary is required.
type Goals struct {
	Primary   *models.Unit
	Secondary *models.Unit
	Siege     *models.Unit
}

func (g Goals) roles() []roleGoal {
	var roles []roleGoal
	if g.Primary != nil {
		roles = append(roles, roleGoal{role: RolePrimary, unit: g.Primary})
	}
	if g.Secondary != nil {
		roles = append(roles, roleGoal{role: RoleSecondary, unit: g.Secondary})
	}
	if g.Siege != nil {
		roles = append(roles, roleGoal{role: RoleSiege, unit: g.Siege})
	}
	return roles
}

// SearchOptions controls the trial search
type SearchOptions struct {
	Attempts int    // independent trials, at least 1
	Seed     uint64 // trial i draws from PCG(Seed, i)
	Workers  int    // concurrent trials, 0 means GOMAXPROCS
	Upgrades bool   // append role upgrade technologies
	Economy  bool   // append economy technologies
}

// DefaultSearchOptions returns the options used by the CLI
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Attempts: 100,
		Seed:     1,
		Upgrades: true,
		Economy:  true,
	}
}

// Plan is the best linearized build order found by a search
type Plan struct {
	Goals Goals
	Steps []Step
	Score float64
	Trial int // index of the winning trial
	Seed  uint64
}

// Actions returns the ordered actions of the plan
func (p *Plan) Actions() []models.Action {
	actions := make([]models.Action, len(p.Steps))
	for i, s := range p.Steps {
		actions[i] = s.Action
	}
	return actions
}

// TotalCost returns the summed cost of every action in the plan
func (p *Plan) TotalCost() models.Cost {
	return models.TotalCost(p.Actions())
}

// TrialResult describes one finished trial
type TrialResult struct {
	Trial    int
	Score    float64
	Actions  int
	Improved bool
}

// Observer receives trial outcomes as they finish.
// Calls are serialized but arrive in completion order.
type Observer interface {
	TrialCompleted(TrialResult)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(TrialResult)

// TrialCompleted calls f(r)
func (f ObserverFunc) TrialCompleted(r TrialResult) { f(r) }

// BuildOrder runs opts.Attempts seeded trials and returns the lowest
// scoring plan. Ties go to the lowest trial index, so the result only
// depends on the civilization, the goals and the seed.
func (g *Generator) BuildOrder(ctx context.Context, goals Goals, opts SearchOptions) (*Plan, error) {
	return g.BuildOrderObserved(ctx, goals, opts, nil)
}

// BuildOrderObserved is BuildOrder with a per-trial observer
func (g *Generator) BuildOrderObserved(ctx context.Context, goals Goals, opts SearchOptions, obs Observer) (*Plan, error) {
	if goals.Primary == nil {
		return nil, ErrInvalidGoal
	}
	attempts := max(opts.Attempts, 1)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu   sync.Mutex
		best *Plan
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for trial := range attempts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := g.runTrial(goals, opts, trial)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			improved := best == nil || plan.Score < best.Score ||
				(plan.Score == best.Score && plan.Trial < best.Trial)
			if improved {
				best = plan
				g.logger.Debug("Best plan improved",
					"civ", g.civ.Name,
					"trial", trial,
					"score", plan.Score,
					"actions", len(plan.Steps))
			}
			if obs != nil {
				obs.TrialCompleted(TrialResult{
					Trial:    trial,
					Score:    plan.Score,
					Actions:  len(plan.Steps),
					Improved: improved,
				})
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.logger.Debug("Search failed", "civ", g.civ.Name, "error", err)
		return nil, err
	}
	return best, nil
}

// runTrial performs one independent resolve, filter and linearize pass
func (g *Generator) runTrial(goals Goals, opts SearchOptions, trial int) (*Plan, error) {
	r, actions, err := g.resolveTrial(goals, opts, trial)
	if err != nil {
		return nil, err
	}
	steps, score := g.linearize(r, actions, goals)

	return &Plan{
		Goals: goals,
		Steps: steps,
		Score: score,
		Trial: trial,
		Seed:  opts.Seed,
	}, nil
}

// resolveTrial resolves every goal of one trial and returns the
// deduplicated buildable action set with the memo that produced it
func (g *Generator) resolveTrial(goals Goals, opts SearchOptions, trial int) (*resolver, []models.Action, error) {
	r := newResolver(g, rand.New(rand.NewPCG(opts.Seed, uint64(trial))))

	var actions []models.Action
	roles := goals.roles()
	for _, rg := range roles {
		sub, ok := r.solve(unitKey(rg.unit))
		if !ok {
			return nil, nil, newUnresolvableUnit(rg.role, rg.unit)
		}
		actions = append(actions, sub...)
	}

	if opts.Upgrades {
		for _, rg := range roles {
			for _, t := range g.RoleUpgrades(rg.unit) {
				if sub, ok := r.solve(techKey(t)); ok {
					actions = append(actions, sub...)
				}
			}
		}
	}

	if opts.Economy {
		for _, t := range g.economy {
			if sub, ok := r.solve(techKey(t)); ok {
				actions = append(actions, sub...)
			}
		}
	}

	return r, models.Dedupe(models.FilterBuildable(actions)), nil
}

// UnitAge returns the age a unit becomes available in, probed with a
// single deterministic trial. Unreachable units return -1.
func (g *Generator) UnitAge(u *models.Unit) int {
	r := newResolver(g, rand.New(rand.NewPCG(0, 0)))
	sub, ok := r.solve(unitKey(u))
	if !ok {
		return -1
	}
	return planAge(g.civ, sub)
}
