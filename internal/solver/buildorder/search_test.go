package buildorder

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/buildorder/internal/models"
)

func TestInvalidGoal(t *testing.T) {
	g := britons(t)
	_, err := g.BuildOrder(context.Background(), Goals{}, searchOpts(1))
	assert.ErrorIs(t, err, ErrInvalidGoal)
}

func TestUnresolvableGoals(t *testing.T) {
	g := britons(t)
	catalog := loadCatalog(t)

	var cappedRam *models.Unit
	for _, u := range catalog.Units {
		if u.ID == cappedRamID {
			cappedRam = u
		}
	}
	require.NotNil(t, cappedRam)

	tests := []struct {
		name  string
		goals Goals
		role  Role
	}{
		{"ship primary", Goals{Primary: unit(t, g, galleyID)}, RolePrimary},
		{"disabled siege", Goals{Primary: unit(t, g, knightID), Siege: cappedRam}, RoleSiege},
		{"disabled secondary", Goals{Primary: unit(t, g, militiaID), Secondary: cappedRam}, RoleSecondary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.BuildOrder(context.Background(), tt.goals, searchOpts(3))
			require.ErrorIs(t, err, ErrUnresolvableDependency)

			var unresolvable *UnresolvableError
			require.ErrorAs(t, err, &unresolvable)
			assert.Equal(t, tt.role, unresolvable.Role)
		})
	}
}

func TestTrainSiteScenario(t *testing.T) {
	base := &models.Technology{ID: 1, Name: "Base", Free: true}
	site := &models.Unit{
		ID: 10, Name: "Site", Building: true, Land: true, Available: true,
		Cost: models.Cost{Wood: 100},
	}
	soldier := &models.Unit{
		ID: 20, Name: "Soldier", Land: true, Available: true, TrainLocation: site,
		Cost: models.Cost{Food: 50, Gold: 10},
	}
	civ := newTestCiv(base, []*models.Unit{site, soldier}, nil)
	g := NewGenerator(civ, WithLogger(quietLogger()))

	plan, err := g.BuildOrder(context.Background(), Goals{Primary: soldier}, searchOpts(5))
	require.NoError(t, err)

	want := []models.Action{models.BuildAction(site), models.BuildAction(soldier)}
	assert.Equal(t, want, plan.Actions())
	assert.Equal(t, CategoryTrainSite, plan.Steps[0].Category)
	assert.Equal(t, CategoryTrain, plan.Steps[1].Category)
	assert.Equal(t, site.Cost.Add(soldier.Cost), plan.TotalCost())

	withSplits, err := plan.Gatherers(civ)
	require.NoError(t, err)

	var rest []models.Action
	splits := 0
	for _, a := range withSplits {
		if a.Kind == models.ActionGatherers {
			splits++
			assert.InDelta(t, 100, a.Split.Sum(), 3, "split %v", a.Split)
			continue
		}
		rest = append(rest, a)
	}
	assert.Equal(t, want, rest)
	assert.Equal(t, 2, splits, "one segment split and the final goal split")
	assert.Equal(t, site.Cost.Add(soldier.Cost), models.TotalCost(withSplits))
}

func TestPlanProperties(t *testing.T) {
	g := britons(t)

	goalSets := map[string]Goals{
		"knight":  {Primary: unit(t, g, knightID)},
		"archer":  {Primary: unit(t, g, archerID), Secondary: unit(t, g, militiaID)},
		"militia": {Primary: unit(t, g, militiaID), Siege: unit(t, g, onagerID)},
	}

	for name, goals := range goalSets {
		t.Run(name, func(t *testing.T) {
			opts := searchOpts(10)
			for trial := range opts.Attempts {
				r, actions, err := g.resolveTrial(goals, opts, trial)
				require.NoError(t, err)
				steps, _ := g.linearize(r, actions, goals)
				require.Len(t, steps, len(actions), "every action is scheduled")

				position := make(map[models.Action]int, len(steps))
				for i, s := range steps {
					_, dup := position[s.Action]
					require.False(t, dup, "duplicate action %s", s.Action)
					position[s.Action] = i
				}

				inSet := make(map[models.Action]bool, len(actions))
				for _, a := range actions {
					inSet[a] = true
				}
				for _, s := range steps {
					assert.True(t, s.Action.Buildable(), "%s is not buildable", s.Action)
					for _, d := range predecessors(r, s.Action, inSet) {
						assert.Less(t, position[d], position[s.Action],
							"trial %d: %s must come before %s", trial, d, s.Action)
					}
				}
			}
		})
	}
}

func TestKnightPlan(t *testing.T) {
	g := britons(t)
	knight := unit(t, g, knightID)

	plan, err := g.BuildOrder(context.Background(), Goals{Primary: knight}, searchOpts(20))
	require.NoError(t, err)

	actions := plan.Actions()
	feudal := indexOf(actions, models.ResearchAction(tech(t, g, feudalAgeID)))
	castle := indexOf(actions, models.ResearchAction(tech(t, g, castleAgeID)))
	stable := indexOf(actions, models.BuildAction(unit(t, g, stableID)))
	train := indexOf(actions, models.BuildAction(knight))

	require.GreaterOrEqual(t, feudal, 0)
	assert.Less(t, feudal, castle)
	assert.Less(t, castle, train)
	assert.Less(t, stable, train)

	// Upgrades and economy are included by default
	assert.GreaterOrEqual(t, indexOf(actions, models.ResearchAction(tech(t, g, scaleBardingID))), 0)
	assert.GreaterOrEqual(t, indexOf(actions, models.ResearchAction(tech(t, g, loomID))), 0)

	for _, a := range actions {
		assert.True(t, a.Buildable(), "placeholder %s leaked into the plan", a)
	}
}

func TestUpgradesAndEconomyOptional(t *testing.T) {
	g := britons(t)
	goals := Goals{Primary: unit(t, g, knightID)}

	opts := searchOpts(5)
	opts.Upgrades = false
	opts.Economy = false

	plan, err := g.BuildOrder(context.Background(), goals, opts)
	require.NoError(t, err)

	actions := plan.Actions()
	assert.Equal(t, -1, indexOf(actions, models.ResearchAction(tech(t, g, scaleBardingID))))
	assert.Equal(t, -1, indexOf(actions, models.ResearchAction(tech(t, g, loomID))))
	assert.Equal(t, models.BuildAction(goals.Primary), actions[len(actions)-1],
		"without upgrades nothing depends on the goal")
}

func TestBuildOrderIsIdempotent(t *testing.T) {
	g := britons(t)
	goals := Goals{Primary: unit(t, g, knightID), Siege: unit(t, g, onagerID)}

	first, err := g.BuildOrder(context.Background(), goals, searchOpts(25))
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 8} {
		opts := searchOpts(25)
		opts.Workers = workers
		again, err := g.BuildOrder(context.Background(), goals, opts)
		require.NoError(t, err)

		assert.Equal(t, first.Actions(), again.Actions(), "workers=%d", workers)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Trial, again.Trial)
	}

	// A fresh generator over the same civilization carries no state over
	other := NewGenerator(g.Civilization(), WithLogger(quietLogger()))
	again, err := other.BuildOrder(context.Background(), goals, searchOpts(25))
	require.NoError(t, err)
	assert.Equal(t, first.Actions(), again.Actions())
}

func TestBestOfNIsMonotone(t *testing.T) {
	g := britons(t)
	goals := Goals{Primary: unit(t, g, archerID), Siege: unit(t, g, onagerID)}

	previous := -1.0
	for _, n := range []int{1, 2, 5, 10, 20, 40} {
		plan, err := g.BuildOrder(context.Background(), goals, searchOpts(n))
		require.NoError(t, err)
		if previous >= 0 {
			assert.LessOrEqual(t, plan.Score, previous, "attempts=%d", n)
		}
		previous = plan.Score
	}
}

func TestObserverSeesEveryTrial(t *testing.T) {
	g := britons(t)
	goals := Goals{Primary: unit(t, g, knightID)}

	var (
		mu      sync.Mutex
		seen    = map[int]bool{}
		improve int
	)
	obs := ObserverFunc(func(r TrialResult) {
		mu.Lock()
		defer mu.Unlock()
		seen[r.Trial] = true
		if r.Improved {
			improve++
		}
	})

	plan, err := g.BuildOrderObserved(context.Background(), goals, searchOpts(12), obs)
	require.NoError(t, err)
	assert.Len(t, seen, 12)
	assert.GreaterOrEqual(t, improve, 1)
	assert.True(t, seen[plan.Trial])
}

func TestCanceledContext(t *testing.T) {
	g := britons(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.BuildOrder(ctx, Goals{Primary: unit(t, g, knightID)}, searchOpts(10))
	assert.True(t, errors.Is(err, context.Canceled))
}
