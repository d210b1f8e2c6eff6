package buildorder

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/buildorder/internal/models"
)

func TestCyclicPrerequisitesAreUnresolvable(t *testing.T) {
	base := &models.Technology{ID: 1, Name: "Base", Free: true}
	hall := &models.Unit{ID: 10, Name: "Hall", Building: true, Land: true, Available: true}
	a := &models.Technology{ID: 2, Name: "A", ResearchLocation: hall, MinPrerequisites: 1}
	b := &models.Technology{ID: 3, Name: "B", ResearchLocation: hall, MinPrerequisites: 1}
	a.Prerequisites = []*models.Technology{b}
	b.Prerequisites = []*models.Technology{a}
	soldier := &models.Unit{
		ID: 20, Name: "Soldier", Land: true, TechRequired: true, TrainLocation: hall,
	}
	a.Effects = []models.Effect{{Kind: models.EffectEnableUnit, UnitID: soldier.ID}}

	civ := newTestCiv(base, []*models.Unit{hall, soldier}, []*models.Technology{a, b}, hall)
	g := NewGenerator(civ, WithLogger(quietLogger()))

	r := newResolver(g, rand.New(rand.NewPCG(1, 0)))
	_, ok := r.solve(techKey(a))
	assert.False(t, ok, "A must not resolve")
	_, ok = r.solve(techKey(b))
	assert.False(t, ok, "B must not resolve")

	// Recursive failures are not memoized
	assert.Nil(t, r.visits[techKey(a)])
	assert.Nil(t, r.visits[techKey(b)])

	_, err := g.BuildOrder(context.Background(), Goals{Primary: soldier}, searchOpts(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvableDependency))

	var unresolvable *UnresolvableError
	require.True(t, errors.As(err, &unresolvable))
	assert.Equal(t, RolePrimary, unresolvable.Role)
	assert.Equal(t, soldier.ID, unresolvable.ID)
}

func TestAnyOneOfTwoPrerequisites(t *testing.T) {
	base := &models.Technology{ID: 1, Name: "Base", Free: true}
	hall := &models.Unit{ID: 10, Name: "Hall", Building: true, Land: true, Available: true}
	t1 := &models.Technology{
		ID: 2, Name: "T1", ResearchLocation: hall,
		Prerequisites: []*models.Technology{base}, MinPrerequisites: 1,
		Cost: models.Cost{Food: 100},
	}
	t2 := &models.Technology{
		ID: 3, Name: "T2", ResearchLocation: hall,
		Prerequisites: []*models.Technology{base}, MinPrerequisites: 1,
		Cost: models.Cost{Gold: 100},
	}
	target := &models.Technology{
		ID: 4, Name: "T", ResearchLocation: hall,
		Prerequisites: []*models.Technology{t1, t2}, MinPrerequisites: 1,
	}

	civ := newTestCiv(base, []*models.Unit{hall}, []*models.Technology{t1, t2, target}, hall)
	g := NewGenerator(civ, WithLogger(quietLogger()))

	chosen := map[*models.Technology]int{}
	for trial := range 64 {
		r := newResolver(g, rand.New(rand.NewPCG(7, uint64(trial))))
		plan, ok := r.solve(techKey(target))
		require.True(t, ok)

		has1 := slices.Contains(plan, models.ResearchAction(t1))
		has2 := slices.Contains(plan, models.ResearchAction(t2))
		require.True(t, has1 != has2, "exactly one prerequisite is spliced: %v", plan)
		if has1 {
			chosen[t1]++
		} else {
			chosen[t2]++
		}
		assert.Equal(t, models.ResearchAction(target), plan[len(plan)-1])
	}

	assert.Positive(t, chosen[t1], "T1 never chosen")
	assert.Positive(t, chosen[t2], "T2 never chosen")
}

func TestAlreadySolvedPrerequisitesArePreferred(t *testing.T) {
	base := &models.Technology{ID: 1, Name: "Base", Free: true}
	hall := &models.Unit{ID: 10, Name: "Hall", Building: true, Land: true, Available: true}
	t1 := &models.Technology{
		ID: 2, Name: "T1", ResearchLocation: hall,
		Prerequisites: []*models.Technology{base}, MinPrerequisites: 1,
	}
	t2 := &models.Technology{
		ID: 3, Name: "T2", ResearchLocation: hall,
		Prerequisites: []*models.Technology{base}, MinPrerequisites: 1,
	}
	target := &models.Technology{
		ID: 4, Name: "T", ResearchLocation: hall,
		Prerequisites: []*models.Technology{t1, t2}, MinPrerequisites: 1,
	}

	civ := newTestCiv(base, []*models.Unit{hall}, []*models.Technology{t1, t2, target}, hall)
	g := NewGenerator(civ, WithLogger(quietLogger()))

	for trial := range 16 {
		r := newResolver(g, rand.New(rand.NewPCG(3, uint64(trial))))
		_, ok := r.solve(techKey(t2))
		require.True(t, ok)

		plan, ok := r.solve(techKey(target))
		require.True(t, ok)
		assert.NotContains(t, plan, models.ResearchAction(t1))
		assert.Contains(t, plan, models.ResearchAction(t2))
	}
}

func TestStructuralFailuresAreMemoized(t *testing.T) {
	g := britons(t)
	galley := unit(t, g, galleyID)

	r := newResolver(g, rand.New(rand.NewPCG(1, 0)))
	_, ok := r.solve(unitKey(galley))
	assert.False(t, ok, "ships are not land units")
	require.NotNil(t, r.visits[unitKey(galley)])
	assert.Equal(t, failed, r.visits[unitKey(galley)].status)
}

func TestStartingUnitsResolveEmpty(t *testing.T) {
	g := britons(t)
	r := newResolver(g, rand.New(rand.NewPCG(1, 0)))

	plan, ok := r.solve(unitKey(unit(t, g, townCenterID)))
	assert.True(t, ok)
	assert.Empty(t, plan)

	plan, ok = r.solve(techKey(g.Civilization().Ages[0]))
	assert.True(t, ok)
	assert.Empty(t, plan)
}

func TestSolveUnitPlanShape(t *testing.T) {
	g := britons(t)
	knight := unit(t, g, knightID)
	stable := models.BuildAction(unit(t, g, stableID))
	feudal := models.ResearchAction(tech(t, g, feudalAgeID))
	castle := models.ResearchAction(tech(t, g, castleAgeID))

	for trial := range 20 {
		r := newResolver(g, rand.New(rand.NewPCG(11, uint64(trial))))
		plan, ok := r.solve(unitKey(knight))
		require.True(t, ok)

		assert.Equal(t, models.BuildAction(knight), plan[len(plan)-1], "the unit's own action closes its plan")
		assert.Less(t, indexOf(plan, stable), len(plan)-1)
		assert.Less(t, indexOf(plan, feudal), indexOf(plan, castle))
		assert.Len(t, models.Dedupe(plan), len(plan), "plans carry no duplicates")
	}
}

func TestInitiatorStandsInForPlaceholder(t *testing.T) {
	g := britons(t)
	barracksBuilt := tech(t, g, 601)

	r := newResolver(g, rand.New(rand.NewPCG(1, 0)))
	plan, ok := r.solve(techKey(barracksBuilt))
	require.True(t, ok)
	assert.Equal(t, []models.Action{
		models.BuildAction(unit(t, g, barracksID)),
		models.ResearchAction(barracksBuilt),
	}, plan)
}

func TestUnitAge(t *testing.T) {
	g := britons(t)

	tests := []struct {
		id   int
		want int
	}{
		{militiaID, 1},
		{archerID, 2},
		{manAtArmsID, 2},
		{knightID, 3},
		{onagerID, 4},
		{galleyID, -1},
	}
	for _, tt := range tests {
		u := unit(t, g, tt.id)
		assert.Equal(t, tt.want, g.UnitAge(u), "age of %s", u.Name)
	}
}
