package buildorder

import (
	"slices"

	"github.com/napolitain/buildorder/internal/models"
)

// Step is one scheduled action with the class that placed it
type Step struct {
	Action   models.Action
	Category Category
	Role     Role
	Priority int
}

// scheduleState is the running state of the linearizer
type scheduleState struct {
	age       int
	targetAge map[Role]int
	training  map[Role]bool
}

// linearize orders actions along the dependency DAG recorded in the trial
// memo, picking the highest priority available action at every step.
// Ties go to the action that became available first. The returned score
// is lower for better orders.
func (g *Generator) linearize(r *resolver, actions []models.Action, goals Goals) ([]Step, float64) {
	cls := g.newClassifier(goals)

	state := &scheduleState{
		age:       1,
		targetAge: make(map[Role]int),
		training:  make(map[Role]bool),
	}
	for _, rg := range cls.roles {
		state.targetAge[rg.role] = g.targetAge(r, rg.unit)
	}

	inSet := make(map[models.Action]bool, len(actions))
	for _, a := range actions {
		inSet[a] = true
	}

	classes := make(map[models.Action]classification, len(actions))
	remaining := make(map[models.Action]int, len(actions))
	dependents := make(map[models.Action][]models.Action, len(actions))
	var available []models.Action

	for _, a := range actions {
		classes[a] = cls.classify(a)
		deps := predecessors(r, a, inSet)
		remaining[a] = len(deps)
		for _, d := range deps {
			dependents[d] = append(dependents[d], a)
		}
		if len(deps) == 0 {
			available = append(available, a)
		}
	}

	steps := make([]Step, 0, len(actions))
	var score float64

	for len(available) > 0 {
		bestIdx := 0
		bestPriority := -1
		for i, a := range available {
			if p := classes[a].priority(state); p > bestPriority {
				bestIdx = i
				bestPriority = p
			}
		}

		best := available[bestIdx]
		available = slices.Delete(available, bestIdx, bestIdx+1)

		cl := classes[best]
		steps = append(steps, Step{Action: best, Category: cl.Category, Role: cl.Role, Priority: bestPriority})
		score += float64(ScoreScale*bestPriority*len(steps)) + float64(best.Cost().Total())

		switch cl.Category {
		case CategoryAgeUp:
			state.age++
		case CategoryTrain:
			state.training[cl.Role] = true
		}

		for _, d := range dependents[best] {
			remaining[d]--
			if remaining[d] == 0 {
				available = append(available, d)
			}
		}
	}

	return steps, score
}

// predecessors returns the buildable actions of a's sub-plan that are
// part of the final set, excluding a itself
func predecessors(r *resolver, a models.Action, inSet map[models.Action]bool) []models.Action {
	n, ok := actionKey(a)
	if !ok {
		return nil
	}
	sub, _ := r.solved(n)
	var deps []models.Action
	for _, d := range sub {
		if d == a || !d.Buildable() || !inSet[d] {
			continue
		}
		deps = append(deps, d)
	}
	return deps
}

// targetAge is 1 plus the highest age advancement found in u's sub-plan
func (g *Generator) targetAge(r *resolver, u *models.Unit) int {
	sub, _ := r.solved(unitKey(u))
	return planAge(g.civ, sub)
}

func planAge(civ *models.Civilization, plan []models.Action) int {
	age := 1
	for _, a := range plan {
		if a.Kind != models.ActionResearch {
			continue
		}
		if i := civ.AgeIndex(a.Technology); i > 0 && i+1 > age {
			age = i + 1
		}
	}
	return age
}
