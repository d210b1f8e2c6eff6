package buildorder

import (
	"math/rand/v2"
	"slices"

	"github.com/napolitain/buildorder/internal/models"
)

type nodeKind uint8

const (
	unitNode nodeKind = iota
	techNode
)

// node is one vertex of the dependency graph
type node struct {
	kind nodeKind
	unit *models.Unit
	tech *models.Technology
}

func unitKey(u *models.Unit) node       { return node{kind: unitNode, unit: u} }
func techKey(t *models.Technology) node { return node{kind: techNode, tech: t} }

func actionKey(a models.Action) (node, bool) {
	switch a.Kind {
	case models.ActionBuild:
		return unitKey(a.Unit), true
	case models.ActionResearch:
		return techKey(a.Technology), true
	}
	return node{}, false
}

type status uint8

const (
	unvisited status = iota
	inProgress
	done
	failed
)

type visit struct {
	status status
	plan   []models.Action
}

// resolver walks the dependency graph for one trial.
// Its memo table and random source are private to the trial.
type resolver struct {
	g      *Generator
	rng    *rand.Rand
	visits map[node]*visit
}

func newResolver(g *Generator, rng *rand.Rand) *resolver {
	r := &resolver{
		g:      g,
		rng:    rng,
		visits: make(map[node]*visit),
	}
	if base := g.civ.Ages[0]; base != nil {
		r.visits[techKey(base)] = &visit{status: done}
	}
	for _, u := range g.civ.StartingUnits {
		r.visits[unitKey(u)] = &visit{status: done}
	}
	return r
}

// solved returns the memoized plan of n without resolving it
func (r *resolver) solved(n node) ([]models.Action, bool) {
	v := r.visits[n]
	if v == nil || v.status != done {
		return nil, false
	}
	return v.plan, true
}

// solve resolves n into an ordered plan ending with n's own action.
// Structural failures are memoized; failures that come from recursion are
// not, since they may only reflect the in-progress guard.
func (r *resolver) solve(n node) ([]models.Action, bool) {
	if v := r.visits[n]; v != nil {
		switch v.status {
		case done:
			return v.plan, true
		case inProgress, failed:
			return nil, false
		}
	}

	if r.unreachable(n) {
		r.visits[n] = &visit{status: failed}
		return nil, false
	}

	v := &visit{status: inProgress}
	r.visits[n] = v

	var plan []models.Action
	var ok bool
	if n.kind == unitNode {
		plan, ok = r.expandUnit(n.unit)
	} else {
		plan, ok = r.expandTechnology(n.tech)
	}
	if !ok {
		delete(r.visits, n)
		return nil, false
	}

	v.status = done
	v.plan = models.Dedupe(plan)
	return v.plan, true
}

// unreachable reports failures that no random choice can avoid
func (r *resolver) unreachable(n node) bool {
	if n.kind == unitNode {
		u := n.unit
		if !r.g.possible[u] {
			return true
		}
		return u.TechRequired && len(r.g.enablers[u]) == 0
	}
	t := n.tech
	if !r.g.civ.HasTechnology(t) {
		return true
	}
	return t.MinPrerequisites == 0 && len(r.g.initiators[t]) == 0
}

func (r *resolver) expandUnit(u *models.Unit) ([]models.Action, bool) {
	var plan []models.Action

	if u.TrainLocation != nil {
		sub, ok := r.solve(unitKey(u.TrainLocation))
		if !ok {
			return nil, false
		}
		plan = append(plan, sub...)
	}

	if u.TechRequired {
		var options [][]models.Action
		for _, t := range r.g.enablers[u] {
			if sub, ok := r.solve(techKey(t)); ok {
				options = append(options, sub)
			}
		}
		if len(options) == 0 {
			return nil, false
		}
		plan = append(plan, options[r.rng.IntN(len(options))]...)
	}

	return append(plan, models.BuildAction(u)), true
}

func (r *resolver) expandTechnology(t *models.Technology) ([]models.Action, bool) {
	var plan []models.Action

	if t.ResearchLocation != nil {
		sub, ok := r.solve(unitKey(t.ResearchLocation))
		if !ok {
			return nil, false
		}
		plan = append(plan, sub...)
	}

	if k := t.MinPrerequisites; k > 0 {
		chosen := r.solvedPrerequisites(t)
		if len(chosen) < k {
			chosen = chosen[:0]
			for _, p := range t.Prerequisites {
				if sub, ok := r.solve(techKey(p)); ok {
					chosen = append(chosen, sub)
				}
			}
		}
		if len(chosen) < k {
			return nil, false
		}
		for len(chosen) > k {
			i := r.rng.IntN(len(chosen))
			chosen = slices.Delete(chosen, i, i+1)
		}
		for _, sub := range chosen {
			plan = append(plan, sub...)
		}
	} else {
		sub, ok := r.solveInitiator(t)
		if !ok {
			return nil, false
		}
		plan = append(plan, sub...)
	}

	return append(plan, models.ResearchAction(t)), true
}

func (r *resolver) solvedPrerequisites(t *models.Technology) [][]models.Action {
	var chosen [][]models.Action
	for _, p := range t.Prerequisites {
		if sub, ok := r.solved(techKey(p)); ok {
			chosen = append(chosen, sub)
		}
	}
	return chosen
}

// solveInitiator stands in the first solvable initiating unit for a
// technology without prerequisites. Already solved initiators win.
func (r *resolver) solveInitiator(t *models.Technology) ([]models.Action, bool) {
	units := r.g.initiators[t]
	for _, u := range units {
		if sub, ok := r.solved(unitKey(u)); ok {
			return sub, true
		}
	}
	for _, u := range units {
		if sub, ok := r.solve(unitKey(u)); ok {
			return sub, true
		}
	}
	return nil, false
}
