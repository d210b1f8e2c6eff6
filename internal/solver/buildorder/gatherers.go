package buildorder

import (
	"github.com/napolitain/buildorder/internal/models"
)

// Gatherer checkpoint weights for the goal unit's production line
const (
	GoalTrainWeight     = 20
	GoalTrainSiteWeight = 3
)

// InsertGatherers returns a copy of actions with gatherer splits inserted.
// A segment closes at every age advancement and at the last action; its
// split is placed at the start of the segment so it directs the gatherers
// for the actions that follow. A final split from the goal's own cost is
// appended.
func InsertGatherers(actions []models.Action, civ *models.Civilization, goal *models.Unit) ([]models.Action, error) {
	for _, a := range actions {
		if a.Kind == models.ActionGatherers {
			return nil, ErrGatherersPresent
		}
	}
	if goal == nil {
		return nil, ErrInvalidGoal
	}

	out := make([]models.Action, 0, len(actions)+models.AgeCount+1)
	var (
		segment []models.Action
		cost    models.Cost
	)

	for i, a := range actions {
		c := a.Cost()
		if a.Kind == models.ActionBuild && a.Unit == goal {
			c = c.Scale(GoalTrainWeight)
			if goal.TrainLocation != nil {
				c = c.Add(goal.TrainLocation.Cost.Scale(GoalTrainSiteWeight))
			}
		}
		cost = cost.Add(c)
		segment = append(segment, a)

		ageUp := a.Kind == models.ActionResearch && civ.AgeIndex(a.Technology) >= 0
		if ageUp || i == len(actions)-1 {
			out = append(out, models.GatherersAction(models.SplitOf(cost)))
			out = append(out, segment...)
			segment = segment[:0]
			cost = models.Cost{}
		}
	}

	return append(out, models.GatherersAction(models.SplitOf(goal.Cost))), nil
}

// Gatherers returns the plan's actions with gatherer splits for its primary goal
func (p *Plan) Gatherers(civ *models.Civilization) ([]models.Action, error) {
	return InsertGatherers(p.Actions(), civ, p.Goals.Primary)
}
