package buildorder

import (
	"github.com/napolitain/buildorder/internal/models"
)

// Scheduling weights. Higher priority actions are scheduled first.
const (
	AgeUpWeight       = 100
	EconomyWeight     = 150
	StatUpgradeWeight = 200
	UnitUpgradeWeight = 300
	TrainSiteWeight   = 400
	DropsiteWeight    = 450
	TrainWeight       = 500

	// ScoreScale multiplies priority by emission position in the score
	ScoreScale = 10
)

var categoryWeights = map[Category]int{
	CategoryAgeUp:       AgeUpWeight,
	CategoryEconomy:     EconomyWeight,
	CategoryStatUpgrade: StatUpgradeWeight,
	CategoryUnitUpgrade: UnitUpgradeWeight,
	CategoryTrainSite:   TrainSiteWeight,
	CategoryDropsite:    DropsiteWeight,
	CategoryTrain:       TrainWeight,
}

// Tie-break offsets: primary > secondary > siege
var roleOffsets = map[Role]int{
	RolePrimary:   30,
	RoleSecondary: 20,
	RoleSiege:     10,
}

var dropsiteOffsets = map[models.Resource]int{
	models.Wood:  30,
	models.Food:  20,
	models.Gold:  10,
	models.Stone: 0,
}

// gate reports whether an action of a category may score yet
type gate func(c classification, s *scheduleState) bool

func ageReached(c classification, s *scheduleState) bool {
	return s.age >= s.targetAge[c.Role]
}

func roleTraining(c classification, s *scheduleState) bool {
	return s.training[c.Role]
}

// Gated categories score zero until the gate opens
var categoryGates = map[Category]gate{
	CategoryTrain:       ageReached,
	CategoryUnitUpgrade: ageReached,
	CategoryTrainSite:   ageReached,
	CategoryStatUpgrade: roleTraining,
}

// classification is the static scheduling class of an action
type classification struct {
	Category Category
	Role     Role
	Resource models.Resource
}

// priority returns the current scheduling priority of an action
func (c classification) priority(s *scheduleState) int {
	weight, ok := categoryWeights[c.Category]
	if !ok {
		return 0
	}
	if g, gated := categoryGates[c.Category]; gated && !g(c, s) {
		return 0
	}
	switch c.Category {
	case CategoryDropsite:
		weight += dropsiteOffsets[c.Resource]
	default:
		weight += roleOffsets[c.Role]
	}
	return weight
}

// roleGoal is one goal unit with its upgrade set
type roleGoal struct {
	role     Role
	unit     *models.Unit
	upgrades map[*models.Technology]bool
}

// classifier assigns categories to actions for one set of goals
type classifier struct {
	civ     *models.Civilization
	economy map[*models.Technology]bool
	roles   []roleGoal
}

func (g *Generator) newClassifier(goals Goals) *classifier {
	c := &classifier{
		civ:     g.civ,
		economy: make(map[*models.Technology]bool, len(g.economy)),
	}
	for _, t := range g.economy {
		c.economy[t] = true
	}
	for _, rg := range goals.roles() {
		set := make(map[*models.Technology]bool)
		for _, t := range g.RoleUpgrades(rg.unit) {
			set[t] = true
		}
		rg.upgrades = set
		c.roles = append(c.roles, rg)
	}
	return c
}

// rule is one predicate of the ordered classification list
type rule struct {
	name  string
	match func(c *classifier, a models.Action) (classification, bool)
}

// Rules are checked in order and the first match wins. Dropsites come
// before production buildings, so a production building that is also a
// dropsite is scheduled at dropsite priority.
var classificationRules = []rule{
	{"age-up", matchAgeUp},
	{"economy", matchEconomy},
	{"role-upgrade", matchRoleUpgrade},
	{"dropsite", matchDropsite},
	{"role-train", matchRoleTrain},
	{"role-train-site", matchRoleTrainSite},
}

func (c *classifier) classify(a models.Action) classification {
	for _, r := range classificationRules {
		if cl, ok := r.match(c, a); ok {
			return cl
		}
	}
	return classification{}
}

func matchAgeUp(c *classifier, a models.Action) (classification, bool) {
	if a.Kind != models.ActionResearch || c.civ.AgeIndex(a.Technology) < 0 {
		return classification{}, false
	}
	return classification{Category: CategoryAgeUp}, true
}

func matchEconomy(c *classifier, a models.Action) (classification, bool) {
	if a.Kind != models.ActionResearch || !c.economy[a.Technology] {
		return classification{}, false
	}
	return classification{Category: CategoryEconomy}, true
}

// matchRoleUpgrade picks the first role whose upgrade set holds the
// technology. The first decisive effect tells unit upgrades from stat upgrades.
func matchRoleUpgrade(c *classifier, a models.Action) (classification, bool) {
	if a.Kind != models.ActionResearch {
		return classification{}, false
	}
	for _, rg := range c.roles {
		if !rg.upgrades[a.Technology] {
			continue
		}
		cl := classification{Role: rg.role}
		for _, e := range a.Technology.Effects {
			if e.Kind == models.EffectEnableUnit || e.Kind == models.EffectUpgradeUnit {
				cl.Category = CategoryUnitUpgrade
				break
			}
			if e.Kind == models.EffectModifyAttribute {
				cl.Category = CategoryStatUpgrade
				break
			}
		}
		return cl, true
	}
	return classification{}, false
}

func matchDropsite(c *classifier, a models.Action) (classification, bool) {
	if a.Kind != models.ActionBuild {
		return classification{}, false
	}
	r, ok := c.civ.DropsiteResource(a.Unit)
	if !ok {
		return classification{}, false
	}
	return classification{Category: CategoryDropsite, Resource: r}, true
}

func matchRoleTrain(c *classifier, a models.Action) (classification, bool) {
	if a.Kind != models.ActionBuild {
		return classification{}, false
	}
	for _, rg := range c.roles {
		if rg.unit == a.Unit {
			return classification{Category: CategoryTrain, Role: rg.role}, true
		}
	}
	return classification{}, false
}

func matchRoleTrainSite(c *classifier, a models.Action) (classification, bool) {
	if a.Kind != models.ActionBuild {
		return classification{}, false
	}
	for _, rg := range c.roles {
		if rg.unit.TrainLocation != nil && rg.unit.TrainLocation == a.Unit {
			return classification{Category: CategoryTrainSite, Role: rg.role}, true
		}
	}
	return classification{}, false
}
