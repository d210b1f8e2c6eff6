package models

import "fmt"

// ActionKind tags the Action variant
type ActionKind int

const (
	ActionBuild ActionKind = iota // build a building or train a unit
	ActionResearch
	ActionGatherers
)

// String returns a string representation of the action kind
func (k ActionKind) String() string {
	switch k {
	case ActionBuild:
		return "Build"
	case ActionResearch:
		return "Research"
	case ActionGatherers:
		return "Gatherers"
	default:
		return "Unknown"
	}
}

// Gatherer split codes are offset per resource in the output contract
const (
	FoodSplitOffset  = 13000
	WoodSplitOffset  = 12000
	GoldSplitOffset  = 11000
	StoneSplitOffset = 10000
)

// Action is one step of a build order. Actions are comparable: two actions
// referencing the same entity are equal and may be used as map keys.
type Action struct {
	Kind       ActionKind
	Unit       *Unit
	Technology *Technology
	Split      Split
}

// BuildAction returns the build/train action for u
func BuildAction(u *Unit) Action {
	return Action{Kind: ActionBuild, Unit: u}
}

// ResearchAction returns the research action for t
func ResearchAction(t *Technology) Action {
	return Action{Kind: ActionResearch, Technology: t}
}

// GatherersAction returns a set-gatherer-split action
func GatherersAction(s Split) Action {
	return Action{Kind: ActionGatherers, Split: s}
}

// Buildable reports whether the target runtime can execute the action.
// Research of free technologies or technologies without a research
// location are placeholders.
func (a Action) Buildable() bool {
	if a.Kind != ActionResearch {
		return true
	}
	return a.Technology != nil && !a.Technology.Free && a.Technology.ResearchLocation != nil
}

// Cost returns the raw cost of the underlying entity
func (a Action) Cost() Cost {
	switch a.Kind {
	case ActionBuild:
		return a.Unit.Cost
	case ActionResearch:
		return a.Technology.Cost
	}
	return Cost{}
}

// ID returns the stable numeric id of the underlying entity (0 for splits)
func (a Action) ID() int {
	switch a.Kind {
	case ActionBuild:
		return a.Unit.ID
	case ActionResearch:
		return a.Technology.ID
	}
	return 0
}

// Codes returns the numeric program lines for the action.
// Research emits the technology id, build/train the negated base unit id,
// and splits four offset percentages (food, wood, gold, stone).
func (a Action) Codes() []int {
	switch a.Kind {
	case ActionResearch:
		return []int{a.Technology.ID}
	case ActionBuild:
		return []int{-a.Unit.BaseUnit().ID}
	case ActionGatherers:
		return []int{
			a.Split.Food + FoodSplitOffset,
			a.Split.Wood + WoodSplitOffset,
			a.Split.Gold + GoldSplitOffset,
			a.Split.Stone + StoneSplitOffset,
		}
	}
	return nil
}

// String returns a readable form of the action
func (a Action) String() string {
	switch a.Kind {
	case ActionBuild:
		return fmt.Sprintf("%s %d %s", a.Unit.Verb(), a.Unit.ID, a.Unit.Name)
	case ActionResearch:
		return fmt.Sprintf("Research %d %s", a.Technology.ID, a.Technology.Name)
	case ActionGatherers:
		return fmt.Sprintf("Set gatherers %d %d %d %d", a.Split.Food, a.Split.Wood, a.Split.Gold, a.Split.Stone)
	}
	return "Unknown"
}

// TotalCost sums the raw costs of all actions
func TotalCost(actions []Action) Cost {
	var c Cost
	for _, a := range actions {
		c = c.Add(a.Cost())
	}
	return c
}

// Dedupe removes structurally equal actions, keeping first occurrences
func Dedupe(actions []Action) []Action {
	seen := make(map[Action]bool, len(actions))
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// FilterBuildable drops placeholder actions, preserving order
func FilterBuildable(actions []Action) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.Buildable() {
			out = append(out, a)
		}
	}
	return out
}

// EncodeProgram returns the total-count header followed by every action code
func EncodeProgram(actions []Action) []int {
	var codes []int
	for _, a := range actions {
		codes = append(codes, a.Codes()...)
	}
	return append([]int{len(codes)}, codes...)
}
