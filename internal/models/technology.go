package models

import "fmt"

// EffectKind identifies the command carried by an Effect
type EffectKind string

const (
	EffectEnableUnit      EffectKind = "enable_unit"
	EffectDisableUnit     EffectKind = "disable_unit"
	EffectUpgradeUnit     EffectKind = "upgrade_unit"
	EffectModifyAttribute EffectKind = "modify_attribute"
	EffectDisableTech     EffectKind = "disable_tech"
)

// Attribute is a unit attribute touched by ModifyAttribute effects
type Attribute string

const (
	AttrHitpoints     Attribute = "hitpoints"
	AttrAttack        Attribute = "attack"
	AttrArmor         Attribute = "armor"
	AttrRange         Attribute = "range"
	AttrReloadTime    Attribute = "reload_time"
	AttrWorkRate      Attribute = "work_rate"
	AttrCarryCapacity Attribute = "carry_capacity"
	AttrTrainTime     Attribute = "train_time"
	AttrLineOfSight   Attribute = "line_of_sight"
	AttrSpeed         Attribute = "speed"
)

// ModifyOp is how a ModifyAttribute effect combines with the base value
type ModifyOp string

const (
	OpSet      ModifyOp = "set"
	OpAdd      ModifyOp = "add"
	OpMultiply ModifyOp = "multiply"
)

// Effect is one command of a technology's effect list
type Effect struct {
	Kind      EffectKind
	UnitID    int       // enable/disable target, upgrade source, modify target (-1 = any)
	ToUnitID  int       // upgrade target
	Class     UnitClass // modify target class ("" = any)
	Attribute Attribute
	Op        ModifyOp
	Amount    float64
	TechID    int // disable_tech target
}

// Enables reports whether the effect makes unitID trainable
func (e Effect) Enables(unitID int) bool {
	switch e.Kind {
	case EffectEnableUnit:
		return e.UnitID == unitID
	case EffectUpgradeUnit:
		return e.ToUnitID == unitID
	}
	return false
}

// Modifies reports whether the effect is an attribute modifier touching u
func (e Effect) Modifies(u *Unit) bool {
	if e.Kind != EffectModifyAttribute || u == nil {
		return false
	}
	return e.UnitID == u.ID || (e.Class != "" && e.Class == u.Class)
}

// Technology represents a researchable technology
type Technology struct {
	ID               int
	Name             string
	Civ              int // owning civilization, -1 for shared
	Prerequisites    []*Technology
	MinPrerequisites int // any K of the prerequisites
	ResearchLocation *Unit
	Free             bool
	Effects          []Effect
	Cost             Cost
}

// HasEffect reports whether any effect has the given kind
func (t *Technology) HasEffect(kind EffectKind) bool {
	for _, e := range t.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// String returns "id name"
func (t *Technology) String() string {
	if t == nil {
		return "<nil technology>"
	}
	return fmt.Sprintf("%d %s", t.ID, t.Name)
}
