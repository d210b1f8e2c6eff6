package models

import "fmt"

// UnitClass represents the unit class of the reference data
type UnitClass string

const (
	ClassCivilian      UnitClass = "civilian"
	ClassInfantry      UnitClass = "infantry"
	ClassSpearman      UnitClass = "spearman"
	ClassArcher        UnitClass = "archer"
	ClassCavalry       UnitClass = "cavalry"
	ClassCavalryArcher UnitClass = "cavalry_archer"
	ClassScout         UnitClass = "scout"
	ClassMonk          UnitClass = "monk"
	ClassSiege         UnitClass = "siege"
	ClassBuilding      UnitClass = "building"
	ClassShip          UnitClass = "ship"
	ClassOther         UnitClass = "other"
)

// Military reports whether the class trains combat units a plan may target
func (c UnitClass) Military() bool {
	switch c {
	case ClassInfantry, ClassSpearman, ClassArcher, ClassCavalry,
		ClassCavalryArcher, ClassScout, ClassMonk, ClassSiege:
		return true
	}
	return false
}

// Stats holds the base combat stats of a unit
type Stats struct {
	Hitpoints          int
	Attack             int
	AntiBuildingAttack int
	Armor              int
	Range              int
	ReloadTime         float64
}

// Unit represents a trainable unit or constructible building
type Unit struct {
	ID           int
	Name         string
	Class        UnitClass
	Building     bool
	Land         bool
	Available    bool // enabled without research
	TechRequired bool // some technology enables or upgrades into this unit
	Stats        Stats
	Cost         Cost

	TrainLocation *Unit       // where the unit is trained; nil for buildings
	Initiates     *Technology // placeholder technology this unit stands in for
	UpgradesTo    []*Unit
	UpgradedFrom  []*Unit
}

// BaseUnit returns the root of the unit's upgrade line
func (u *Unit) BaseUnit() *Unit {
	current := u
	seen := map[*Unit]bool{u: true}
	for len(current.UpgradedFrom) > 0 {
		prev := current.UpgradedFrom[0]
		if seen[prev] {
			break
		}
		seen[prev] = true
		current = prev
	}
	return current
}

// Verb returns "Build" for buildings and "Train" otherwise
func (u *Unit) Verb() string {
	if u.Building {
		return "Build"
	}
	return "Train"
}

// String returns "id name"
func (u *Unit) String() string {
	if u == nil {
		return "<nil unit>"
	}
	return fmt.Sprintf("%d %s", u.ID, u.Name)
}
