package buildorder

// Role identifies which goal an action serves
type Role int

const (
	RoleNone Role = iota
	RolePrimary
	RoleSecondary
	RoleSiege
)

// String returns a string representation of the role
func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleSiege:
		return "siege"
	default:
		return "none"
	}
}

// Category is the scheduling class of an action
type Category int

const (
	CategoryNone Category = iota
	CategoryAgeUp
	CategoryEconomy
	CategoryStatUpgrade
	CategoryUnitUpgrade
	CategoryTrainSite
	CategoryDropsite
	CategoryTrain
)

// String returns a string representation of the category
func (c Category) String() string {
	switch c {
	case CategoryAgeUp:
		return "AgeUp"
	case CategoryEconomy:
		return "Economy"
	case CategoryStatUpgrade:
		return "StatUpgrade"
	case CategoryUnitUpgrade:
		return "UnitUpgrade"
	case CategoryTrainSite:
		return "TrainSite"
	case CategoryDropsite:
		return "Dropsite"
	case CategoryTrain:
		return "Train"
	default:
		return "None"
	}
}
