package models

// AgeCount is the number of tier-advancement technologies per civilization
const AgeCount = 4

// Civilization is the immutable universe a build order is planned in.
// It is safe to share between concurrent searches.
type Civilization struct {
	ID            int
	Name          string
	Units         []*Unit       // catalog order
	Technologies  []*Technology // catalog order
	Ages          [AgeCount]*Technology
	Dropsites     map[Resource]*Unit
	StartingUnits []*Unit // present at game start, resolve to an empty plan

	unitsByID    map[int]*Unit
	techsByID    map[int]*Technology
	starting     map[*Unit]bool
	dropsiteKind map[*Unit]Resource
}

// NewCivilization builds the lookup indexes for a civilization
func NewCivilization(
	id int,
	name string,
	units []*Unit,
	technologies []*Technology,
	ages [AgeCount]*Technology,
	dropsites map[Resource]*Unit,
	starting []*Unit,
) *Civilization {
	c := &Civilization{
		ID:            id,
		Name:          name,
		Units:         units,
		Technologies:  technologies,
		Ages:          ages,
		Dropsites:     make(map[Resource]*Unit, len(dropsites)),
		StartingUnits: starting,
		unitsByID:     make(map[int]*Unit, len(units)),
		techsByID:     make(map[int]*Technology, len(technologies)),
		starting:      make(map[*Unit]bool, len(starting)),
		dropsiteKind:  make(map[*Unit]Resource, len(dropsites)),
	}
	for _, u := range units {
		c.unitsByID[u.ID] = u
	}
	for _, t := range technologies {
		c.techsByID[t.ID] = t
	}
	for _, u := range starting {
		c.starting[u] = true
	}
	// Resolve in resource order so a shared dropsite maps to the first resource
	for _, r := range AllResources() {
		u, ok := dropsites[r]
		if !ok || u == nil {
			continue
		}
		c.Dropsites[r] = u
		if _, seen := c.dropsiteKind[u]; !seen {
			c.dropsiteKind[u] = r
		}
	}
	return c
}

// Unit returns the unit with the given id, or nil
func (c *Civilization) Unit(id int) *Unit {
	return c.unitsByID[id]
}

// Technology returns the technology with the given id, or nil
func (c *Civilization) Technology(id int) *Technology {
	return c.techsByID[id]
}

// HasUnit reports whether u belongs to the civilization
func (c *Civilization) HasUnit(u *Unit) bool {
	return u != nil && c.unitsByID[u.ID] == u
}

// HasTechnology reports whether t belongs to the civilization
func (c *Civilization) HasTechnology(t *Technology) bool {
	return t != nil && c.techsByID[t.ID] == t
}

// IsStarting reports whether u is present at game start
func (c *Civilization) IsStarting(u *Unit) bool {
	return c.starting[u]
}

// AgeIndex returns the 0-based age index of t, or -1 if t is not an age technology
func (c *Civilization) AgeIndex(t *Technology) int {
	if t == nil {
		return -1
	}
	for i, age := range c.Ages {
		if age == t {
			return i
		}
	}
	return -1
}

// DropsiteResource returns the resource deposited at u
func (c *Civilization) DropsiteResource(u *Unit) (Resource, bool) {
	r, ok := c.dropsiteKind[u]
	return r, ok
}

// UnitByName returns the first unit with the given name, or nil
func (c *Civilization) UnitByName(name string) *Unit {
	for _, u := range c.Units {
		if u.Name == name {
			return u
		}
	}
	return nil
}

// Catalog is the reference model loaded once from game data
type Catalog struct {
	Units         []*Unit
	Technologies  []*Technology
	Civilizations []*Civilization
}

// Civilization returns the civilization with the given id, or nil
func (c *Catalog) Civilization(id int) *Civilization {
	for _, civ := range c.Civilizations {
		if civ.ID == id {
			return civ
		}
	}
	return nil
}

// CivilizationByName returns the civilization with the given name, or nil
func (c *Catalog) CivilizationByName(name string) *Civilization {
	for _, civ := range c.Civilizations {
		if civ.Name == name {
			return civ
		}
	}
	return nil
}
