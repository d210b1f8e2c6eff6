package buildorder

import (
	"log/slog"

	"github.com/napolitain/buildorder/internal/models"
)

// Generator plans build orders for one civilization.
// It only holds read-only indexes and can serve concurrent searches.
type Generator struct {
	civ    *models.Civilization
	logger *slog.Logger

	possible   map[*models.Unit]bool
	enablers   map[*models.Unit][]*models.Technology // techs that enable or upgrade into a unit
	upgrades   map[*models.Unit][]*models.Technology // techs that upgrade from or modify a unit
	initiators map[*models.Technology][]*models.Unit
	economy    []*models.Technology
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger used for search diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a new generator for civ
func NewGenerator(civ *models.Civilization, opts ...Option) *Generator {
	g := &Generator{
		civ:        civ,
		logger:     slog.Default(),
		possible:   make(map[*models.Unit]bool),
		enablers:   make(map[*models.Unit][]*models.Technology),
		upgrades:   make(map[*models.Unit][]*models.Technology),
		initiators: make(map[*models.Technology][]*models.Unit),
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, u := range civ.Units {
		if u.Land && (u.Available || u.TechRequired) {
			g.possible[u] = true
		}
	}

	for _, u := range civ.Units {
		if g.possible[u] && u.Initiates != nil {
			g.initiators[u.Initiates] = append(g.initiators[u.Initiates], u)
		}
	}

	economy := make(map[*models.Technology]bool)
	for _, t := range civ.Technologies {
		for _, e := range t.Effects {
			switch e.Kind {
			case models.EffectEnableUnit:
				if u := civ.Unit(e.UnitID); g.possible[u] {
					g.enablers[u] = appendTech(g.enablers[u], t)
				}
			case models.EffectUpgradeUnit:
				if u := civ.Unit(e.ToUnitID); g.possible[u] {
					g.enablers[u] = appendTech(g.enablers[u], t)
				}
				if u := civ.Unit(e.UnitID); g.possible[u] {
					g.upgrades[u] = appendTech(g.upgrades[u], t)
				}
			case models.EffectModifyAttribute:
				if e.Class == models.ClassCivilian {
					economy[t] = true
				} else if u := civ.Unit(e.UnitID); u != nil && u.Class == models.ClassCivilian {
					economy[t] = true
				}
				for _, u := range civ.Units {
					if g.possible[u] && e.Modifies(u) {
						g.upgrades[u] = appendTech(g.upgrades[u], t)
					}
				}
			}
		}
		if economy[t] {
			g.economy = append(g.economy, t)
		}
	}

	return g
}

// Civilization returns the civilization the generator plans for
func (g *Generator) Civilization() *models.Civilization {
	return g.civ
}

// Possible reports whether u can ever be produced by the civilization
func (g *Generator) Possible(u *models.Unit) bool {
	return g.possible[u]
}

// RoleUpgrades returns every technology that improves u or a unit it
// upgrades into, in civilization order of discovery.
func (g *Generator) RoleUpgrades(u *models.Unit) []*models.Technology {
	var techs []*models.Technology
	seenTech := make(map[*models.Technology]bool)
	seenUnit := map[*models.Unit]bool{u: true}

	queue := []*models.Unit{u}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, t := range g.upgrades[current] {
			if !seenTech[t] {
				seenTech[t] = true
				techs = append(techs, t)
			}
		}
		for _, next := range current.UpgradesTo {
			if g.possible[next] && !seenUnit[next] {
				seenUnit[next] = true
				queue = append(queue, next)
			}
		}
	}
	return techs
}

// EconomyUpgrades returns the technologies that improve gatherers
func (g *Generator) EconomyUpgrades() []*models.Technology {
	return g.economy
}

func appendTech(list []*models.Technology, t *models.Technology) []*models.Technology {
	for _, existing := range list {
		if existing == t {
			return list
		}
	}
	return append(list, t)
}
