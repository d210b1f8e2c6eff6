package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/napolitain/buildorder/internal/models"
)

// findCivilization resolves a civilization by id or case-insensitive name
func findCivilization(catalog *models.Catalog, ref string) (*models.Civilization, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if civ := catalog.Civilization(id); civ != nil {
			return civ, nil
		}
	}
	for _, civ := range catalog.Civilizations {
		if strings.EqualFold(civ.Name, ref) {
			return civ, nil
		}
	}
	return nil, fmt.Errorf("unknown civilization %q", ref)
}

// findUnit resolves a unit of civ by id or case-insensitive name. An empty
// reference yields no unit.
func findUnit(civ *models.Civilization, ref string) (*models.Unit, error) {
	if ref == "" {
		return nil, nil
	}
	if id, err := strconv.Atoi(ref); err == nil {
		if u := civ.Unit(id); u != nil {
			return u, nil
		}
	}
	for _, u := range civ.Units {
		if strings.EqualFold(u.Name, ref) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("unit %q is not available to %s", ref, civ.Name)
}
