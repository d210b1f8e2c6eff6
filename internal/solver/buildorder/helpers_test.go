package buildorder

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/napolitain/buildorder/internal/loader"
	"github.com/napolitain/buildorder/internal/models"
)

const dataDir = "../../../data"

// Unit and technology ids from data/catalog.yaml
const (
	townCenterID    = 109
	barracksID      = 12
	millID          = 68
	stableID        = 101
	militiaID       = 74
	manAtArmsID     = 75
	archerID        = 4
	knightID        = 38
	onagerID        = 550
	cappedRamID     = 422
	galleyID        = 539
	feudalAgeID     = 101
	castleAgeID     = 102
	manAtArmsTechID = 222
	longSwordTechID = 207
	forgingID       = 67
	scaleBardingID  = 81
	doubleBitAxeID  = 202
	loomID          = 22
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadCatalog(t testing.TB) *models.Catalog {
	t.Helper()
	catalog, err := loader.LoadCatalogDir(dataDir)
	require.NoError(t, err, "Failed to load catalog")
	return catalog
}

// britons returns a generator for the Britons from the sample catalog
func britons(t testing.TB) *Generator {
	t.Helper()
	civ := loadCatalog(t).CivilizationByName("Britons")
	require.NotNil(t, civ)
	return NewGenerator(civ, WithLogger(quietLogger()))
}

func unit(t testing.TB, g *Generator, id int) *models.Unit {
	t.Helper()
	u := g.Civilization().Unit(id)
	require.NotNil(t, u, "unit %d", id)
	return u
}

func tech(t testing.TB, g *Generator, id int) *models.Technology {
	t.Helper()
	tt := g.Civilization().Technology(id)
	require.NotNil(t, tt, "technology %d", id)
	return tt
}

// newTestCiv builds a small civilization whose base age is base
func newTestCiv(base *models.Technology, units []*models.Unit, techs []*models.Technology, starting ...*models.Unit) *models.Civilization {
	ages := [models.AgeCount]*models.Technology{base}
	all := append([]*models.Technology{base}, techs...)
	return models.NewCivilization(1, "Test", units, all, ages, nil, starting)
}

func searchOpts(attempts int) SearchOptions {
	opts := DefaultSearchOptions()
	opts.Attempts = attempts
	opts.Seed = 42
	opts.Workers = 4
	return opts
}

func indexOf(actions []models.Action, a models.Action) int {
	for i, x := range actions {
		if x == a {
			return i
		}
	}
	return -1
}
