package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/buildorder/internal/models"
)

// DefaultCatalogFile is the catalog file name inside a data directory
const DefaultCatalogFile = "catalog.yaml"

// ErrUnknownReference is returned when the catalog references a missing id
var ErrUnknownReference = errors.New("unknown reference")

// CostYAML represents the YAML structure for a resource cost
type CostYAML struct {
	Food  int `yaml:"food" validate:"min=0"`
	Wood  int `yaml:"wood" validate:"min=0"`
	Gold  int `yaml:"gold" validate:"min=0"`
	Stone int `yaml:"stone" validate:"min=0"`
}

// StatsYAML represents the YAML structure for base combat stats
type StatsYAML struct {
	Hitpoints          int     `yaml:"hitpoints"`
	Attack             int     `yaml:"attack"`
	AntiBuildingAttack int     `yaml:"anti_building_attack"`
	Armor              int     `yaml:"armor"`
	Range              int     `yaml:"range"`
	ReloadTime         float64 `yaml:"reload_time"`
}

// UnitYAML represents the YAML structure for a unit or building
type UnitYAML struct {
	ID            int       `yaml:"id" validate:"min=0"`
	Name          string    `yaml:"name" validate:"required"`
	Class         string    `yaml:"class" validate:"omitempty,oneof=civilian infantry spearman archer cavalry cavalry_archer scout monk siege building ship other"`
	Building      bool      `yaml:"building"`
	Land          *bool     `yaml:"land"`
	Available     bool      `yaml:"available"`
	TrainLocation *int      `yaml:"train_location"`
	Initiates     *int      `yaml:"initiates"`
	Cost          CostYAML  `yaml:"cost"`
	Stats         StatsYAML `yaml:"stats"`
}

// EffectYAML represents one effect command of a technology
type EffectYAML struct {
	Type      string  `yaml:"type" validate:"required,oneof=enable_unit disable_unit upgrade_unit modify_attribute disable_tech"`
	Unit      *int    `yaml:"unit"`
	To        int     `yaml:"to"`
	Class     string  `yaml:"class"`
	Attribute string  `yaml:"attribute" validate:"required_if=Type modify_attribute"`
	Op        string  `yaml:"op" validate:"omitempty,oneof=set add multiply"`
	Amount    float64 `yaml:"amount"`
	Tech      int     `yaml:"tech"`
}

// TechnologyYAML represents the YAML structure for a technology
type TechnologyYAML struct {
	ID               int          `yaml:"id" validate:"min=0"`
	Name             string       `yaml:"name" validate:"required"`
	Civ              *int         `yaml:"civ"`
	Prerequisites    []int        `yaml:"prerequisites"`
	MinPrerequisites *int         `yaml:"min_prerequisites" validate:"omitempty,min=0"`
	ResearchLocation *int         `yaml:"research_location"`
	Free             bool         `yaml:"free"`
	Cost             CostYAML     `yaml:"cost"`
	Effects          []EffectYAML `yaml:"effects" validate:"dive"`
}

// CivilizationYAML represents the YAML structure for a civilization
type CivilizationYAML struct {
	ID                   int            `yaml:"id" validate:"min=0"`
	Name                 string         `yaml:"name" validate:"required"`
	Units                []int          `yaml:"units" validate:"required,min=1"`
	DisabledTechnologies []int          `yaml:"disabled_technologies"`
	Ages                 []int          `yaml:"ages" validate:"len=4"`
	Dropsites            map[string]int `yaml:"dropsites" validate:"dive,keys,oneof=food wood gold stone,endkeys"`
	StartingUnits        []int          `yaml:"starting_units"`
}

// CatalogYAML represents the top-level catalog document
type CatalogYAML struct {
	Units         []UnitYAML         `yaml:"units" validate:"required,dive"`
	Technologies  []TechnologyYAML   `yaml:"technologies" validate:"dive"`
	Civilizations []CivilizationYAML `yaml:"civilizations" validate:"required,dive"`
}

// LoadCatalog loads the reference catalog from a YAML (or JSON) file
func LoadCatalog(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return catalog, nil
}

// LoadCatalogDir loads catalog.yaml from a data directory
func LoadCatalogDir(dataDir string) (*models.Catalog, error) {
	return LoadCatalog(filepath.Join(dataDir, DefaultCatalogFile))
}

// ParseCatalog decodes, validates and links a catalog document
func ParseCatalog(data []byte) (*models.Catalog, error) {
	var raw CatalogYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if err := validateCatalog(&raw); err != nil {
		return nil, err
	}

	return link(&raw)
}

func validateCatalog(raw *CatalogYAML) error {
	v := validator.New()
	if err := v.Struct(raw); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			messages := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')",
					e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
		}
		return err
	}
	return nil
}

func convertCost(c CostYAML) models.Cost {
	return models.Cost{Food: c.Food, Wood: c.Wood, Gold: c.Gold, Stone: c.Stone}.NonNegative()
}

// link resolves ids into pointers and derives upgrade lines
func link(raw *CatalogYAML) (*models.Catalog, error) {
	catalog := &models.Catalog{}
	units := make(map[int]*models.Unit, len(raw.Units))
	techs := make(map[int]*models.Technology, len(raw.Technologies))

	for _, ru := range raw.Units {
		if _, dup := units[ru.ID]; dup {
			return nil, fmt.Errorf("duplicate unit id %d", ru.ID)
		}
		class := models.UnitClass(ru.Class)
		if class == "" {
			class = models.ClassOther
			if ru.Building {
				class = models.ClassBuilding
			}
		}
		land := true
		if ru.Land != nil {
			land = *ru.Land
		}
		u := &models.Unit{
			ID:        ru.ID,
			Name:      ru.Name,
			Class:     class,
			Building:  ru.Building,
			Land:      land,
			Available: ru.Available,
			Cost:      convertCost(ru.Cost),
			Stats: models.Stats{
				Hitpoints:          ru.Stats.Hitpoints,
				Attack:             ru.Stats.Attack,
				AntiBuildingAttack: ru.Stats.AntiBuildingAttack,
				Armor:              ru.Stats.Armor,
				Range:              ru.Stats.Range,
				ReloadTime:         ru.Stats.ReloadTime,
			},
		}
		units[u.ID] = u
		catalog.Units = append(catalog.Units, u)
	}

	for _, rt := range raw.Technologies {
		if _, dup := techs[rt.ID]; dup {
			return nil, fmt.Errorf("duplicate technology id %d", rt.ID)
		}
		civ := -1
		if rt.Civ != nil {
			civ = *rt.Civ
		}
		t := &models.Technology{
			ID:   rt.ID,
			Name: rt.Name,
			Civ:  civ,
			Free: rt.Free,
			Cost: convertCost(rt.Cost),
		}
		for _, re := range rt.Effects {
			t.Effects = append(t.Effects, convertEffect(re))
		}
		techs[t.ID] = t
		catalog.Technologies = append(catalog.Technologies, t)
	}

	// Second pass: references
	for i, ru := range raw.Units {
		u := catalog.Units[i]
		if ru.TrainLocation != nil {
			loc, ok := units[*ru.TrainLocation]
			if !ok {
				return nil, fmt.Errorf("unit %d train location %d: %w", u.ID, *ru.TrainLocation, ErrUnknownReference)
			}
			u.TrainLocation = loc
		}
		if ru.Initiates != nil {
			t, ok := techs[*ru.Initiates]
			if !ok {
				return nil, fmt.Errorf("unit %d initiates technology %d: %w", u.ID, *ru.Initiates, ErrUnknownReference)
			}
			u.Initiates = t
		}
	}

	for i, rt := range raw.Technologies {
		t := catalog.Technologies[i]
		for _, id := range rt.Prerequisites {
			p, ok := techs[id]
			if !ok {
				return nil, fmt.Errorf("technology %d prerequisite %d: %w", t.ID, id, ErrUnknownReference)
			}
			t.Prerequisites = append(t.Prerequisites, p)
		}
		t.MinPrerequisites = len(t.Prerequisites)
		if rt.MinPrerequisites != nil {
			t.MinPrerequisites = *rt.MinPrerequisites
		}
		if t.MinPrerequisites > len(t.Prerequisites) {
			return nil, fmt.Errorf("technology %d requires %d of %d prerequisites", t.ID, t.MinPrerequisites, len(t.Prerequisites))
		}
		if rt.ResearchLocation != nil {
			loc, ok := units[*rt.ResearchLocation]
			if !ok {
				return nil, fmt.Errorf("technology %d research location %d: %w", t.ID, *rt.ResearchLocation, ErrUnknownReference)
			}
			t.ResearchLocation = loc
		}
	}

	deriveUnitLinks(catalog, units)

	for _, rc := range raw.Civilizations {
		civ, err := buildCivilization(rc, catalog, units, techs)
		if err != nil {
			return nil, fmt.Errorf("civilization %d %s: %w", rc.ID, rc.Name, err)
		}
		catalog.Civilizations = append(catalog.Civilizations, civ)
	}

	return catalog, nil
}

func convertEffect(re EffectYAML) models.Effect {
	unit := -1
	if re.Unit != nil {
		unit = *re.Unit
	}
	op := models.ModifyOp(re.Op)
	if re.Type == string(models.EffectModifyAttribute) && op == "" {
		op = models.OpAdd
	}
	return models.Effect{
		Kind:      models.EffectKind(re.Type),
		UnitID:    unit,
		ToUnitID:  re.To,
		Class:     models.UnitClass(re.Class),
		Attribute: models.Attribute(re.Attribute),
		Op:        op,
		Amount:    re.Amount,
		TechID:    re.Tech,
	}
}

// deriveUnitLinks fills TechRequired and the upgrade line of every unit
func deriveUnitLinks(catalog *models.Catalog, units map[int]*models.Unit) {
	for _, t := range catalog.Technologies {
		for _, e := range t.Effects {
			switch e.Kind {
			case models.EffectEnableUnit:
				if u, ok := units[e.UnitID]; ok {
					u.TechRequired = true
				}
			case models.EffectUpgradeUnit:
				to, ok := units[e.ToUnitID]
				if !ok {
					continue
				}
				to.TechRequired = true
				from, ok := units[e.UnitID]
				if !ok || from == to {
					continue
				}
				from.UpgradesTo = appendUnique(from.UpgradesTo, to)
				to.UpgradedFrom = appendUnique(to.UpgradedFrom, from)
			}
		}
	}
}

func appendUnique(list []*models.Unit, u *models.Unit) []*models.Unit {
	for _, existing := range list {
		if existing == u {
			return list
		}
	}
	return append(list, u)
}

// buildCivilization filters the catalog down to one civilization's universe.
// Technologies: shared or owned, minus the civilization's disabled list.
// Units: default-available units plus everything the remaining technologies
// enable or upgrade into, restricted to the civilization's roster.
func buildCivilization(
	rc CivilizationYAML,
	catalog *models.Catalog,
	units map[int]*models.Unit,
	techs map[int]*models.Technology,
) (*models.Civilization, error) {
	disabled := make(map[int]bool, len(rc.DisabledTechnologies))
	for _, id := range rc.DisabledTechnologies {
		disabled[id] = true
	}

	var civTechs []*models.Technology
	for _, t := range catalog.Technologies {
		if (t.Civ == -1 || t.Civ == rc.ID) && !disabled[t.ID] {
			civTechs = append(civTechs, t)
		}
	}
	// Technologies may also disable each other for the whole tree
	for _, t := range civTechs {
		for _, e := range t.Effects {
			if e.Kind == models.EffectDisableTech {
				disabled[e.TechID] = true
			}
		}
	}
	kept := civTechs[:0]
	for _, t := range civTechs {
		if !disabled[t.ID] {
			kept = append(kept, t)
		}
	}
	civTechs = kept

	roster := make(map[int]bool, len(rc.Units))
	for _, id := range rc.Units {
		if _, ok := units[id]; !ok {
			return nil, fmt.Errorf("roster unit %d: %w", id, ErrUnknownReference)
		}
		roster[id] = true
	}

	possible := make(map[int]bool)
	for _, u := range catalog.Units {
		if u.Available {
			possible[u.ID] = true
		}
	}
	for _, t := range civTechs {
		for _, e := range t.Effects {
			switch e.Kind {
			case models.EffectEnableUnit:
				possible[e.UnitID] = true
			case models.EffectUpgradeUnit:
				possible[e.ToUnitID] = true
			}
		}
	}

	var starting []*models.Unit
	startingSet := make(map[int]bool, len(rc.StartingUnits))
	for _, id := range rc.StartingUnits {
		u, ok := units[id]
		if !ok {
			return nil, fmt.Errorf("starting unit %d: %w", id, ErrUnknownReference)
		}
		starting = append(starting, u)
		startingSet[id] = true
	}

	var civUnits []*models.Unit
	for _, u := range catalog.Units {
		if startingSet[u.ID] || (roster[u.ID] && possible[u.ID]) {
			civUnits = append(civUnits, u)
		}
	}

	techSet := make(map[int]*models.Technology, len(civTechs))
	for _, t := range civTechs {
		techSet[t.ID] = t
	}
	var ages [models.AgeCount]*models.Technology
	for i, id := range rc.Ages {
		t, ok := techSet[id]
		if !ok {
			return nil, fmt.Errorf("age technology %d: %w", id, ErrUnknownReference)
		}
		ages[i] = t
	}

	unitSet := make(map[int]*models.Unit, len(civUnits))
	for _, u := range civUnits {
		unitSet[u.ID] = u
	}
	dropsites := make(map[models.Resource]*models.Unit, len(rc.Dropsites))
	for name, id := range rc.Dropsites {
		r, err := models.ParseResource(name)
		if err != nil {
			return nil, err
		}
		u, ok := unitSet[id]
		if !ok {
			return nil, fmt.Errorf("%s dropsite %d: %w", name, id, ErrUnknownReference)
		}
		dropsites[r] = u
	}

	return models.NewCivilization(rc.ID, rc.Name, civUnits, civTechs, ages, dropsites, starting), nil
}
