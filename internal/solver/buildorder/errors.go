package buildorder

import (
	"errors"
	"fmt"

	"github.com/napolitain/buildorder/internal/models"
)

var (
	// ErrInvalidGoal is returned when no primary goal is given
	ErrInvalidGoal = errors.New("primary goal is required")

	// ErrUnresolvableDependency is returned when a goal cannot be reached
	// within the civilization. Cycles are reported the same way.
	ErrUnresolvableDependency = errors.New("unresolvable dependency")

	// ErrPlanTooLarge is returned when a resolved plan exceeds the size limit
	ErrPlanTooLarge = errors.New("plan too large")

	// ErrGatherersPresent is returned when gatherer splits are inserted twice
	ErrGatherersPresent = errors.New("plan already contains gatherer splits")
)

// UnresolvableError reports which goal failed to resolve
type UnresolvableError struct {
	Role Role
	Kind string // "unit" or "technology"
	ID   int
	Name string
}

func newUnresolvableUnit(role Role, u *models.Unit) *UnresolvableError {
	return &UnresolvableError{Role: role, Kind: "unit", ID: u.ID, Name: u.Name}
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("%s goal %s %d %s: %v", e.Role, e.Kind, e.ID, e.Name, ErrUnresolvableDependency)
}

func (e *UnresolvableError) Unwrap() error {
	return ErrUnresolvableDependency
}
