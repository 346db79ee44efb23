package loader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nathoo/dragonroad/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for consistency. Warnings go to lg.
func validate(defs *state.Defs, lg *log.Logger) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}

	p := defs.Player
	if p.HP <= 0 {
		ve.Errors = append(ve.Errors, "Player.hp must be positive")
	}
	if p.Attack <= 0 {
		ve.Errors = append(ve.Errors, "Player.attack must be positive")
	}
	if p.Heal < 0 {
		ve.Errors = append(ve.Errors, "Player.heal must not be negative")
	}
	if p.Potions < 0 {
		ve.Errors = append(ve.Errors, "Player.potions must not be negative")
	}

	// The road needs a start and an ending.
	if len(defs.Locations) < 2 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"at least 2 locations are required, got %d", len(defs.Locations)))
	}

	seen := map[string]bool{}
	for i, loc := range defs.Locations {
		if seen[loc.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate location ID %q", loc.ID))
		}
		seen[loc.ID] = true

		if loc.Description == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("location %q has no description", loc.ID))
		}

		last := i == len(defs.Locations)-1
		if loc.Enemy == nil {
			if !last && loc.AdvanceLabel == "" {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"location %q has no advance label; \"Continue\" will be shown", loc.ID))
			}
			continue
		}

		if last {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"final location %q must not have an enemy", loc.ID))
		}
		if loc.AdvanceLabel != "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"location %q has an enemy; advance label %q is never shown", loc.ID, loc.AdvanceLabel))
		}
		e := loc.Enemy
		if e.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("location %q: enemy name is required", loc.ID))
		}
		if e.HP <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("location %q: enemy hp must be positive", loc.ID))
		}
		if e.MaxHP < e.HP {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"location %q: enemy max_hp %d is below hp %d", loc.ID, e.MaxHP, e.HP))
		}
	}

	for _, w := range ve.Warnings {
		lg.Warn("game content", "warning", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
