package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/model"
)

type formKind int

const (
	formNone formKind = iota
	formDrink
	formGoal
)

// drinkValues receives the drink form's answers.
type drinkValues struct {
	Drink string
	Size  string
}

// goalValues receives the goal form's answer. Blank clears the goal.
type goalValues struct {
	Goal string
}

var (
	errSize      = errors.New("enter a positive number")
	errSizeLimit = errors.New("too large, one drink is at most 10 L")
)

// parseSize reads a drink size typed into the form.
func parseSize(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(v > 0) || math.IsInf(v, 0) {
		return 0, errSize
	}
	return v, nil
}

func validateSize(s string) error {
	_, err := parseSize(s)
	return err
}

func newDrinkForm(vals *drinkValues, unit model.Unit) *huh.Form {
	var opts []huh.Option[string]
	for _, c := range caffeine.Categories() {
		opts = append(opts, huh.NewOption(caffeine.DisplayName(c), string(c)))
	}
	if vals.Drink == "" {
		vals.Drink = string(model.Coffee)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Drink").
				Options(opts...).
				Value(&vals.Drink),
			huh.NewInput().
				Title(fmt.Sprintf("Size (%s)", unit)).
				Placeholder(sizePlaceholder(unit)).
				Validate(validateSize).
				Value(&vals.Size),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func newGoalForm(vals *goalValues, current model.Goal) *huh.Form {
	desc := "Daily ceiling in mg. Leave blank to clear."
	if current.IsSet() {
		desc = fmt.Sprintf("Currently %d mg. Leave blank to clear.", current)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily goal").
				Description(desc).
				Placeholder("400").
				Value(&vals.Goal),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func sizePlaceholder(unit model.Unit) string {
	if unit == model.FluidOunces {
		return "8"
	}
	return "240"
}
