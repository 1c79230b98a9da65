// Package caffeine estimates milligrams of caffeine from drink category and volume.
package caffeine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cafflog/internal/model"
)

// ErrUnknownDrink is returned by ParseCategory for names outside the table.
var ErrUnknownDrink = errors.New("unknown drink")

// Reference is the caffeine content of a category at its reference volume.
type Reference struct {
	Mg       float64
	VolumeMl float64
}

// references maps each category to its reference amount.
// Brewed drinks are referenced per 8 oz (240ml), espresso per 1 oz shot (30ml).
var references = map[model.DrinkCategory]Reference{
	model.Coffee:   {Mg: 95, VolumeMl: 240},
	model.Tea:      {Mg: 47, VolumeMl: 240},
	model.Soda:     {Mg: 22, VolumeMl: 240},
	model.Espresso: {Mg: 64, VolumeMl: 30},
}

// categoryOrder is the presentation order of the drink menu.
var categoryOrder = []model.DrinkCategory{
	model.Coffee,
	model.Espresso,
	model.Tea,
	model.Soda,
}

// Categories returns all known categories in menu order.
func Categories() []model.DrinkCategory {
	out := make([]model.DrinkCategory, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Lookup returns the reference amount for a category.
// Returns the zero Reference and false if the category is unknown.
func Lookup(category model.DrinkCategory) (Reference, bool) {
	ref, ok := references[category]
	return ref, ok
}

// Estimate scales the category's reference amount linearly by volume and
// rounds half away from zero. Unknown categories and NaN volumes estimate to
// 0; results beyond the int range saturate.
func Estimate(category model.DrinkCategory, volumeMl float64) int {
	ref, ok := Lookup(category)
	if !ok || ref.VolumeMl == 0 || math.IsNaN(volumeMl) {
		return 0
	}
	mg := math.Round(volumeMl / ref.VolumeMl * ref.Mg)
	switch {
	case mg >= float64(math.MaxInt):
		return math.MaxInt
	case mg <= float64(math.MinInt):
		return math.MinInt
	}
	return int(mg)
}

// ParseCategory resolves a user-supplied drink name, case-insensitively.
func ParseCategory(s string) (model.DrinkCategory, error) {
	c := model.DrinkCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := references[c]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownDrink, s, categoryList())
}

// DisplayName capitalizes a category for tables and forms.
func DisplayName(c model.DrinkCategory) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func categoryList() string {
	names := make([]string, len(categoryOrder))
	for i, c := range categoryOrder {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
