// Package units converts drink volumes between milliliters and fluid ounces.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/cafflog/internal/model"
)

// MlPerFlOz is the number of milliliters in one US fluid ounce.
const MlPerFlOz = 29.5735

// ErrUnknownUnit is returned by ParseUnit for unrecognized unit names.
var ErrUnknownUnit = errors.New("unknown unit")

// ToFluidOunces converts milliliters to fluid ounces, rounded to one decimal.
// The rounding is for display; callers keep the unrounded milliliters.
func ToFluidOunces(ml float64) float64 {
	return math.Round(ml/MlPerFlOz*10) / 10
}

// ToMilliliters converts fluid ounces to milliliters without rounding.
func ToMilliliters(flOz float64) float64 {
	return flOz * MlPerFlOz
}

// Normalize returns volume, expressed in unit, as milliliters.
func Normalize(volume float64, unit model.Unit) float64 {
	if unit == model.FluidOunces {
		return ToMilliliters(volume)
	}
	return volume
}

// FormatVolume renders a stored milliliter volume in the preferred unit.
// e.g., (240, ml) -> "240ml", (240, fl oz) -> "8.1 fl oz"
func FormatVolume(ml float64, unit model.Unit) string {
	if unit == model.FluidOunces {
		return strconv.FormatFloat(ToFluidOunces(ml), 'f', 1, 64) + " fl oz"
	}
	return strconv.FormatFloat(math.Round(ml), 'f', 0, 64) + "ml"
}

// ParseUnit accepts the common spellings of both units.
func ParseUnit(s string) (model.Unit, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ", ".", "").Replace(norm)
	switch norm {
	case "ml", "milliliter", "milliliters", "millilitre", "millilitres":
		return model.Milliliters, nil
	case "fl oz", "floz", "oz", "fluid ounce", "fluid ounces", "fluidounces":
		return model.FluidOunces, nil
	}
	return "", fmt.Errorf("%w %q (want ml or fl oz)", ErrUnknownUnit, s)
}

// Valid reports whether u is one of the supported units.
func Valid(u model.Unit) bool {
	return u == model.Milliliters || u == model.FluidOunces
}
