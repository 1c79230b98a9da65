package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/cli"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tracker"
	"github.com/theirongolddev/cafflog/internal/units"
)

var flagLogUnit string

var logCmd = &cobra.Command{
	Use:   "log <drink> <size>",
	Short: "Log a drink (coffee, espresso, tea, soda)",
	Long: "Log a drink by category and size. The size is read in the current unit\n" +
		"preference unless --unit is given.",
	Example: "  cafflog log coffee 240\n  cafflog log espresso 2 --unit \"fl oz\"",
	Args:    cobra.ExactArgs(2),
	RunE:    runLog,
}

func init() {
	logCmd.Flags().StringVar(&flagLogUnit, "unit", "", "Unit of <size>: ml or \"fl oz\"")
	rootCmd.AddCommand(logCmd)
}

func runLog(_ *cobra.Command, args []string) error {
	drink, err := caffeine.ParseCategory(args[0])
	if err != nil {
		return err
	}

	tr, closeFn, err := openTracker(loadConfig())
	if err != nil {
		return err
	}
	defer closeFn()

	unit := tr.Unit()
	if flagLogUnit != "" {
		if unit, err = units.ParseUnit(flagLogUnit); err != nil {
			return err
		}
	}

	size, err := parseLogSize(args[1], unit)
	if err != nil {
		return err
	}

	entry, ok := tr.LogDrink(drink, size, unit)
	if !ok {
		return fmt.Errorf("size %q was rejected", args[1])
	}

	snap := tr.Snapshot()
	fmt.Printf("  Logged %s (%s): %s\n",
		caffeine.DisplayName(entry.Drink),
		units.FormatVolume(entry.VolumeMl, snap.Unit),
		cli.FormatMg(entry.CaffeineMg))
	fmt.Printf("  Today: %s\n", cli.FormatMg(snap.TotalMg))
	if rem := cli.FormatRemaining(snap.TotalMg, snap.Goal); rem != "" {
		fmt.Printf("         %s\n", cli.Muted(rem))
	}
	if snap.OverLimit {
		fmt.Printf("  %s\n", cli.RenderWarning("Over your daily goal"))
	}
	return nil
}

// parseLogSize reads a size given in unit and checks it against the
// single-drink range once converted to milliliters.
func parseLogSize(raw string, unit model.Unit) (float64, error) {
	size, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(size > 0) || math.IsInf(size, 0) {
		return 0, fmt.Errorf("size %q: must be a positive number", raw)
	}
	if units.Normalize(size, unit) > tracker.MaxVolumeMl {
		return 0, fmt.Errorf("size %q: one drink is at most %s",
			raw, units.FormatVolume(tracker.MaxVolumeMl, unit))
	}
	return size, nil
}
