package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/cli"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/units"
)

var drinksCmd = &cobra.Command{
	Use:   "drinks",
	Short: "List drink categories and their caffeine reference amounts",
	RunE:  runDrinks,
}

func init() {
	rootCmd.AddCommand(drinksCmd)
}

func runDrinks(_ *cobra.Command, _ []string) error {
	tr, closeFn, err := openTracker(loadConfig())
	if err != nil {
		return err
	}
	defer closeFn()

	unit := tr.Unit()
	perLabel, perVolume := "Per 100ml", 100.0
	if unit == model.FluidOunces {
		perLabel, perVolume = "Per fl oz", 1.0
	}

	rows := make([][]string, 0, len(caffeine.Categories()))
	for _, c := range caffeine.Categories() {
		ref, _ := caffeine.Lookup(c)
		rows = append(rows, []string{
			caffeine.DisplayName(c),
			units.FormatVolume(ref.VolumeMl, unit),
			cli.FormatMg(int(ref.Mg)),
			cli.FormatMg(caffeine.Estimate(c, units.Normalize(perVolume, unit))),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DRINKS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Drink", "Reference", "Caffeine", perLabel},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
