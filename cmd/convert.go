package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/units"
)

var flagConvertFrom string

var convertCmd = &cobra.Command{
	Use:     "convert <value>",
	Short:   "Convert a volume between ml and fl oz",
	Example: "  cafflog convert 240\n  cafflog convert 8 --from \"fl oz\"",
	Args:    cobra.ExactArgs(1),
	RunE:    runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&flagConvertFrom, "from", "ml", "Unit of <value>: ml or \"fl oz\"")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("value %q: not a number", args[0])
	}
	from, err := units.ParseUnit(flagConvertFrom)
	if err != nil {
		return err
	}

	fmt.Printf("  %s\n", convertLine(v, from))
	return nil
}

func convertLine(v float64, from model.Unit) string {
	if from == model.FluidOunces {
		return fmt.Sprintf("%s fl oz = %s ml", trimFloat(v), trimFloat(math.Round(units.ToMilliliters(v)*10)/10))
	}
	return fmt.Sprintf("%s ml = %s fl oz", trimFloat(v), trimFloat(units.ToFluidOunces(v)))
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
