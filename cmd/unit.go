package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/units"
)

var unitCmd = &cobra.Command{
	Use:     "unit [ml | fl oz]",
	Short:   "Show or set the preferred volume unit",
	Example: "  cafflog unit\n  cafflog unit fl oz",
	Args:    cobra.MaximumNArgs(2),
	RunE:    runUnit,
}

func init() {
	rootCmd.AddCommand(unitCmd)
}

func runUnit(_ *cobra.Command, args []string) error {
	tr, closeFn, err := openTracker(loadConfig())
	if err != nil {
		return err
	}
	defer closeFn()

	if len(args) == 0 {
		fmt.Printf("  Unit: %s\n", tr.Unit())
		return nil
	}

	u, err := units.ParseUnit(strings.Join(args, " "))
	if err != nil {
		return err
	}
	tr.SetUnit(u)
	fmt.Printf("  Unit set to %s\n", u)
	return nil
}
