package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/cli"
)

var goalCmd = &cobra.Command{
	Use:   "goal [mg | clear]",
	Short: "Show, set or clear the daily caffeine goal",
	Long: "With no argument, show the goal and today's progress. A positive whole\n" +
		"number sets the goal in mg; `clear`, zero or a negative value removes it.",
	Args: cobra.MaximumNArgs(1),
	RunE: runGoal,
}

func init() {
	rootCmd.AddCommand(goalCmd)
}

func runGoal(_ *cobra.Command, args []string) error {
	tr, closeFn, err := openTracker(loadConfig())
	if err != nil {
		return err
	}
	defer closeFn()

	if len(args) == 1 {
		raw := strings.TrimSpace(args[0])
		if strings.EqualFold(raw, "clear") {
			raw = ""
		}
		g := tr.SetGoal(raw)
		if g.IsSet() {
			fmt.Printf("  Goal set to %s\n", cli.FormatMg(int(g)))
		} else {
			fmt.Println("  Goal cleared")
		}
	}

	snap := tr.Snapshot()
	fmt.Printf("  Today: %s\n", cli.FormatMg(snap.TotalMg))
	printGoal(snap)
	return nil
}
