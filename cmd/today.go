package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/cli"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tracker"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's drinks, total and goal",
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(_ *cobra.Command, _ []string) error {
	tr, closeFn, err := openTracker(loadConfig())
	if err != nil {
		return err
	}
	defer closeFn()

	snap := tr.Snapshot()

	fmt.Println()
	fmt.Println(cli.RenderTitle("TODAY  " + snap.Date))
	fmt.Println()

	if len(snap.Entries) == 0 {
		fmt.Println("  Nothing logged yet. Try: cafflog log coffee 240")
		fmt.Println()
		printGoal(snap)
		return nil
	}

	rows := make([][]string, 0, len(snap.Entries)+2)
	for _, e := range snap.Entries {
		rows = append(rows, []string{
			caffeine.DisplayName(e.Drink),
			e.Size,
			cli.FormatMg(e.CaffeineMg),
			e.Time,
		})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Total", "", cli.FormatMg(snap.TotalMg), ""},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Drink", "Size", "Caffeine", "Time"},
		Rows:    rows,
	}))
	fmt.Println()
	printGoal(snap)
	return nil
}

// printGoal prints the goal bar and, when exceeded, the over-limit warning.
func printGoal(snap model.Snapshot) {
	st := tracker.Progress(snap.TotalMg, snap.Goal)

	fmt.Printf("  Goal: %s\n", cli.RenderGoalBar(st, 24))
	if rem := cli.FormatRemaining(snap.TotalMg, snap.Goal); rem != "" {
		fmt.Printf("        %s\n", cli.Muted(rem))
	}
	if snap.OverLimit {
		fmt.Printf("  %s\n", cli.RenderWarning("Over your daily goal"))
	}
	fmt.Println()
}
