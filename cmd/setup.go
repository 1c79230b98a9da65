package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/config"
	"github.com/theirongolddev/cafflog/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

var timeFormats = []struct{ label, layout string }{
	{"12-hour (3:04 PM)", "3:04 PM"},
	{"24-hour (15:04)", "15:04"},
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	storeOpts := []huh.Option[string]{
		huh.NewOption("SQLite (saved between runs)", config.StoreSQLite),
		huh.NewOption("Memory (nothing is saved)", config.StoreMemory),
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	formatOpts := make([]huh.Option[string], 0, len(timeFormats))
	for _, f := range timeFormats {
		formatOpts = append(formatOpts, huh.NewOption(f.label, f.layout))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cafflog!").
				Description("Let's set up a few things. Run `cafflog setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Storage").
				Options(storeOpts...).
				Value(&cfg.General.Store),
			huh.NewInput().
				Title("Data directory").
				Description("Leave blank for the default location.").
				Value(&cfg.General.DataDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&cfg.Appearance.Theme),
			huh.NewSelect[string]().
				Title("Time labels").
				Options(formatOpts...).
				Value(&cfg.General.TimeFormat).
				Validate(validateTimeFormat),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg.General.DataDir = strings.TrimSpace(cfg.General.DataDir)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println()
	return nil
}

// validateTimeFormat rejects layouts that render no clock reading.
func validateTimeFormat(layout string) error {
	ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if strings.TrimSpace(layout) == "" || ref.Format(layout) == layout {
		return errors.New("not a time layout")
	}
	return nil
}
