package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/config"
	"github.com/theirongolddev/cafflog/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Store:       %s\n", cfg.General.Store)
	if cfg.General.Store != config.StoreMemory {
		dbPath := store.PathIn(dataDir(cfg))
		fmt.Printf("    Database:    %s\n", dbPath)
		if n, err := storedRecords(dbPath); err != nil {
			warnf("Reading database: %v", err)
		} else {
			fmt.Printf("    Records:     %d\n", n)
		}
	}
	fmt.Printf("    Time format: %s\n", cfg.General.TimeFormat)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:        %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Rollover check: every %ds\n", cfg.Daemon.RolloverCheckSec)
	fmt.Printf("    Events buffer:  %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Metrics:        %v\n", cfg.Daemon.Metrics)
	fmt.Println()

	fmt.Println("  Run `cafflog setup` to reconfigure.")
	return nil
}

// storedRecords counts the records in the database at dbPath without
// creating it when it does not exist yet.
func storedRecords(dbPath string) (int, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	return db.Keys()
}
