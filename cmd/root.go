// Package cmd implements the cafflog CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cafflog/internal/config"
	"github.com/theirongolddev/cafflog/internal/store"
	"github.com/theirongolddev/cafflog/internal/tracker"
)

var (
	flagDataDir string
	flagStore   string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "cafflog",
	Short: "Caffeine intake tracker",
	Long:  "Log drinks, estimate caffeine and track today's total against a daily goal.",
	RunE:  runToday,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default $XDG_DATA_HOME/cafflog)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage backend: sqlite or memory")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings and status output")
}

// loadConfig returns the effective configuration: file, then environment,
// then command-line flags. A broken config file degrades to defaults.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		warnf("Config unavailable (%v), using defaults", err)
		cfg = config.DefaultConfig()
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagStore != "" {
		cfg.General.Store = flagStore
	}
	return cfg
}

func dataDir(cfg config.Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return store.DefaultDir()
}

// openTracker is the shared state-loading path used by all commands.
// If the SQLite store cannot be opened the session continues in memory.
// The returned func releases the store.
func openTracker(cfg config.Config) (*tracker.Tracker, func(), error) {
	var (
		kv      store.KV
		closeFn = func() {}
	)

	switch cfg.General.Store {
	case config.StoreMemory:
		kv = store.NewMemory()
	case config.StoreSQLite, "":
		db, err := store.Open(store.PathIn(dataDir(cfg)))
		if err != nil {
			warnf("Store unavailable (%v), changes will not be saved", err)
			kv = store.NewMemory()
			break
		}
		kv = db
		closeFn = func() { _ = db.Close() }
		if pid, ok := liveDaemon(cfg); ok {
			addr, _, _ := daemonPaths(cfg)
			warnf("Daemon (pid %d) owns this log; it will overwrite changes made here. Use http://%s/v1 instead", pid, addr)
		}
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want %s or %s)",
			cfg.General.Store, config.StoreSQLite, config.StoreMemory)
	}

	tr := tracker.New(store.NewRecords(kv), tracker.WithTimeFormat(cfg.General.TimeFormat))
	return tr, closeFn, nil
}

func warnf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
