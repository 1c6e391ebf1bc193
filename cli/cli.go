// Package cli implements the grove command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/colors"
	"github.com/grove-cli/grove/internal/config"
	"github.com/grove-cli/grove/internal/session"
	"github.com/grove-cli/grove/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Grove is a branching conversation manager",
	Long: `Grove manages a tree of conversations with a language model.
Fork the current conversation to explore a side topic in isolation,
merge it back into its parent when you are done, or switch between
branches without losing any history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colors.Errorf("error: %v", err))
		os.Exit(1)
	}
}

func init() {
	// Session lifecycle commands
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsUseCmd, sessionsRemoveCmd)

	// Conversation commands
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(logCmd)

	// Branch management commands
	rootCmd.AddCommand(forkCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(branchesCmd)

	// Archive commands
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	// Configuration commands
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}

// openManager loads the config and opens the shared session store.
// Callers must invoke the returned close function.
func openManager() (*config.Config, *session.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	path, err := cfg.StorePath()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := store.GetSharedDB(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open session store: %w", err)
	}
	return cfg, session.NewManager(db.DB), func() { db.Close() }, nil
}
