package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/colors"
)

var branchesCmd = &cobra.Command{
	Use:     "branches",
	Aliases: []string{"br"},
	Short:   "List all branches of the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		_, tree, err := manager.LoadActive()
		if err != nil {
			return fmt.Errorf("load active session: %w", err)
		}

		current := tree.Current()
		for _, name := range tree.List() {
			n, _ := tree.Len(name)
			parent, _ := tree.Parent(name)
			digest, _ := tree.LogDigest(name)

			detail := fmt.Sprintf("%x  %d message(s)", digest[:4], n)
			if parent != "" {
				detail += ", forked from " + parent
			}

			if name == current {
				fmt.Printf("* %s\t%s\n", colors.CurrentBranch(name), colors.Dim(detail))
			} else {
				fmt.Printf("  %s\t%s\n", name, colors.Dim(detail))
			}
		}
		return nil
	},
}
