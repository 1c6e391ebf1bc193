package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/branch"
	"github.com/grove-cli/grove/internal/colors"
)

var logBranchName string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the current branch's transcript",
	Long: `Prints the ordered message log of the current branch — exactly the
context the model sees. Use --branch to inspect another branch without
switching to it.`,
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

		name := logBranchName
		if name == "" {
			name = tree.Current()
		}
		log, err := tree.Log(name)
		if err != nil {
			return err
		}

		fmt.Printf("Branch '%s' (%d messages)\n\n", name, len(log))
		for _, m := range log {
			fmt.Printf("%s %s\n", roleLabel(m.Role), m.Content)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVarP(&logBranchName, "branch", "b", "", "Branch to show instead of the current one")
}

func roleLabel(r branch.Role) string {
	switch r {
	case branch.RoleSystem:
		return colors.System("system:   ")
	case branch.RoleUser:
		return colors.User("user:     ")
	case branch.RoleAssistant:
		return colors.Assistant("assistant:")
	default:
		return string(r) + ":"
	}
}
