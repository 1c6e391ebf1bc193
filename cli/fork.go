package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forkCmd = &cobra.Command{
	Use:   "fork",
	Short: "Fork the current branch",
	Long: `Creates an isolated copy of the current branch and switches to it.
The new branch starts with the full history of its parent; messages
added on either side afterwards stay on their own branch until merged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		sess, tree, err := manager.LoadActive()
		if err != nil {
			return fmt.Errorf("load active session: %w", err)
		}

		parent := tree.Current()
		name, err := tree.Fork()
		if err != nil {
			return fmt.Errorf("fork %s: %w", parent, err)
		}

		if err := manager.Save(sess, tree); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("Forked '%s' into '%s'\n", parent, name)
		fmt.Printf("Now on branch '%s'\n", name)
		return nil
	},
}
