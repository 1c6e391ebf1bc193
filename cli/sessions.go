package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/colors"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"s"},
	Short:   "Manage conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		sessions, err := manager.List()
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found. Start one with 'grove new'.")
			return nil
		}

		active, _ := manager.Active()
		for _, sess := range sessions {
			marker := "  "
			if sess.ID == active {
				marker = "* "
			}
			fmt.Printf("%s%s\t%s\t%s\n", marker, sess.ID, sess.Title,
				colors.Dim(sess.UpdatedAt.Local().Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := manager.SetActive(args[0]); err != nil {
			return fmt.Errorf("activate session %s: %w", args[0], err)
		}
		fmt.Printf("Active session is now %s\n", args[0])
		return nil
	},
}

var sessionsRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a session and its whole tree",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := manager.Remove(args[0]); err != nil {
			return fmt.Errorf("remove session %s: %w", args[0], err)
		}
		fmt.Printf("Removed session %s\n", args[0])
		return nil
	},
}
