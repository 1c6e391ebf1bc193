package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [title...]",
	Short: "Start a new conversation session",
	Long: `Creates a new session with a fresh conversation tree rooted in the
configured persona and makes it the active session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		title := strings.Join(args, " ")
		if title == "" {
			title = "untitled"
		}

		sess, _, err := manager.Create(title, cfg.Model.Name, cfg.Persona)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		fmt.Printf("Created session %s (%s)\n", sess.ID, sess.Title)
		fmt.Println("Now on branch 'main'")
		return nil
	},
}
