package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/archive"
	"github.com/grove-cli/grove/internal/branch"
)

var exportSessionID string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a session to a compressed archive",
	Long: `Writes the active session (or the one named with --session) to a
portable zstd-compressed archive, including every branch, all logs,
parent linkage and fork counters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		sess := exportSessionID
		if sess == "" {
			sess, err = manager.Active()
			if err != nil {
				return err
			}
		}
		meta, tree, err := manager.Load(sess)
		if err != nil {
			return fmt.Errorf("load session %s: %w", sess, err)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create archive file: %w", err)
		}
		defer f.Close()

		env := archive.Envelope{Session: meta, Tree: tree.State()}
		if err := archive.Write(f, env); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}

		fmt.Printf("Exported session %s to %s\n", sess, args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a session from an archive",
	Long: `Reads a grove archive, verifies its integrity, restores the session
with all branches intact, and makes it active.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open archive file: %w", err)
		}
		defer f.Close()

		env, err := archive.Read(f)
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		tree, err := branch.FromState(env.Tree)
		if err != nil {
			return fmt.Errorf("restore tree: %w", err)
		}

		if err := manager.Save(env.Session, tree); err != nil {
			return fmt.Errorf("save imported session: %w", err)
		}
		if err := manager.SetActive(env.Session.ID); err != nil {
			return fmt.Errorf("activate imported session: %w", err)
		}

		fmt.Printf("Imported session %s (%s), %d branch(es)\n",
			env.Session.ID, env.Session.Title, len(env.Tree.Branches))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSessionID, "session", "", "Session id to export (defaults to the active session)")
}
