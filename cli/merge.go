package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/branch"
	"github.com/grove-cli/grove/internal/colors"
)

var mergeToMain bool

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the current branch into its parent",
	Long: `Transfers every message past the divergence point of the current
branch into its parent and switches to the parent. With --main the
merge goes directly into the root branch, skipping intermediate
ancestors. Merging while already on the root is a no-op.`,
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

		var res branch.MergeResult
		if mergeToMain {
			res = tree.MergeToMain()
		} else {
			res = tree.Merge()
		}

		if res.Skipped {
			fmt.Println(colors.Warning("Nothing to merge: already on the root branch"))
			return nil
		}

		if err := manager.Save(sess, tree); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("Merged %d message(s) from '%s' into '%s'\n", res.Merged, res.Source, res.Destination)
		fmt.Printf("Now on branch '%s'\n", res.Destination)
		return nil
	},
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeToMain, "main", false, "Merge directly into the root branch")
}
