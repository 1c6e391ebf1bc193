package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/grove-cli/grove/internal/branch"
	"github.com/grove-cli/grove/internal/colors"
)

var switchToParentFlag bool

var switchCmd = &cobra.Command{
	Use:   "switch [name]",
	Short: "Switch to another branch",
	Long: `Makes the named branch current without touching any history.
With --parent the current branch's parent becomes current. With no
arguments an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
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

		switch {
		case switchToParentFlag:
			before := tree.Current()
			tree.SwitchToParent()
			if tree.Current() == before {
				fmt.Println(colors.Warning("Already on the root branch"))
				return nil
			}
		case len(args) == 1:
			if err := tree.SwitchTo(args[0]); err != nil {
				if errors.Is(err, branch.ErrBranchNotFound) {
					return fmt.Errorf("branch %q does not exist (try 'grove branches')", args[0])
				}
				return err
			}
		default:
			name, err := pickBranch(tree)
			if err != nil {
				return err
			}
			if name == "" {
				return nil // aborted
			}
			if err := tree.SwitchTo(name); err != nil {
				return err
			}
		}

		if err := manager.Save(sess, tree); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("Now on branch '%s'\n", tree.Current())
		return nil
	},
}

func init() {
	switchCmd.Flags().BoolVarP(&switchToParentFlag, "parent", "p", false, "Switch to the current branch's parent")
}

// pickBranch shows a raw-mode arrow-key selector over all branches.
// Returns the chosen name, or "" if the user aborted.
func pickBranch(tree *branch.Tree) (string, error) {
	names := tree.List()
	current := tree.Current()

	selected := 0
	for i, n := range names {
		if n == current {
			selected = i
		}
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no branch name given and stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	render := func() {
		fmt.Print("\033[2J\033[H") // clear screen, home cursor
		fmt.Print("Select a branch (up/down, enter to switch, q to abort)\r\n\r\n")
		for i, n := range names {
			marker := "  "
			if n == current {
				marker = "* "
			}
			line := marker + n
			if i == selected {
				fmt.Printf("> %s\r\n", colors.CurrentBranch(line))
			} else {
				fmt.Printf("  %s\r\n", line)
			}
		}
	}

	buf := make([]byte, 3)
	for {
		render()
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}

		switch {
		case n == 1 && (buf[0] == 'q' || buf[0] == 3): // q or Ctrl-C
			fmt.Print("\033[2J\033[H")
			return "", nil
		case n == 1 && (buf[0] == '\r' || buf[0] == '\n'):
			fmt.Print("\033[2J\033[H")
			return names[selected], nil
		case n == 3 && buf[0] == 0x1b && buf[1] == '[':
			switch buf[2] {
			case 'A': // up
				if selected > 0 {
					selected--
				}
			case 'B': // down
				if selected < len(names)-1 {
					selected++
				}
			}
		case n == 1 && buf[0] == 0x1b: // bare escape
			fmt.Print("\033[2J\033[H")
			return "", nil
		}
	}
}
