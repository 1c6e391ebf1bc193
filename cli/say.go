package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grove-cli/grove/internal/colors"
	"github.com/grove-cli/grove/internal/transport"
)

var sayCmd = &cobra.Command{
	Use:   "say <message...>",
	Short: "Send a message on the current branch",
	Long: `Appends your message to the current branch, asks the model for a
reply with the branch's full history as context, and appends the reply.
Nothing is persisted if the model call fails, so the stored session
never holds a question without its answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, manager, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		sess, tree, err := manager.LoadActive()
		if err != nil {
			return fmt.Errorf("load active session: %w", err)
		}

		client, err := transport.NewClient(cfg.API.BaseURL, cfg.API.KeyEnv)
		if err != nil {
			return err
		}

		content := strings.Join(args, " ")
		tree.AppendUser(content)

		// The model call happens outside any tree lock; the snapshot is
		// the exact context handed over.
		reply, err := client.Generate(cmd.Context(), tree.ActiveMemory(), transport.Options{
			Model:       modelFor(sess.Model, cfg.Model.Name),
			Temperature: cfg.Model.Temperature,
		})
		if err != nil {
			return fmt.Errorf("generate reply: %w", err)
		}
		tree.AppendAssistant(reply)

		if err := manager.Save(sess, tree); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("%s %s\n", colors.Assistant("assistant:"), reply)
		return nil
	},
}

// modelFor prefers the model recorded on the session, falling back to
// the configured default.
func modelFor(sessionModel, configModel string) string {
	if sessionModel != "" {
		return sessionModel
	}
	return configModel
}
