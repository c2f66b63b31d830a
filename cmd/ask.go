package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"notebookagent/agent"
	"notebookagent/model"
)

var (
	askScope  string
	askActive string
)

func GetAskCommand() *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Run a single turn and print the resulting messages",
		Long: `Sends one message with the selected context, runs at most one tool call and its
follow-up, and prints every message the turn appended.

Example:
  notebook-agent ask --scope document --active projects/plan.md "Summarize this"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	askCmd.Flags().StringVarP(&askScope, "scope", "s", "", "Context scope (document, subtree, store)")
	askCmd.Flags().StringVarP(&askActive, "active", "a", "", "Active document path")
	return askCmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	scope, err := resolveScope(sess, askScope)
	if err != nil {
		return err
	}

	result := sess.engine.HandleUserTurn(cmd.Context(), agent.Turn{
		Input:          strings.Join(args, " "),
		Scope:          scope,
		ActiveDocument: askActive,
	})
	printTurn(cmd.OutOrStdout(), cmd.ErrOrStderr(), result.Events)
	return nil
}

// printTurn writes appended messages to out and notices to errOut.
func printTurn(out, errOut io.Writer, events []model.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case model.MessageAppendedEvent:
			fmt.Fprintf(out, "[%s]\n%s\n\n", e.Message.Role, e.Message.Content)
		case model.NoticeEvent:
			fmt.Fprintf(errOut, "notice: %s\n", e.Text)
		}
	}
}

func resolveScope(sess *session, name string) (model.ContextScope, error) {
	if name == "" {
		return sess.defaultScope(), nil
	}
	return model.ParseScope(name)
}
