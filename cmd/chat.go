package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"notebookagent/ui"
)

var (
	chatScope  string
	chatActive string
)

func GetChatCommand() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		Long: `Opens the chat TUI against the configured store.

Keys:
  enter    send the message
  tab      cycle the context scope (folder, document, store)
  ctrl+y   copy the last reply
  ctrl+c   quit

Commands:
  /open <query>   fuzzy-find and open a document
  /close          close the active document
  /scope <name>   set the scope (document, subtree, store)`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	chatCmd.Flags().StringVarP(&chatScope, "scope", "s", "", "Initial context scope (document, subtree, store)")
	chatCmd.Flags().StringVarP(&chatActive, "active", "a", "", "Document to open on start")
	return chatCmd
}

func runChat(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	scope, err := resolveScope(sess, chatScope)
	if err != nil {
		return err
	}

	view := ui.NewChatView(cmd.Context(), sess.engine, sess.store, ui.Options{
		Scope:          scope,
		ActiveDocument: chatActive,
		StoreLabel:     sess.storeLabel(),
		ProviderID:     sess.client.ProviderID(),
	})

	p := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat exited: %w", err)
	}
	return nil
}
