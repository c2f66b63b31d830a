package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"notebookagent/tools"
)

func GetToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions offered to the model as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(tools.Definitions(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode tool definitions: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
