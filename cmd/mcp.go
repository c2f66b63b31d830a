package cmd

import (
	"github.com/spf13/cobra"

	"notebookagent/mcp"
	"notebookagent/tools"
)

func GetMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the document tools over MCP on stdio",
		Long: `Runs an MCP server on stdin/stdout exposing create_document, update_document
and list_documents against the configured store. No provider is contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closer, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			srv := mcp.NewServer(tools.NewDispatcher(store))
			return mcp.ServeStdio(cmd.Context(), srv, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
