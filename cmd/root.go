package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"notebookagent/config"
)

const Version = "v0.1.0"

var (
	configPath   string
	debugFlag    bool
	vaultFlag    string
	storeFlag    string
	providerFlag string
)

// NewRootCommand builds the notebook-agent command tree. Running the root
// without a subcommand starts the chat TUI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "notebook-agent",
		Short:   "Chat with an LLM that can read and edit your notes",
		Long: `notebook-agent attaches documents from a note store to each chat turn and lets
the model create, update and list documents through a small set of tools.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runChat,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to config.toml (default ~/.config/notebook-agent/config.toml)")
	flags.BoolVar(&debugFlag, "debug", false, "Write a debug log to <data_directory>/debug.log")
	flags.StringVar(&vaultFlag, "vault", "", "Override vault_path from the config")
	flags.StringVar(&storeFlag, "store", "", "Override the store backend (filesystem or sqlite)")
	flags.StringVarP(&providerFlag, "provider", "p", "", "Override active_provider from the config")

	rootCmd.AddCommand(GetChatCommand())
	rootCmd.AddCommand(GetAskCommand())
	rootCmd.AddCommand(GetToolsCommand())
	rootCmd.AddCommand(GetMCPCommand())
	rootCmd.AddCommand(GetInitCommand())
	rootCmd.AddCommand(GetAuthCommand())
	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads settings and applies command-line overrides on top of
// the file and environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if vaultFlag != "" {
		cfg.VaultPath = vaultFlag
	}
	if storeFlag != "" {
		switch storeFlag {
		case config.StoreFilesystem, config.StoreSQLite:
			cfg.Store = storeFlag
		default:
			return nil, fmt.Errorf("unknown store backend: %q", storeFlag)
		}
	}
	if providerFlag != "" {
		cfg.ActiveProvider = providerFlag
	}
	return cfg, nil
}

type closers []io.Closer

func (c closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
