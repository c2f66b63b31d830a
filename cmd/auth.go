package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"notebookagent/config"
)

func GetAuthCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Stores API keys in <data_directory>/credentials.toml (mode 0600).
A key in the provider's environment variable (e.g. OPENAI_API_KEY) always
takes precedence over the stored one.`,
	}

	setCmd := &cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Store the API key for a provider",
		Long: `Stores the API key for a provider. When the key is omitted it is read from
the first line of stdin, which keeps it out of shell history:

  echo "$KEY" | notebook-agent auth set anthropic`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runAuthSet,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  runAuthDelete,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show which providers have a key configured",
		Args:  cobra.NoArgs,
		RunE:  runAuthList,
	}

	authCmd.AddCommand(setCmd, deleteCmd, listCmd)
	return authCmd
}

func keyedProvider(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if !config.RequiresCredential(id) {
		return "", fmt.Errorf("provider %q does not use an API key (one of: openai, anthropic, gemini, openrouter)", id)
	}
	return id, nil
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	id, err := keyedProvider(args[0])
	if err != nil {
		return err
	}

	var key string
	if len(args) == 2 {
		key = args[1]
	} else {
		key, err = readKey(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty API key for %s", config.ProviderDisplayName(id))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.CredentialStore.Set(id, key)
	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s API key\n", config.ProviderDisplayName(id))
	return nil
}

func runAuthDelete(cmd *cobra.Command, args []string) error {
	id, err := keyedProvider(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.CredentialStore.Delete(id)
	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s API key\n", config.ProviderDisplayName(id))
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, id := range config.KnownProviders {
		if !config.RequiresCredential(id) {
			continue
		}
		status := "not set"
		if cfg.CredentialStore.Get(id) != "" {
			status = "set"
		}
		fmt.Fprintf(out, "%-12s %s (env %s)\n", id, status, config.EnvKeyVar(id))
	}
	return nil
}

func readKey(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return line, nil
}
