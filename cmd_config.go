package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
)

// validConfigKeys lists all supported configuration keys.
var validConfigKeys = []string{
	ConfigKeyModel,
	ConfigKeyBudget,
	ConfigKeyAddr,
	ConfigKeyWrapWidth,
}

// intConfigKeys holds keys whose values must parse as positive integers.
var intConfigKeys = []string{
	ConfigKeyBudget,
	ConfigKeyWrapWidth,
}

// configCmd creates the config command with subcommands.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-doctrans/config.yaml.
Settings can also be overridden via environment variables.

Supported settings:
  model         Translation model (env: DOCTRANS_MODEL)
  budget        Token budget per segment (env: DOCTRANS_BUDGET)
  addr          Listen address for serve (env: DOCTRANS_ADDR)
  wrap-width    Column width for --layout paragraphs`,
		Example: `  doctrans config set budget 400
  doctrans config get model
  doctrans config list`,
	}

	cmd.AddCommand(configSetCmd())
	cmd.AddCommand(configGetCmd())
	cmd.AddCommand(configListCmd())

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  doctrans config set model gpt-4o-mini
  doctrans config set budget 400`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func runConfigSet(key, value string) error {
	if !slices.Contains(validConfigKeys, key) {
		return fmt.Errorf("unknown config key %q (supported: %v)", key, validConfigKeys)
	}

	if slices.Contains(intConfigKeys, key) {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		return SaveConfigValue(key, n)
	}
	return SaveConfigValue(key, value)
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Show a configuration value",
		Example: "  doctrans config get budget",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !slices.Contains(validConfigKeys, key) {
				return fmt.Errorf("unknown config key %q (supported: %v)", key, validConfigKeys)
			}
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), configValue(cfg, key))
			return nil
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			for _, key := range validConfigKeys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", key, configValue(cfg, key))
			}
			return nil
		},
	}
}

func configValue(cfg Config, key string) string {
	switch key {
	case ConfigKeyModel:
		return cfg.Model
	case ConfigKeyBudget:
		return strconv.Itoa(cfg.Budget)
	case ConfigKeyAddr:
		return cfg.Addr
	case ConfigKeyWrapWidth:
		return strconv.Itoa(cfg.WrapWidth)
	default:
		return ""
	}
}
