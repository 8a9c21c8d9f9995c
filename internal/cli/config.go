package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-pdfsummary/internal/config"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/pdfsummary/config.yaml (or under
$XDG_CONFIG_HOME). Environment variables override the file, and command-line
flags override both.

Supported settings:
` + settingsHelp(),
		Example: `  pdfsummary config set output-dir ~/Documents/summaries
  pdfsummary config set llm ollama
  pdfsummary config get language
  pdfsummary config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// settingsHelp lists every key with its environment variables.
func settingsHelp() string {
	var b strings.Builder
	for _, key := range config.Keys() {
		fmt.Fprintf(&b, "  %-20s (env: %s)\n", key, strings.Join(config.EnvNames(key), ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

The value is checked against the setting's type. For output-dir the
directory is created if it doesn't exist.`,
		Example: `  pdfsummary config set output-dir ~/Documents/summaries
  pdfsummary config set chunk-size 6000
  pdfsummary config set timeout 10m`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the stored value, or the environment override when the file has none.
Prints nothing if neither is set.`,
		Example: `  pdfsummary config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  pdfsummary config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("%q (valid keys: %s): %w", key, strings.Join(config.Keys(), ", "), config.ErrUnknownKey)
	}

	if key == config.KeyOutputDir {
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
		value = expanded
	}

	if err := env.ConfigStore.Set(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("%q (valid keys: %s): %w", key, strings.Join(config.Keys(), ", "), config.ErrUnknownKey)
	}

	value, err := env.ConfigStore.Get(key)
	if err != nil {
		return err
	}
	if value == "" {
		value, _ = envOverride(env, key)
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
// Environment overrides are shown next to the stored value they mask.
func runConfigList(env *Env) error {
	data, err := env.ConfigStore.List()
	if err != nil {
		return err
	}

	printed := 0
	for _, key := range config.Keys() {
		stored, inFile := data[key]
		envVal, envName := envOverride(env, key)

		switch {
		case envName != "" && inFile:
			fmt.Fprintf(env.Stdout, "%s=%s (from env %s, file has %s)\n", key, envVal, envName, stored)
		case envName != "":
			fmt.Fprintf(env.Stdout, "%s=%s (from env %s)\n", key, envVal, envName)
		case inFile:
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, stored)
		default:
			continue
		}
		printed++
	}

	if printed == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintf(env.Stdout, "\nConfig file: %s\n", env.ConfigStore.Path())
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s (default: %q)\n", key, config.Default(key))
		}
	}
	return nil
}

// envOverride returns the first set environment variable of key.
func envOverride(env *Env, key string) (value, name string) {
	for _, n := range config.EnvNames(key) {
		if v := env.Getenv(n); v != "" {
			return v, n
		}
	}
	return "", ""
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(config.Keys(), key)
}
