package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/regrabarr/internal/config"
	"github.com/vmunix/regrabarr/internal/notify/discord"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without contacting the backends.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configImportCmd = &cobra.Command{
	Use:   "import-legacy <config.yml> [path]",
	Short: "Convert a chat-bot config.yml into config.toml",
	Long: `Reads the Radarr and Sonarr URLs and API keys from a config.yml written for
the chat bot and writes a config.toml with defaults for everything else.
The bot token is ignored.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigImport,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd, configInitCmd, configImportCmd)
	configTestCmd.Flags().Bool("notify", false, "Send a test message to the Discord webhook")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configImportCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

// targetPath picks the output path of init and import-legacy.
func targetPath(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return config.DefaultPath()
}

func refuseOverwrite(cmd *cobra.Command, path string) error {
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		var err error
		if path, err = config.Discover(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")

	if notify, _ := cmd.Flags().GetBool("notify"); notify {
		d := cfg.Notifications.Discord
		if !d.Enabled {
			return fmt.Errorf("discord notifications are disabled")
		}
		n := discord.New(discord.Settings{WebhookURL: d.WebhookURL, Username: d.Username})
		if err := n.Test(cmd.Context()); err != nil {
			return fmt.Errorf("discord test failed: %w", err)
		}
		fmt.Fprintln(out, "Discord test message sent.")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := targetPath(args, 0)
	if err := refuseOverwrite(cmd, path); err != nil {
		return err
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadLegacyYAML(args[0])
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(cmd.OutOrStdout(), configErr)
			return fmt.Errorf("legacy configuration invalid")
		}
		return err
	}

	path := targetPath(args, 1)
	if err := refuseOverwrite(cmd, path); err != nil {
		return err
	}
	if err := cfg.Write(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", args[0], path)
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:     %s:%d (log: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)

	backends := []string{}
	if cfg.Radarr.URL != "" {
		backends = append(backends, "radarr ("+cfg.Radarr.URL+")")
	}
	if cfg.Sonarr.URL != "" {
		backends = append(backends, "sonarr ("+cfg.Sonarr.URL+")")
	}
	fmt.Fprintf(w, "  Backends:   %s\n", strings.Join(backends, ", "))
	fmt.Fprintf(w, "  Commands:   %s, %s\n", cfg.Commands.Movie, cfg.Commands.Episode)
	fmt.Fprintf(w, "  Session:    timeout %s, sweep %s\n", cfg.Session.Timeout.Duration, cfg.Session.SweepInterval.Duration)

	if cfg.Notifications.Discord.Enabled {
		fmt.Fprintln(w, "  Notify:     discord")
	}
}
