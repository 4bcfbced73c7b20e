package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobhunter/internal/config"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/internal/validation"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		c := a.Config

		row := func(label, value string) {
			cmd.Printf("%s %s\n", ui.Label(label+":"), value)
		}
		configured := func(s string) string {
			if s == "" {
				return "✗ Not configured"
			}
			return "✓ Configured"
		}

		cmd.Println(ui.Title("Configuration"))
		row("Config File", config.Path(c.Dir))
		row("Backend", a.Client.BaseURL())
		row("User", orNone(c.UserID))
		row("Email", orNone(c.Email))
		// never print the token itself
		row("Auth Token", configured(c.AuthToken))
		row("Log", fmt.Sprintf("%s (%s)", c.LogFile, c.LogLevel))
		row("Request Timeout", c.RequestTimeout.String())
		row("Status Poll", c.StatusPollInterval.String())
		row("Timeline Poll", c.TimelinePollInterval.String())
		row("Jobs Limit", fmt.Sprint(c.JobsLimit))

		cache := c.CacheBackend
		switch c.CacheBackend {
		case "sqlite":
			cache += " " + c.CachePath
		case "redis":
			cache += fmt.Sprintf(" %s db %d", c.RedisAddr, c.RedisDB)
		}
		row("Cache", cache)
		row("Captures", c.CaptureDir)
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  jobhunter config set --key user_id --value user_2abc
  jobhunter config set --key api_base_url --value http://192.168.1.20:8000
  jobhunter config set --key cache_backend --value redis
  jobhunter config set --key status_poll_interval --value 10s`,
	// runs without the app so a broken config.yaml can still be repaired
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || !cmd.Flags().Changed("value") {
			return invalidArg("both --key and --value are required")
		}
		if !config.IsSettable(key) {
			return invalidArg("unknown key %q; must be one of: %s", key, strings.Join(config.SettableKeys, ", "))
		}

		dir, err := configDir(cmd)
		if err != nil {
			return err
		}
		if err := config.Set(dir, key, value); err != nil {
			if errors.Is(err, config.ErrInvalid) {
				return invalidArg("%s not saved: %v", key, validation.Humanize(err))
			}
			return fmt.Errorf("update config: %w", err)
		}

		cmd.Println(ui.Success("Configuration updated: " + key))
		return nil
	},
}

func configDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Root().PersistentFlags().GetString("config-dir"); dir != "" {
		return dir, nil
	}
	return config.DefaultDir()
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd, setConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
