package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glacier-launcher/glacier/pkg/config"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify glacier configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings",
		RunE:  runConfigShow,
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runConfigShow(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, TabWidth, TabWidth, ' ', 0)
	fmt.Fprintf(w, "profiles_dir:\t%s\n", cfg.Settings.ProfilesDir)
	fmt.Fprintf(w, "http_timeout:\t%s\n", cfg.Settings.HTTPTimeout)
	fmt.Fprintf(w, "max_concurrent_downloads:\t%d\n", cfg.Settings.MaxConcurrent)
	fmt.Fprintf(w, "log_level:\t%s\n", cfg.Settings.LogLevel)
	fmt.Fprintf(w, "log_format:\t%s\n", cfg.Settings.LogFormat)
	for _, m := range cfg.Mirrors {
		fmt.Fprintf(w, "mirror:\t%v -> %s\n", m.Hosts, m.Prefix)
	}
	return w.Flush()
}

func runConfigInit(force bool) error {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}
