package cmd

import (
	"fmt"

	"github.com/rnwolfe/triage/internal/config"
	"github.com/rnwolfe/triage/internal/hook"
	"github.com/rnwolfe/triage/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage configuration",
	RunE:  hook.Wrap("config", runConfigShow),
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.GetPaths().ConfigFile)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Run 'triage config list' for every key.

Examples:
  triage config set user.name Sam
  triage config set rank.urgent_window 5
  triage config set rank.strategic.decay_rate 0.1`,
	Args: cobra.ExactArgs(2),
	RunE: hook.Wrap("config.set", runConfigSet),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("config.get", runConfigGet),
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("config.unset", runConfigUnset),
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration key with its current value",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("config.list", runConfigList),
}

func lookupKey(key string) (*config.KeyEntry, error) {
	entry, ok := config.LookupKey(key)
	if !ok {
		return nil, fmt.Errorf("unknown config key %q (run %s to see available keys)",
			key, ui.Accent.Render("triage config list"))
	}
	return entry, nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	entry, err := lookupKey(key)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := entry.Set(cfg, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s = %s", key, entry.Get(cfg)))
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	entry, err := lookupKey(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println(entry.Get(cfg))
	return nil
}

func runConfigUnset(_ *cobra.Command, args []string) error {
	key := args[0]
	entry, err := lookupKey(key)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	entry.Unset(cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s reset to default (%s)", key, entry.Get(cfg)))
	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println()
	for _, key := range config.ValidKeyNames() {
		entry, _ := config.LookupKey(key)
		value := entry.Get(cfg)
		styled := ui.ValueStyle.Render(value)
		if value == entry.DefaultStr {
			styled = ui.Muted.Render(value)
		}
		fmt.Printf("  %-40s %-8s %s\n", ui.KeyStyle.Render(key), ui.Muted.Render(string(entry.Type)), styled)
		fmt.Printf("  %s\n", ui.Muted.Render("  "+entry.Desc))
	}
	fmt.Println()
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	paths := config.GetPaths()
	p := cfg.Rank.Params()

	ui.Header("Configuration")
	fmt.Println()
	ui.Kv("Name", cfg.User.Name)
	ui.Kv("Color", fmt.Sprintf("%t", cfg.Display.ColorEnabled()))
	ui.Kv("Next count", fmt.Sprintf("%d", cfg.Display.NextCountOr(1)))
	ui.Kv("Urgent if", fmt.Sprintf("due within %d days", p.UrgentWindow))
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Data", paths.DBFile)
	ui.Kv("Hooks", hook.HooksDir())
	fmt.Println()
	ui.Tip(fmt.Sprintf("every tunable: %s", ui.Accent.Render("triage config list")))
	fmt.Println()

	return nil
}
