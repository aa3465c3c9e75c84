package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/rnwolfe/triage/internal/config"
	"github.com/rnwolfe/triage/internal/hook"
	"github.com/rnwolfe/triage/internal/rank"
	"github.com/rnwolfe/triage/internal/tips"
	"github.com/rnwolfe/triage/internal/ui"
	"github.com/rnwolfe/triage/internal/version"
	"github.com/rnwolfe/triage/internal/workspace"
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Deadline-aware task ranking",
	Long: `triage ranks your tasks so the one at the top is the one to do next.

Tasks due within a few days are scored by deadline pressure; everything
else is scored by importance, with big important work forgiven its size.`,
	RunE:              hook.Wrap("triage", runDashboard),
	PersistentPreRunE: configureOutput,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// Hooks are optional; a broken hooks dir must not break the CLI.
	if _, err := hook.RegisterUserHooks(hook.DefaultRegistry); err != nil {
		log.Printf("warning: loading user hooks: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)
}

// configureOutput applies the colour setting before any command prints.
func configureOutput(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	ui.ConfigureColor(!noColor && cfg.Display.ColorEnabled())
	return nil
}

// runDashboard shows the at-a-glance status when you just type `triage`.
func runDashboard(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	total, overdue, err := s.tasks.Count(s.ws.Token, s.now)
	if err != nil {
		return fmt.Errorf("counting tasks: %w", err)
	}
	all, err := s.tasks.List(s.ws.Token)
	if err != nil {
		return err
	}
	ranked := s.engine.Rank(all, s.now)

	fmt.Println(ui.Greet(s.cfg.User.Name))
	fmt.Println()

	summary := fmt.Sprintf("%d open", total)
	if overdue > 0 {
		summary += ui.Error.Render(fmt.Sprintf(" (%d overdue!)", overdue))
	}
	urgent := len(rank.Filter(ranked, rank.ModeUrgent))
	if urgent > 0 {
		summary += ui.Muted.Render(fmt.Sprintf(" · %d urgent", urgent))
	}
	ui.Kv(ui.IconTask+" Tasks", summary)
	ui.Kv(ui.IconKey+" Space", workspace.ShortToken(s.ws.Token))

	if len(ranked) > 0 {
		r := ranked[0]
		ui.Kv(ui.IconUrgent+" Next", fmt.Sprintf("#%d %s %s %s",
			r.Task.ID, ui.Accent.Render(r.Task.Name),
			ui.Muted.Render(ui.IconDot+" "+ui.FormatScore(r.Score())+" "+r.Mode.String()+" "+ui.IconDot),
			ui.StyledDue(r.Inputs.DaysLeft)))
	}

	ui.Kv("📅 Today", s.now.Format("Monday, January 2"))
	ui.Kv("⚙️  triage", version.Short())

	switch {
	case total == 0:
		ui.Tip("`triage task add \"something\" -d tomorrow` to capture your first task.")
	case overdue > 0:
		ui.Tip("`triage task next` to see what to tackle first.")
	default:
		ui.Tip(tips.Daily(s.now))
	}

	fmt.Println()
	return nil
}
