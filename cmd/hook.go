package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rnwolfe/triage/internal/hook"
	"github.com/rnwolfe/triage/internal/ui"
	"github.com/spf13/cobra"
)

// hookCommands lists the names commands register with hook.Wrap.
var hookCommands = []string{
	"triage",
	"task.list", "task.add", "task.rm", "task.edit", "task.next", "task.explain",
	"workspace", "workspace.new", "workspace.use", "workspace.list",
	"config", "config.set", "config.get", "config.unset", "config.list",
	"hook.list", "hook.create", "hook.test",
	"version",
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run scripts before or after triage commands",
	Long:  `Drop executables in the hooks directory to validate, rewrite, or react to commands.`,
	RunE:  hook.Wrap("hook.list", runHookList),
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hook scripts",
	RunE:  hook.Wrap("hook.list", runHookList),
}

var hookCreateCmd = &cobra.Command{
	Use:   "create <command-pattern> <stage>",
	Short: "Scaffold a new hook script",
	Long: `Create a starter hook script.

Stages: prevalidate, preexec, postexec (transform), notify (fire-and-forget).

Examples:
  triage hook create task.add preexec
  triage hook create "task.*" notify
  triage hook create "*" postexec`,
	Args: cobra.ExactArgs(2),
	RunE: hook.Wrap("hook.create", runHookCreate),
}

var hookTestCmd = &cobra.Command{
	Use:   "test <file>",
	Short: "Run a hook once with a sample task.add context",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("hook.test", runHookTest),
}

func init() {
	hookCmd.AddCommand(hookListCmd)
	hookCmd.AddCommand(hookCreateCmd)
	hookCmd.AddCommand(hookTestCmd)
}

func runHookList(_ *cobra.Command, _ []string) error {
	hooks, err := hook.Discover()
	if err != nil {
		return err
	}

	if len(hooks) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No hooks found."))
		fmt.Println()
		fmt.Printf("  Hooks directory: %s\n", ui.Accent.Render(hook.HooksDir()))
		fmt.Printf("  Create one:      %s\n", ui.Accent.Render("triage hook create task.add preexec"))
		fmt.Println()
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Title.Render("  " + ui.IconHook + " Hooks"))
	fmt.Println()
	for _, h := range hooks {
		fmt.Printf("  %s %-20s %-12s %s\n",
			ui.Success.Render("●"),
			ui.Accent.Render(h.Pattern),
			ui.Muted.Render(string(h.Stage)),
			ui.Muted.Render(string(hook.ModeFor(h.Stage))),
		)
	}
	fmt.Println()
	fmt.Printf("  %s\n", ui.Muted.Render(fmt.Sprintf("%d hooks in %s", len(hooks), hook.HooksDir())))
	fmt.Println()
	return nil
}

func runHookCreate(_ *cobra.Command, args []string) error {
	pattern := args[0]
	stage, err := hook.ParseStageStr(args[1])
	if err != nil {
		return err
	}

	path, err := hook.CreateHookScript(pattern, stage)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Created hook: %s", path))
	if matched := matchingCommands(pattern); len(matched) == 0 {
		ui.Warn(fmt.Sprintf("%q matches no triage command yet", pattern))
	}
	fmt.Println()
	fmt.Printf("  Edit: %s\n", ui.Accent.Render("$EDITOR "+path))
	fmt.Printf("  Test: %s\n", ui.Accent.Render("triage hook test "+path))
	fmt.Println()
	return nil
}

// matchingCommands returns the hookable commands pattern would fire for.
func matchingCommands(pattern string) []string {
	var out []string
	for _, c := range hookCommands {
		if ok, _ := filepath.Match(pattern, c); ok {
			out = append(out, c)
		}
	}
	return out
}

func runHookTest(_ *cobra.Command, args []string) error {
	path := args[0]

	fmt.Println()
	fmt.Printf("  Testing: %s\n", ui.Accent.Render(path))
	fmt.Println()

	output, err := hook.TestHook(path)
	if err != nil {
		return err
	}

	ui.Ok("Hook ran successfully")
	if output != "" {
		fmt.Println()
		fmt.Printf("  Output:\n  %s\n", ui.Muted.Render(output))
	}
	fmt.Println()
	return nil
}
