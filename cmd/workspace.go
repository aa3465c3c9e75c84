package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rnwolfe/triage/internal/hook"
	"github.com/rnwolfe/triage/internal/tui"
	"github.com/rnwolfe/triage/internal/ui"
	"github.com/rnwolfe/triage/internal/workspace"
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Show or switch the active workspace",
	Long: `Tasks live in workspaces identified by an opaque token. Share the token
to let someone else open the same list; there are no accounts.`,
	Args: cobra.NoArgs,
	RunE: hook.Wrap("workspace", runWorkspaceShow),
}

var workspaceNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a fresh workspace and switch to it",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("workspace.new", runWorkspaceNew),
}

var workspaceUseCmd = &cobra.Command{
	Use:   "use [token]",
	Short: "Switch to an existing workspace",
	Long: `Switch to the workspace with the given token. Without a token in an
interactive terminal, pick from the workspaces known to this machine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("workspace.use", runWorkspaceUse),
}

var workspaceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspaces on this machine",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("workspace.list", runWorkspaceList),
}

func init() {
	workspaceCmd.AddCommand(workspaceNewCmd)
	workspaceCmd.AddCommand(workspaceUseCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
}

func runWorkspaceShow(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	total, overdue, err := s.tasks.Count(s.ws.Token, s.now)
	if err != nil {
		return err
	}

	ui.Header("Workspace")
	fmt.Println()
	ui.Kv("Token", ui.Accent.Render(s.ws.Token))
	if !s.ws.CreatedAt.IsZero() {
		ui.Kv("Created", s.ws.CreatedAt.Local().Format("Jan 2, 2006"))
	}
	ui.Kv("Tasks", fmt.Sprintf("%d (%d overdue)", total, overdue))
	ui.Tip(fmt.Sprintf("open it elsewhere with %s", ui.Accent.Render("triage workspace use "+s.ws.Token)))
	fmt.Println()
	return nil
}

func runWorkspaceNew(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.workspaces.Create()
	if err != nil {
		return err
	}
	if _, err := s.workspaces.Use(w.Token); err != nil {
		return err
	}
	hook.SetResult(cmd, map[string]any{"workspace": w.Token, "previous": s.ws.Token})

	ui.Ok("Created and switched to a new workspace")
	ui.Kv("Token", ui.Accent.Render(w.Token))
	ui.Tip(fmt.Sprintf("back to the old one: %s", ui.Accent.Render("triage workspace use "+s.ws.Token)))
	fmt.Println()
	return nil
}

func runWorkspaceUse(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		if !tui.IsTTY() {
			return fmt.Errorf("a token is required — %s", ui.Accent.Render("triage workspace use <token>"))
		}
		token, err = pickWorkspace(s)
		if err != nil || token == "" {
			return err
		}
	}

	w, err := s.workspaces.Use(token)
	if err != nil {
		if errors.Is(err, workspace.ErrUnknownToken) {
			return fmt.Errorf("invalid token %q — see %s: %w",
				strings.TrimSpace(token), ui.Accent.Render("triage workspace list"), workspace.ErrUnknownToken)
		}
		return err
	}
	hook.SetResult(cmd, map[string]any{"workspace": w.Token, "previous": s.ws.Token})

	ui.Ok(fmt.Sprintf("Switched to workspace %s", ui.Accent.Render(w.Short())))
	return nil
}

type workspaceItem struct {
	w       workspace.Workspace
	count   int
	current bool
}

func (i workspaceItem) FilterValue() string { return i.w.Token }
func (i workspaceItem) Title() string       { return i.w.Short() }
func (i workspaceItem) Description() string {
	desc := fmt.Sprintf("%d tasks", i.count)
	if i.current {
		desc += " · current"
	}
	return desc
}

func pickWorkspace(s *session) (string, error) {
	items, err := workspaceItems(s)
	if err != nil {
		return "", err
	}
	pickerItems := make([]tui.Item, len(items))
	for i, it := range items {
		pickerItems[i] = it
	}

	chosen, err := tui.Pick("Workspaces", pickerItems)
	if err != nil || chosen == nil {
		return "", err
	}
	return chosen.(workspaceItem).w.Token, nil
}

func workspaceItems(s *session) ([]workspaceItem, error) {
	list, err := s.workspaces.List()
	if err != nil {
		return nil, err
	}
	items := make([]workspaceItem, 0, len(list))
	for _, w := range list {
		n, _, err := s.tasks.Count(w.Token, s.now)
		if err != nil {
			return nil, err
		}
		items = append(items, workspaceItem{w: w, count: n, current: w.Token == s.ws.Token})
	}
	return items, nil
}

func runWorkspaceList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	items, err := workspaceItems(s)
	if err != nil {
		return err
	}

	fmt.Println()
	for _, it := range items {
		marker := "  "
		token := it.w.Token
		if it.current {
			marker = ui.Accent.Render(ui.IconArrow + " ")
			token = ui.Accent.Render(token)
		}
		fmt.Printf("  %s%s  %s\n", marker, token, ui.Muted.Render(fmt.Sprintf("%d tasks", it.count)))
	}
	fmt.Println()
	return nil
}
