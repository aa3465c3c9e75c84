package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rnwolfe/triage/internal/hook"
	"github.com/rnwolfe/triage/internal/rank"
	"github.com/rnwolfe/triage/internal/task"
	"github.com/rnwolfe/triage/internal/tui"
	"github.com/rnwolfe/triage/internal/ui"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t", "tasks"},
	Short:   "Ranked task list",
	Long: `Show every task in the current workspace, best next move first.

In an interactive terminal this opens a full-screen board. Pipe the output
or pass --plain / --format for scripting.

Keyboard shortcuts (interactive mode):
  j / k        Move down / up
  g / G        Jump to top / bottom
  e / Enter    Explain the selected task's score
  Tab          Cycle all → urgent → strategic
  d            Delete selected task
  /            Filter by name (fuzzy)
  q / Esc      Quit`,
	Args: cobra.NoArgs,
	RunE: hook.Wrap("task.list", runTaskList),
}

var (
	taskFormat string
	taskMode   string
	taskPlain  bool

	addPriority string
	addEffort   string
	addMandays  int
	addDue      string

	editName     string
	editPriority string
	editEffort   string
	editMandays  int
	editDue      string
)

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskNextCmd)
	taskCmd.AddCommand(taskExplainCmd)

	taskCmd.Flags().StringVarP(&taskFormat, "format", "f", "text", "Output format: text, json, yaml")
	taskCmd.Flags().StringVar(&taskMode, "mode", "", "Only show tasks in this mode: urgent, strategic")
	taskCmd.Flags().BoolVar(&taskPlain, "plain", false, "Print the list instead of opening the board")

	taskAddCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority: "+priorityChoices())
	taskAddCmd.Flags().StringVarP(&addEffort, "effort", "e", "medium", "Effort: "+effortChoices())
	taskAddCmd.Flags().IntVarP(&addMandays, "mandays", "m", 1, "Estimated person-days of work")
	taskAddCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (YYYY-MM-DD, today, tomorrow, next-week, +Nd)")

	taskEditCmd.Flags().StringVarP(&editName, "name", "n", "", "New name")
	taskEditCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority: "+priorityChoices())
	taskEditCmd.Flags().StringVarP(&editEffort, "effort", "e", "", "New effort: "+effortChoices())
	taskEditCmd.Flags().IntVarP(&editMandays, "mandays", "m", 0, "New man-day estimate")
	taskEditCmd.Flags().StringVarP(&editDue, "due", "d", "", "New due date")
}

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task",
	Long: `Add a task to the current workspace. A due date is required.

Examples:
  triage task add "Ship release notes" -d tomorrow -p high
  triage task add "Quarterly planning" -d +30d -p crit -e vh -m 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: hook.Wrap("task.add", runTaskAdd),
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a task",
	Args:    cobra.ExactArgs(1),
	RunE:    hook.Wrap("task.rm", runTaskRm),
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task's fields",
	Long: `Change one or more fields. Only the flags you pass are updated.

Example:
  triage task edit 4 -d next-week -p high`,
	Args: cobra.ExactArgs(1),
	RunE: hook.Wrap("task.edit", runTaskEdit),
}

var taskNextCmd = &cobra.Command{
	Use:   "next [n]",
	Short: "What should I work on?",
	Long: `Show the top-ranked task, or the top n, as detailed cards.

The default count comes from display.next_count (1 when unset).`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("task.next", runTaskNext),
}

var taskExplainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Show how a task's score was computed",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("task.explain", runTaskExplain),
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	format, err := parseFormat(taskFormat)
	if err != nil {
		return err
	}
	var only *rank.Mode
	if taskMode != "" {
		m, ok := rank.ParseMode(taskMode)
		if !ok {
			return fmt.Errorf("invalid mode %q — valid values: urgent, strategic", taskMode)
		}
		only = &m
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.tasks.List(s.ws.Token)
	if err != nil {
		return err
	}
	ranked := s.engine.Rank(tasks, s.now)
	if only != nil {
		ranked = rank.Filter(ranked, *only)
	}

	if format == formatText && !taskPlain && tui.IsTTY() {
		return runBoard(s, ranked)
	}
	return writeRanked(os.Stdout, format, s, ranked)
}

func runBoard(s *session, ranked []rank.Ranked) error {
	actions, err := tui.RunBoard(ranked)
	if err != nil {
		return err
	}
	for _, a := range actions {
		if a.Type != "delete" {
			continue
		}
		if err := s.tasks.Delete(s.ws.Token, a.ID); err != nil && !errors.Is(err, task.ErrNotFound) {
			return err
		}
		ui.Ok(fmt.Sprintf("Removed #%d", a.ID))
	}
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("task name is required")
	}
	if addDue == "" {
		return fmt.Errorf("a due date is required — pass %s", ui.Accent.Render("-d tomorrow"))
	}

	prio, err := task.ParsePriority(addPriority)
	if err != nil {
		return err
	}
	effort, err := task.ParseEffort(addEffort)
	if err != nil {
		return err
	}
	if addMandays < 1 {
		return fmt.Errorf("mandays must be at least 1, got %d", addMandays)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	due, err := task.ParseDueDate(addDue, s.now)
	if err != nil {
		return err
	}

	id, err := s.tasks.Add(s.ws.Token, task.NewTask{
		Name:     name,
		Priority: prio,
		Effort:   effort,
		Mandays:  addMandays,
		DueDate:  due,
	})
	if err != nil {
		return err
	}
	hook.SetResult(cmd, map[string]any{"id": id, "workspace": s.ws.Token})

	t, err := s.tasks.Get(s.ws.Token, id)
	if err != nil {
		return err
	}
	r := s.engine.Evaluate(*t, s.now)
	ui.Ok(fmt.Sprintf("Added #%d %s", id, ui.Accent.Render(name)))
	fmt.Printf("  %s %s  %s\n", ui.ModeBadge(r.Mode), ui.FormatScore(r.Score()), ui.StyledDue(r.Inputs.DaysLeft))
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.tasks.Get(s.ws.Token, id)
	if err != nil {
		return notFound(err, id)
	}
	if err := s.tasks.Delete(s.ws.Token, id); err != nil {
		return notFound(err, id)
	}
	hook.SetResult(cmd, map[string]any{"id": id, "workspace": s.ws.Token})

	ui.Ok(fmt.Sprintf("Removed #%d %s", id, ui.Muted.Render(t.Name)))
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := buildPatch(cmd, s)
	if err != nil {
		return err
	}
	if err := s.tasks.Update(s.ws.Token, id, p); err != nil {
		return notFound(err, id)
	}
	hook.SetResult(cmd, map[string]any{"id": id, "workspace": s.ws.Token})

	t, err := s.tasks.Get(s.ws.Token, id)
	if err != nil {
		return err
	}
	r := s.engine.Evaluate(*t, s.now)
	ui.Ok(fmt.Sprintf("Updated #%d %s", id, ui.Accent.Render(t.Name)))
	fmt.Printf("  %s %s  %s\n", ui.ModeBadge(r.Mode), ui.FormatScore(r.Score()), ui.StyledDue(r.Inputs.DaysLeft))
	return nil
}

// buildPatch turns the flags the user actually passed into a Patch.
func buildPatch(cmd *cobra.Command, s *session) (task.Patch, error) {
	var p task.Patch
	flags := cmd.Flags()
	changed := false

	if flags.Changed("name") {
		p.Name = &editName
		changed = true
	}
	if flags.Changed("priority") {
		prio, err := task.ParsePriority(editPriority)
		if err != nil {
			return p, err
		}
		p.Priority = &prio
		changed = true
	}
	if flags.Changed("effort") {
		effort, err := task.ParseEffort(editEffort)
		if err != nil {
			return p, err
		}
		p.Effort = &effort
		changed = true
	}
	if flags.Changed("mandays") {
		if editMandays < 1 {
			return p, fmt.Errorf("mandays must be at least 1, got %d", editMandays)
		}
		p.Mandays = &editMandays
		changed = true
	}
	if flags.Changed("due") {
		due, err := task.ParseDueDate(editDue, s.now)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
		changed = true
	}

	if !changed {
		return p, fmt.Errorf("nothing to change — pass at least one of --name, --priority, --effort, --mandays, --due")
	}
	return p, nil
}

func runTaskNext(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	count := s.cfg.Display.NextCountOr(1)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("%q is not a valid count — use %s",
				args[0], ui.Accent.Render("triage task next [n]"))
		}
		count = n
	}

	tasks, err := s.tasks.List(s.ws.Token)
	if err != nil {
		return err
	}
	top := s.engine.Top(tasks, s.now, count)

	if len(top) == 0 {
		fmt.Println()
		fmt.Println(ui.Success.Render("  All clear! Nothing on the list."))
		fmt.Println()
		return nil
	}

	fmt.Println()
	for i, r := range top {
		printTaskCard(r, i+1)
	}
	return nil
}

func runTaskExplain(_ *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.tasks.List(s.ws.Token)
	if err != nil {
		return err
	}
	ranked := s.engine.Rank(tasks, s.now)
	for i, r := range ranked {
		if r.Task.ID == id {
			printExplain(r, i+1, len(ranked), s.cfg.Rank.Params())
			return nil
		}
	}
	return notFound(task.ErrNotFound, id)
}

// flagLabel turns a stored label into the form typed on the command line.
func flagLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

func priorityChoices() string {
	var out []string
	for _, p := range task.Priorities() {
		out = append(out, flagLabel(string(p)))
	}
	return strings.Join(out, ", ")
}

func effortChoices() string {
	var out []string
	for _, e := range task.Efforts() {
		out = append(out, flagLabel(string(e)))
	}
	return strings.Join(out, ", ")
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid task ID", s)
	}
	return id, nil
}

// notFound rewrites ErrNotFound into a message that points at the workspace.
func notFound(err error, id int) error {
	if errors.Is(err, task.ErrNotFound) {
		return fmt.Errorf("task #%d not found in this workspace (see %s): %w",
			id, ui.Accent.Render("triage task"), task.ErrNotFound)
	}
	return err
}
