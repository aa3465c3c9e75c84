package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rnwolfe/triage/internal/task"
	"gopkg.in/yaml.v3"
)

// seedTasks adds an urgent task (#1, score 260) and a strategic one (#2, 248.5).
func seedTasks(t *testing.T) {
	t.Helper()
	addTask(t, "Fix prod outage", "tomorrow", "high", "low", 1)
	addTask(t, "Plan roadmap", "+30d", "critical", "medium", 1)
}

func listAs(t *testing.T, format string) string {
	t.Helper()
	taskFormat = format
	return captureStdout(t, func() {
		if err := runTaskList(taskCmd, nil); err != nil {
			t.Fatalf("runTaskList: %v", err)
		}
	})
}

func TestTaskList_JSON(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	var v listView
	if err := json.Unmarshal([]byte(listAs(t, "json")), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v.Date != "2025-03-10" {
		t.Errorf("date = %q, want 2025-03-10", v.Date)
	}
	if v.Workspace == "" {
		t.Error("workspace token missing")
	}
	if len(v.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(v.Tasks))
	}

	first, second := v.Tasks[0], v.Tasks[1]
	if first.Name != "Fix prod outage" || first.Mode != "urgent" || first.Score != 260 {
		t.Errorf("first = %+v, want Fix prod outage / urgent / 260", first)
	}
	if first.DaysLeft != 1 || first.DueDate != "2025-03-11" {
		t.Errorf("first due = %s (%d days), want 2025-03-11 (1)", first.DueDate, first.DaysLeft)
	}
	if second.Name != "Plan roadmap" || second.Mode != "strategic" || second.Score != 248.5 {
		t.Errorf("second = %+v, want Plan roadmap / strategic / 248.5", second)
	}
	if second.Breakdown.Penalty != 17.5 {
		t.Errorf("forgiven penalty = %v, want 17.5", second.Breakdown.Penalty)
	}
	if first.Rank != 1 || second.Rank != 2 {
		t.Errorf("ranks = %d, %d", first.Rank, second.Rank)
	}
}

func TestTaskList_YAML(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	out := listAs(t, "yml")
	var v listView
	if err := yaml.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(v.Tasks) != 2 || v.Tasks[0].ID != 1 {
		t.Fatalf("unexpected yaml list: %+v", v.Tasks)
	}
	if !strings.Contains(out, "due_date: \"2025-03-11\"") && !strings.Contains(out, "due_date: 2025-03-11") {
		t.Errorf("yaml missing due_date:\n%s", out)
	}
}

func TestTaskList_ModeFilter(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	taskMode = "strategic"
	var v listView
	if err := json.Unmarshal([]byte(listAs(t, "json")), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(v.Tasks) != 1 || v.Tasks[0].Name != "Plan roadmap" {
		t.Errorf("strategic filter = %+v", v.Tasks)
	}

	taskMode = "someday"
	if err := runTaskList(taskCmd, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestTaskList_Text(t *testing.T) {
	configTestEnv(t)

	taskPlain = true
	if out := listAs(t, "text"); !strings.Contains(out, "No tasks") {
		t.Errorf("empty list output = %q", out)
	}

	seedTasks(t)
	out := listAs(t, "text")
	if strings.Index(out, "Fix prod outage") > strings.Index(out, "Plan roadmap") {
		t.Errorf("urgent task should be listed first:\n%s", out)
	}
	if !strings.Contains(out, "260") || !strings.Contains(out, "248.5") {
		t.Errorf("scores missing:\n%s", out)
	}
}

func TestTaskList_BadFormat(t *testing.T) {
	configTestEnv(t)

	taskFormat = "xml"
	err := runTaskList(taskCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("err = %v, want invalid format", err)
	}
}

func TestTaskAdd_Validation(t *testing.T) {
	configTestEnv(t)

	tests := []struct {
		name     string
		due      string
		priority string
		mandays  int
		want     string
	}{
		{"no due", "", "medium", 1, "due date is required"},
		{"bad due", "someday", "medium", 1, "invalid due date"},
		{"bad priority", "today", "urgent", 1, "invalid priority"},
		{"zero mandays", "today", "medium", 0, "mandays must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addDue, addPriority, addEffort, addMandays = tt.due, tt.priority, "medium", tt.mandays
			err := runTaskAdd(taskAddCmd, []string{"Something"})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}

	addDue = "today"
	if err := runTaskAdd(taskAddCmd, []string{"  "}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestTaskAdd_StoresFields(t *testing.T) {
	configTestEnv(t)
	addTask(t, "Quarterly planning", "2025-04-01", "crit", "vh", 5)

	s := currentSession(t)
	got, err := s.tasks.Get(s.ws.Token, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Quarterly planning" || got.Priority != task.PriorityCritical ||
		got.Effort != task.EffortVeryHigh || got.Mandays != 5 {
		t.Errorf("stored task = %+v", got)
	}
	if d := got.DueDate.Format(task.DateLayout); d != "2025-04-01" {
		t.Errorf("due = %s, want 2025-04-01", d)
	}
}

func TestTaskRm(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	out := captureStdout(t, func() {
		if err := runTaskRm(taskRmCmd, []string{"#1"}); err != nil {
			t.Fatalf("runTaskRm: %v", err)
		}
	})
	if !strings.Contains(out, "Removed #1") {
		t.Errorf("output = %q", out)
	}

	err := runTaskRm(taskRmCmd, []string{"1"})
	if !errors.Is(err, task.ErrNotFound) {
		t.Errorf("second rm err = %v, want ErrNotFound", err)
	}
	if err := runTaskRm(taskRmCmd, []string{"abc"}); err == nil {
		t.Error("expected error for non-numeric ID")
	}
}

func TestTaskEdit(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	if err := taskEditCmd.Flags().Set("due", "+60d"); err != nil {
		t.Fatal(err)
	}
	if err := taskEditCmd.Flags().Set("priority", "low"); err != nil {
		t.Fatal(err)
	}
	captureStdout(t, func() {
		if err := runTaskEdit(taskEditCmd, []string{"1"}); err != nil {
			t.Fatalf("runTaskEdit: %v", err)
		}
	})

	s := currentSession(t)
	got, err := s.tasks.Get(s.ws.Token, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Priority != task.PriorityLow || got.DueDate.Format(task.DateLayout) != "2025-05-09" {
		t.Errorf("edited task = %+v", got)
	}
	if got.Name != "Fix prod outage" || got.Effort != task.EffortLow {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestTaskEdit_NothingToChange(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	err := runTaskEdit(taskEditCmd, []string{"1"})
	if err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Errorf("err = %v, want nothing to change", err)
	}
}

func TestTaskEdit_Missing(t *testing.T) {
	configTestEnv(t)

	if err := taskEditCmd.Flags().Set("name", "Renamed"); err != nil {
		t.Fatal(err)
	}
	if err := runTaskEdit(taskEditCmd, []string{"42"}); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskNext(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runTaskNext(taskNextCmd, nil); err != nil {
			t.Fatalf("runTaskNext: %v", err)
		}
	})
	if !strings.Contains(out, "All clear") {
		t.Errorf("empty next = %q", out)
	}

	seedTasks(t)
	out = captureStdout(t, func() {
		if err := runTaskNext(taskNextCmd, nil); err != nil {
			t.Fatalf("runTaskNext: %v", err)
		}
	})
	if !strings.Contains(out, "Fix prod outage") || strings.Contains(out, "Plan roadmap") {
		t.Errorf("next should show only the top task:\n%s", out)
	}

	out = captureStdout(t, func() {
		if err := runTaskNext(taskNextCmd, []string{"5"}); err != nil {
			t.Fatalf("runTaskNext: %v", err)
		}
	})
	if !strings.Contains(out, "Plan roadmap") {
		t.Errorf("next 5 should show both tasks:\n%s", out)
	}

	if err := runTaskNext(taskNextCmd, []string{"0"}); err == nil {
		t.Error("expected error for count 0")
	}
}

func TestTaskExplain(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	out := captureStdout(t, func() {
		if err := runTaskExplain(taskExplainCmd, []string{"2"}); err != nil {
			t.Fatalf("runTaskExplain: %v", err)
		}
	})
	for _, want := range []string{"Plan roadmap", "2 of 2", "248.5", "forgiven", "40 / (1 + 30 × 0.05)"} {
		if !strings.Contains(out, want) {
			t.Errorf("explain missing %q:\n%s", want, out)
		}
	}

	out = captureStdout(t, func() {
		if err := runTaskExplain(taskExplainCmd, []string{"1"}); err != nil {
			t.Fatalf("runTaskExplain: %v", err)
		}
	})
	if !strings.Contains(out, "due tomorrow") || !strings.Contains(out, "1 of 2") {
		t.Errorf("urgent explain:\n%s", out)
	}

	if err := runTaskExplain(taskExplainCmd, []string{"9"}); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"#12", 12, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		got, err := parseTaskID(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseTaskID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestTaskFlagHelpListsEveryLevel(t *testing.T) {
	priority := taskAddCmd.Flags().Lookup("priority").Usage
	for _, p := range task.Priorities() {
		label := flagLabel(string(p))
		if !strings.Contains(priority, label) {
			t.Errorf("priority help %q missing %q", priority, label)
		}
		if _, err := task.ParsePriority(label); err != nil {
			t.Errorf("help label %q is not accepted: %v", label, err)
		}
	}
	if !strings.HasPrefix(priority, "Priority: critical") {
		t.Errorf("priority help should list highest first: %q", priority)
	}

	effort := taskEditCmd.Flags().Lookup("effort").Usage
	for _, e := range task.Efforts() {
		label := flagLabel(string(e))
		if !strings.Contains(effort, label) {
			t.Errorf("effort help %q missing %q", effort, label)
		}
		if _, err := task.ParseEffort(label); err != nil {
			t.Errorf("help label %q is not accepted: %v", label, err)
		}
	}
	if !strings.Contains(effort, "very-high") {
		t.Errorf("effort help should spell Very High as very-high: %q", effort)
	}
}
