package task

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workspace TEXT NOT NULL,
		name TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'Medium',
		effort TEXT NOT NULL DEFAULT 'Medium',
		mandays INTEGER NOT NULL DEFAULT 1,
		due_date TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample(name string, due time.Time) NewTask {
	return NewTask{Name: name, Priority: PriorityHigh, Effort: EffortLow, Mandays: 2, DueDate: due}
}

func TestAddAndGet(t *testing.T) {
	s := NewStore(setupTestDB(t))

	id, err := s.Add("ws1", sample("Write report", date(2025, 3, 12)))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	got, err := s.Get("ws1", id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Write report" || got.Priority != PriorityHigh || got.Effort != EffortLow || got.Mandays != 2 {
		t.Fatalf("unexpected task: %+v", got)
	}
	if !got.DueDate.Equal(date(2025, 3, 12)) {
		t.Fatalf("due date = %v", got.DueDate)
	}
	if got.Workspace != "ws1" {
		t.Fatalf("workspace = %q", got.Workspace)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at should be populated")
	}
}

func TestAdd_Validation(t *testing.T) {
	s := NewStore(setupTestDB(t))

	if _, err := s.Add("ws", sample("  ", date(2025, 1, 1))); err == nil {
		t.Error("expected error for blank name")
	}
	if _, err := s.Add("ws", NewTask{Name: "no date"}); err == nil {
		t.Error("expected error for missing due date")
	}
}

func TestListOrderAndScope(t *testing.T) {
	s := NewStore(setupTestDB(t))

	s.Add("ws1", sample("first", date(2025, 5, 1)))
	s.Add("ws2", sample("elsewhere", date(2025, 1, 1)))
	s.Add("ws1", sample("second", date(2025, 1, 1)))

	tasks, err := s.List("ws1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Name != "first" || tasks[1].Name != "second" {
		t.Fatalf("expected insertion order, got %q, %q", tasks[0].Name, tasks[1].Name)
	}

	empty, err := s.List("nobody")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no tasks, got %d", len(empty))
	}
}

func TestGet_OtherWorkspace(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Add("ws1", sample("secret", date(2025, 1, 1)))

	_, err := s.Get("ws2", id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Add("ws1", sample("draft", date(2025, 1, 1)))

	name := "final"
	prio := PriorityCritical
	effort := EffortVeryHigh
	mandays := 9
	due := date(2025, 2, 2)
	err := s.Update("ws1", id, Patch{Name: &name, Priority: &prio, Effort: &effort, Mandays: &mandays, DueDate: &due})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := s.Get("ws1", id)
	if got.Name != "final" || got.Priority != PriorityCritical || got.Effort != EffortVeryHigh || got.Mandays != 9 {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.DueDate.Equal(due) {
		t.Fatalf("due date = %v", got.DueDate)
	}

	if err := s.Update("ws1", id, Patch{}); err != nil {
		t.Fatalf("empty patch should be a no-op, got %v", err)
	}
	blank := " "
	if err := s.Update("ws1", id, Patch{Name: &blank}); err == nil {
		t.Fatal("expected error for blank name")
	}
	if err := s.Update("ws2", id, Patch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across workspaces, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Add("ws1", sample("doomed", date(2025, 1, 1)))

	if err := s.Delete("ws2", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete from another workspace should fail with ErrNotFound, got %v", err)
	}
	if _, err := s.Get("ws1", id); err != nil {
		t.Fatalf("task should survive a foreign delete: %v", err)
	}

	if err := s.Delete("ws1", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete("ws1", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should fail with ErrNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	s := NewStore(setupTestDB(t))
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	s.Add("ws1", sample("late", date(2025, 3, 9)))
	s.Add("ws1", sample("today", date(2025, 3, 10)))
	s.Add("ws1", sample("later", date(2025, 4, 1)))
	s.Add("ws2", sample("not mine", date(2020, 1, 1)))

	total, overdue, err := s.Count("ws1", now)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 3 || overdue != 1 {
		t.Fatalf("Count = (%d, %d), want (3, 1)", total, overdue)
	}
}

func TestUnknownLabelsSurviveRead(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	_, err := db.Exec(`INSERT INTO tasks (workspace, name, priority, effort, mandays, due_date) VALUES ('ws', 'legacy', 'Urgent!!', 'Tiny', 0, '2025-01-01')`)
	if err != nil {
		t.Fatal(err)
	}

	tasks, err := s.List("ws")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Priority != "Urgent!!" || tasks[0].Effort != "Tiny" {
		t.Fatalf("labels should be preserved verbatim: %+v", tasks)
	}
}

func TestParseTimestamp(t *testing.T) {
	if parseTimestamp("2025-03-10 12:30:00").IsZero() {
		t.Error("sqlite timestamp should parse")
	}
	if parseTimestamp("2025-03-10T12:30:00Z").IsZero() {
		t.Error("RFC3339 timestamp should parse")
	}
	if !parseTimestamp("garbage").IsZero() {
		t.Error("garbage should yield zero time")
	}
}
