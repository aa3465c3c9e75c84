package task

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a task does not exist in the given workspace.
var ErrNotFound = errors.New("task not found")

// NewTask holds the fields supplied when creating a task.
type NewTask struct {
	Name     string
	Priority Priority
	Effort   Effort
	Mandays  int
	DueDate  time.Time
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Name     *string
	Priority *Priority
	Effort   *Effort
	Mandays  *int
	DueDate  *time.Time
}

// Store handles task persistence. Every query is scoped to a workspace token.
type Store struct {
	db *sql.DB
}

// NewStore creates a new task store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `SELECT id, workspace, name, priority, effort, mandays, due_date, created_at FROM tasks`

// Add creates a new task in the workspace and returns its ID.
func (s *Store) Add(workspace string, t NewTask) (int, error) {
	if strings.TrimSpace(t.Name) == "" {
		return 0, errors.New("task name is required")
	}
	if t.DueDate.IsZero() {
		return 0, errors.New("due date is required")
	}

	res, err := s.db.Exec(
		`INSERT INTO tasks (workspace, name, priority, effort, mandays, due_date) VALUES (?, ?, ?, ?, ?, ?)`,
		workspace, t.Name, string(t.Priority), string(t.Effort), t.Mandays, t.DueDate.Format(DateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}

	id, _ := res.LastInsertId()
	return int(id), nil
}

// Get returns a single task by ID.
func (s *Store) Get(workspace string, id int) (*Task, error) {
	row := s.db.QueryRow(selectColumns+` WHERE id = ? AND workspace = ?`, id, workspace)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task #%d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching task #%d: %w", id, err)
	}
	return t, nil
}

// List returns every task in the workspace in insertion order.
// The order is stable across calls so ranking ties resolve the same way each time.
func (s *Store) List(workspace string) ([]Task, error) {
	rows, err := s.db.Query(selectColumns+` WHERE workspace = ? ORDER BY id ASC`, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update applies a partial update to a task.
func (s *Store) Update(workspace string, id int, p Patch) error {
	sets := []string{}
	args := []any{}

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return errors.New("task name cannot be empty")
		}
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*p.Priority))
	}
	if p.Effort != nil {
		sets = append(sets, "effort = ?")
		args = append(args, string(*p.Effort))
	}
	if p.Mandays != nil {
		sets = append(sets, "mandays = ?")
		args = append(args, *p.Mandays)
	}
	if p.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, p.DueDate.Format(DateLayout))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id, workspace)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ? AND workspace = ?", strings.Join(sets, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("updating task #%d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task #%d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a task. Tasks belonging to another workspace are never touched.
func (s *Store) Delete(workspace string, id int) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND workspace = ?`, id, workspace)
	if err != nil {
		return fmt.Errorf("deleting task #%d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task #%d: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of tasks in the workspace and how many are overdue as of now.
func (s *Store) Count(workspace string, now time.Time) (total int, overdue int, err error) {
	today := now.Format(DateLayout)
	err = s.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE workspace = ?`, workspace).Scan(&total)
	if err != nil {
		return
	}
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE workspace = ? AND due_date < ?`, workspace, today,
	).Scan(&overdue)
	return
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (*Task, error) {
	var t Task
	var prio, effort, dueStr, createdStr string
	if err := sc.Scan(&t.ID, &t.Workspace, &t.Name, &prio, &effort, &t.Mandays, &dueStr, &createdStr); err != nil {
		return nil, err
	}
	t.Priority = Priority(prio)
	t.Effort = Effort(effort)

	due, err := ParseDate(dueStr)
	if err != nil {
		return nil, fmt.Errorf("task #%d: %w", t.ID, err)
	}
	t.DueDate = due
	t.CreatedAt = parseTimestamp(createdStr)
	return &t, nil
}

// parseTimestamp accepts both RFC3339 and SQLite's native "YYYY-MM-DD HH:MM:SS".
// Unparseable values yield the zero time; created_at is display-only.
func parseTimestamp(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	ts, _ := time.Parse("2006-01-02 15:04:05", s)
	return ts
}
