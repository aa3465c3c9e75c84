// Package workspace manages the opaque tokens that partition tasks.
//
// A workspace is created on first use and remembered as the current one in
// the kv table. Sharing the token is the only way to reach another
// workspace's tasks.
package workspace

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownToken is returned when switching to a token that was never created.
var ErrUnknownToken = errors.New("unknown workspace token")

const currentKey = "workspace.current"

// Workspace is a single task namespace.
type Workspace struct {
	Token     string
	CreatedAt time.Time
}

// Short returns the first eight characters of the token for display.
func (w Workspace) Short() string {
	return ShortToken(w.Token)
}

// ShortToken abbreviates a token for display.
func ShortToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}

// Store handles workspace persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new workspace store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// NewToken returns a fresh 32-character hex token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create registers a new workspace and returns it. It does not switch to it.
func (s *Store) Create() (Workspace, error) {
	token := NewToken()
	if _, err := s.db.Exec(`INSERT INTO workspaces (token) VALUES (?)`, token); err != nil {
		return Workspace{}, fmt.Errorf("creating workspace: %w", err)
	}
	return s.get(token)
}

// Exists reports whether token names a known workspace.
func (s *Store) Exists(token string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM workspaces WHERE token = ?`, token).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking workspace: %w", err)
	}
	return n > 0, nil
}

// List returns all known workspaces, oldest first.
func (s *Store) List() ([]Workspace, error) {
	rows, err := s.db.Query(`SELECT token, created_at FROM workspaces ORDER BY created_at ASC, token ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Current returns the active workspace, creating one if none is selected yet.
// The boolean reports whether a new workspace was created by this call.
func (s *Store) Current() (Workspace, bool, error) {
	var token string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, currentKey).Scan(&token)
	switch {
	case err == nil:
		w, err := s.get(token)
		if err == nil {
			return w, false, nil
		}
		if !errors.Is(err, ErrUnknownToken) {
			return Workspace{}, false, err
		}
		// Pointer to a workspace that no longer exists; start fresh.
	case !errors.Is(err, sql.ErrNoRows):
		return Workspace{}, false, fmt.Errorf("reading current workspace: %w", err)
	}

	w, err := s.Create()
	if err != nil {
		return Workspace{}, false, err
	}
	if err := s.setCurrent(w.Token); err != nil {
		return Workspace{}, false, err
	}
	return w, true, nil
}

// Use makes token the current workspace. Unknown tokens are rejected.
func (s *Store) Use(token string) (Workspace, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	w, err := s.get(token)
	if err != nil {
		return Workspace{}, err
	}
	if err := s.setCurrent(w.Token); err != nil {
		return Workspace{}, err
	}
	return w, nil
}

func (s *Store) setCurrent(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		currentKey, token,
	)
	if err != nil {
		return fmt.Errorf("saving current workspace: %w", err)
	}
	return nil
}

func (s *Store) get(token string) (Workspace, error) {
	row := s.db.QueryRow(`SELECT token, created_at FROM workspaces WHERE token = ?`, token)
	w, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Workspace{}, fmt.Errorf("%q: %w", token, ErrUnknownToken)
		}
		return Workspace{}, fmt.Errorf("fetching workspace: %w", err)
	}
	return w, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(sc scanner) (Workspace, error) {
	var w Workspace
	var created string
	if err := sc.Scan(&w.Token, &created); err != nil {
		return Workspace{}, err
	}
	if ts, err := time.Parse(time.RFC3339, created); err == nil {
		w.CreatedAt = ts
	} else {
		w.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
	}
	return w, nil
}
