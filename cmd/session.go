package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rnwolfe/triage/internal/config"
	"github.com/rnwolfe/triage/internal/rank"
	"github.com/rnwolfe/triage/internal/store"
	"github.com/rnwolfe/triage/internal/task"
	"github.com/rnwolfe/triage/internal/ui"
	"github.com/rnwolfe/triage/internal/workspace"
)

// nowFunc is the clock for every command. Tests pin it.
var nowFunc = time.Now

// session bundles what a task-facing command needs. now is read once so
// ranking and rendering agree on what "today" is.
type session struct {
	db         *store.DB
	cfg        *config.Config
	ws         workspace.Workspace
	tasks      *task.Store
	workspaces *workspace.Store
	engine     *rank.Engine
	now        time.Time
}

func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	ws := workspace.NewStore(db.Conn())
	cur, created, err := ws.Current()
	if err != nil {
		db.Close()
		return nil, err
	}
	if created {
		// stderr keeps --format json/yaml output clean.
		fmt.Fprintln(os.Stderr, ui.Muted.Render(fmt.Sprintf("  Created workspace %s", workspace.ShortToken(cur.Token))))
	}

	return &session{
		db:         db,
		cfg:        cfg,
		ws:         cur,
		tasks:      task.NewStore(db.Conn()),
		workspaces: ws,
		engine:     rank.New(cfg.Rank.Params()),
		now:        nowFunc(),
	}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}
