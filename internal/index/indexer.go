package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"

	_ "github.com/mattn/go-sqlite3"
)

// TaskType selects which result population the task list draws from.
type TaskType int

const (
	UnresolvedTasks TaskType = iota
	AllTasks
)

func (t TaskType) String() string {
	if t == AllTasks {
		return "All Tasks"
	}
	return "Unresolved Tasks"
}

// Filter narrows the task list. Empty Project means all projects.
type Filter struct {
	TaskType TaskType
	Project  string
}

// Task is one row of the task index.
type Task struct {
	ID       string
	Org      string
	Repo     string
	Issue    string
	Resolved bool
}

// Indexer keeps the task catalogue in an in-memory sqlite database so the
// task-type and project filters are plain queries. The index is rebuilt
// from scratch on every start; nothing is persisted.
type Indexer struct {
	db *sql.DB
	mu sync.Mutex
}

func New() (*Indexer, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// The in-memory database vanishes if its only connection is recycled.
	db.SetMaxOpenConns(1)

	i := &Indexer{db: db}
	if err := i.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return i, nil
}

func (i *Indexer) Close() error {
	return i.db.Close()
}

func (i *Indexer) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			org TEXT,
			repo TEXT,
			issue TEXT,
			resolved INTEGER NOT NULL DEFAULT 1,
			useq INTEGER,
			has_traj INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_org ON tasks(org);`,
	}
	for _, stmt := range stmts {
		if _, err := i.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Build populates the index from the results file and the trajectory
// directory listing. Unresolved ids keep their results-file position so
// the unresolved list preserves its original order.
func (i *Indexer) Build(ctx context.Context, results trajectory.Results, taskDirs []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin build tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks;`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks(id, org, repo, issue, resolved, useq, has_traj)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resolved=excluded.resolved,
			useq=COALESCE(excluded.useq, useq),
			has_traj=MAX(has_traj, excluded.has_traj)
	`)
	if err != nil {
		return fmt.Errorf("prepare task insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range taskDirs {
		org, repo, issue := taskParts(id)
		if _, err := stmt.ExecContext(ctx, id, org, repo, issue, 1, nil, 1); err != nil {
			return fmt.Errorf("insert task %s: %w", id, err)
		}
	}
	for seq, id := range results.UnresolvedIDs {
		org, repo, issue := taskParts(id)
		if _, err := stmt.ExecContext(ctx, id, org, repo, issue, 0, seq, 0); err != nil {
			return fmt.Errorf("insert unresolved task %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task index: %w", err)
	}
	return nil
}

// ListTasks returns the filtered task list. Unresolved tasks come back in
// results-file order, the full catalogue in id order.
func (i *Indexer) ListTasks(filter Filter) ([]Task, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var b strings.Builder
	b.WriteString(`
		SELECT id, org, COALESCE(repo, ''), COALESCE(issue, ''), resolved
		FROM tasks
	`)
	args := make([]any, 0, 1)

	if filter.TaskType == UnresolvedTasks {
		b.WriteString(` WHERE resolved = 0 AND useq IS NOT NULL`)
	} else {
		b.WriteString(` WHERE has_traj = 1`)
	}
	if filter.Project != "" {
		b.WriteString(` AND org = ?`)
		args = append(args, filter.Project)
	}
	if filter.TaskType == UnresolvedTasks {
		b.WriteString(` ORDER BY useq`)
	} else {
		b.WriteString(` ORDER BY id`)
	}

	rows, err := i.db.Query(b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]Task, 0, 64)
	for rows.Next() {
		var t Task
		var resolved int
		if err := rows.Scan(&t.ID, &t.Org, &t.Repo, &t.Issue, &resolved); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		t.Resolved = resolved != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return out, nil
}

// Projects returns the distinct orgs present for a task type, sorted.
func (i *Indexer) Projects(taskType TaskType) ([]string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	where := `resolved = 0 AND useq IS NOT NULL`
	if taskType == AllTasks {
		where = `has_traj = 1`
	}
	rows, err := i.db.Query(`
		SELECT DISTINCT org FROM tasks
		WHERE ` + where + ` AND org != ''
		ORDER BY org
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var org string
		if err := rows.Scan(&org); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return out, nil
}

func taskParts(id string) (org, repo, issue string) {
	ref, ok := trajectory.ParseTaskID(id)
	if !ok {
		// Keep unparseable ids listable; they just lose the GitHub link.
		return strings.SplitN(id, "__", 2)[0], "", ""
	}
	return ref.Org, ref.Repo, ref.Issue
}
