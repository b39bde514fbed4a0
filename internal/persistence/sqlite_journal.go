package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/petrijr/exclusive/pkg/api"
)

// SQLiteJournal stores task events in SQLite.
//
// It expects an *sql.DB opened with the "sqlite" driver from
// modernc.org/sqlite; the caller imports the driver for its side effects.
type SQLiteJournal struct {
	db *sql.DB
}

var _ Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal creates the task_events table if needed.
func NewSQLiteJournal(db *sql.DB) (*SQLiteJournal, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		return nil, fmt.Errorf("sqlite journal: init schema: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS task_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			worker TEXT NOT NULL,
			task_id TEXT NOT NULL DEFAULT '',
			seq INTEGER NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			at INTEGER NOT NULL,
			duration INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_task_events_worker ON task_events(worker, id);
	`)
	return err
}

func (j *SQLiteJournal) Append(ctx context.Context, ev api.TaskEvent) error {
	ev, err := Normalize(ev)
	if err != nil {
		return err
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO task_events (worker, task_id, seq, type, at, duration, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.Worker,
		ev.TaskID,
		int64(ev.Seq),
		string(ev.Type),
		ev.At.UnixNano(),
		int64(ev.Duration),
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("sqlite journal: append: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) List(ctx context.Context, worker string) ([]api.TaskEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT worker, task_id, seq, type, at, duration, detail
		FROM task_events
		WHERE worker = ?
		ORDER BY id ASC`, worker)
	if err != nil {
		return nil, fmt.Errorf("sqlite journal: list: %w", err)
	}
	defer rows.Close()

	var out []api.TaskEvent
	for rows.Next() {
		var (
			name   string
			taskID string
			seq    int64
			typ    string
			atN    int64
			durN   int64
			detail string
		)
		if err := rows.Scan(&name, &taskID, &seq, &typ, &atN, &durN, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.TaskEvent{
			Worker:   name,
			TaskID:   taskID,
			Seq:      uint64(seq),
			Type:     api.EventType(typ),
			At:       time.Unix(0, atN),
			Duration: time.Duration(durN),
			Detail:   detail,
		})
	}
	return out, rows.Err()
}
