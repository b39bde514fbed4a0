package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	corep "github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/pkg/api"
)

// PostgresJournal is a Journal backed by PostgreSQL.
//
// It expects an *sql.DB that uses a PostgreSQL driver (for example,
// "github.com/jackc/pgx/v5/stdlib").
//
// The caller is responsible for:
//   - importing the driver for its side effects, e.g.:
//     _ "github.com/jackc/pgx/v5/stdlib"
//   - providing a DSN via sql.Open.
type PostgresJournal struct {
	db    *sql.DB
	table string
}

var _ corep.Journal = (*PostgresJournal)(nil)

// NewPostgresJournal initializes the required schema in the given database
// and returns a new PostgresJournal. table defaults to "task_events".
func NewPostgresJournal(db *sql.DB, table string) (*PostgresJournal, error) {
	if db == nil {
		return nil, corep.ErrNilDB
	}
	if table == "" {
		table = "task_events"
	}
	j := &PostgresJournal{db: db, table: table}
	if err := j.initSchema(); err != nil {
		return nil, fmt.Errorf("postgres journal: init schema: %w", err)
	}
	return j, nil
}

func (j *PostgresJournal) initSchema() error {
	_, err := j.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id BIGSERIAL PRIMARY KEY,
			worker TEXT NOT NULL,
			task_id TEXT NOT NULL DEFAULT '',
			seq BIGINT NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			at BIGINT NOT NULL,
			duration BIGINT NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_worker ON %[1]s(worker, id);
	`, j.table))
	return err
}

func (j *PostgresJournal) Append(ctx context.Context, ev api.TaskEvent) error {
	ev, err := corep.Normalize(ev)
	if err != nil {
		return err
	}
	_, err = j.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (worker, task_id, seq, type, at, duration, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, j.table),
		ev.Worker,
		ev.TaskID,
		int64(ev.Seq),
		string(ev.Type),
		ev.At.UnixNano(),
		int64(ev.Duration),
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("postgres journal: append: %w", err)
	}
	return nil
}

func (j *PostgresJournal) List(ctx context.Context, worker string) ([]api.TaskEvent, error) {
	rows, err := j.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT worker, task_id, seq, type, at, duration, detail
		FROM %s
		WHERE worker = $1
		ORDER BY id ASC`, j.table), worker)
	if err != nil {
		return nil, fmt.Errorf("postgres journal: list: %w", err)
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

// DeleteBefore removes events older than cutoff and reports how many were
// removed.
func (j *PostgresJournal) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE at < $1`, j.table), cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("postgres journal: delete: %w", err)
	}
	return res.RowsAffected()
}
