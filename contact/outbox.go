package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const outboxTable = "contact_outbox"

// MaxAttempts is how many relay attempts a queued submission gets before
// the worker gives up on it.
const MaxAttempts = 10

// Queue stores submissions whose relay failed.
type Queue interface {
	Save(ctx context.Context, s Submission, cause error) error
	Pending(ctx context.Context, limit int) ([]Queued, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause error) error
}

// Queued is a stored submission together with its delivery state.
type Queued struct {
	Submission
	Attempts  int
	LastError string
}

// Outbox is the SQLite-backed Queue.
type Outbox struct {
	db  *sql.DB
	now func() time.Time
}

// NewOutbox returns an Outbox on db. The contact_outbox table must exist.
func NewOutbox(db *sql.DB) *Outbox {
	return &Outbox{db: db, now: time.Now}
}

// Save stores s after its first failed attempt.
func (o *Outbox) Save(ctx context.Context, s Submission, cause error) error {
	query, args, err := sq.Insert(outboxTable).
		Columns("id", "name", "email", "phone", "message", "created_at", "attempts", "last_error").
		Values(s.ID, s.Name, s.Email, s.Phone, s.Message, s.CreatedAt.UTC(), 1, errString(cause)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox insert: %w", err)
	}
	if _, err := o.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save to outbox: %w", err)
	}
	return nil
}

// Pending returns up to limit unsent submissions that still have attempts
// left, oldest first.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]Queued, error) {
	query, args, err := sq.Select("id", "name", "email", "phone", "message", "created_at", "attempts", "last_error").
		From(outboxTable).
		Where(sq.Eq{"sent_at": nil}).
		Where(sq.Lt{"attempts": MaxAttempts}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outbox select: %w", err)
	}
	rows, err := o.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	defer rows.Close()

	var out []Queued
	for rows.Next() {
		var q Queued
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.CreatedAt, &q.Attempts, &q.LastError); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	return out, nil
}

// MarkSent records a successful delivery of id.
func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	query, args, err := sq.Update(outboxTable).
		Set("sent_at", o.now().UTC()).
		Set("attempts", sq.Expr("attempts + 1")).
		Set("last_error", "").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox update: %w", err)
	}
	return o.exec(ctx, id, query, args)
}

// MarkFailed records one more failed attempt for id.
func (o *Outbox) MarkFailed(ctx context.Context, id string, cause error) error {
	query, args, err := sq.Update(outboxTable).
		Set("attempts", sq.Expr("attempts + 1")).
		Set("last_error", errString(cause)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox update: %w", err)
	}
	return o.exec(ctx, id, query, args)
}

// Counts returns how many stored submissions are pending, delivered and
// abandoned.
func (o *Outbox) Counts(ctx context.Context) (pending, sent, abandoned int, err error) {
	query, args, err := sq.Select().
		Column("COALESCE(SUM(CASE WHEN sent_at IS NULL AND attempts < ? THEN 1 ELSE 0 END), 0)", MaxAttempts).
		Column("COALESCE(SUM(CASE WHEN sent_at IS NOT NULL THEN 1 ELSE 0 END), 0)").
		Column("COALESCE(SUM(CASE WHEN sent_at IS NULL AND attempts >= ? THEN 1 ELSE 0 END), 0)", MaxAttempts).
		From(outboxTable).
		ToSql()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("build outbox counts: %w", err)
	}
	err = o.db.QueryRowContext(ctx, query, args...).Scan(&pending, &sent, &abandoned)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count outbox: %w", err)
	}
	return pending, sent, abandoned, nil
}

func (o *Outbox) exec(ctx context.Context, id, query string, args []interface{}) error {
	res, err := o.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update outbox: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update outbox: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update outbox: no submission with id %q", id)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
