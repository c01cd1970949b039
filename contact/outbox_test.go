package contact

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eringen/folio/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOutbox(t *testing.T) (*Outbox, *sql.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOutbox(db), db
}

func sub(id string, created time.Time) Submission {
	return Submission{ID: id, Name: "Ada", Email: "ada@example.com", Message: "hi " + id, CreatedAt: created}
}

func TestOutboxSaveAndPending(t *testing.T) {
	o, _ := newTestOutbox(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, o.Save(ctx, sub("b", base.Add(time.Minute)), errors.New("boom")))
	require.NoError(t, o.Save(ctx, sub("a", base), errors.New("down")))

	pending, err := o.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "b", pending[1].ID)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "down", pending[0].LastError)
	assert.Equal(t, "hi a", pending[0].Message)
	assert.True(t, base.Equal(pending[0].CreatedAt))
}

func TestOutboxPendingLimit(t *testing.T) {
	o, _ := newTestOutbox(t)
	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, o.Save(ctx, sub(id, now), nil))
	}

	pending, err := o.Pending(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestOutboxMarkSentRemovesFromPending(t *testing.T) {
	o, _ := newTestOutbox(t)
	ctx := context.Background()
	require.NoError(t, o.Save(ctx, sub("a", time.Now()), errors.New("x")))

	require.NoError(t, o.MarkSent(ctx, "a"))

	pending, err := o.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	p, s, a, err := o.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, [3]int{0, 1, 0}, [3]int{p, s, a})
}

func TestOutboxMarkFailedAbandonsAfterMaxAttempts(t *testing.T) {
	o, _ := newTestOutbox(t)
	ctx := context.Background()
	require.NoError(t, o.Save(ctx, sub("a", time.Now()), errors.New("x")))

	for i := 1; i < MaxAttempts; i++ {
		require.NoError(t, o.MarkFailed(ctx, "a", errors.New("still down")))
	}

	pending, err := o.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	p, s, a, err := o.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, [3]int{0, 0, 1}, [3]int{p, s, a})
}

func TestOutboxMarkUnknownID(t *testing.T) {
	o, _ := newTestOutbox(t)
	err := o.MarkSent(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestOutboxSaveDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO contact_outbox").
		WithArgs("a", "Ada", "ada@example.com", "", "hi a", sqlmock.AnyArg(), 1, "boom").
		WillReturnError(errors.New("disk full"))

	err = NewOutbox(db).Save(context.Background(), sub("a", time.Now()), errors.New("boom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPendingQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, email, phone, message, created_at, attempts, last_error FROM contact_outbox").
		WillReturnError(errors.New("locked"))

	_, err = NewOutbox(db).Pending(context.Background(), 5)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMarkFailedIncrementsAttempts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE contact_outbox SET attempts = attempts \+ 1, last_error = \? WHERE id = \?`).
		WithArgs("timeout", "a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewOutbox(db).MarkFailed(context.Background(), "a", errors.New("timeout")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
