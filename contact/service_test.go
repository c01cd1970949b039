package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []Submission
	err   error
}

func (f *fakeSender) Send(ctx context.Context, s Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakeSender) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memQueue struct {
	mu      sync.Mutex
	items   map[string]*Queued
	order   []string
	sent    map[string]bool
	saveErr error
}

func newMemQueue() *memQueue {
	return &memQueue{items: map[string]*Queued{}, sent: map[string]bool{}}
}

func (q *memQueue) Save(ctx context.Context, s Submission, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.saveErr != nil {
		return q.saveErr
	}
	q.items[s.ID] = &Queued{Submission: s, Attempts: 1, LastError: errString(cause)}
	q.order = append(q.order, s.ID)
	return nil
}

func (q *memQueue) Pending(ctx context.Context, limit int) ([]Queued, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Queued
	for _, id := range q.order {
		if q.sent[id] || q.items[id].Attempts >= MaxAttempts {
			continue
		}
		out = append(out, *q.items[id])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (q *memQueue) MarkSent(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent[id] = true
	return nil
}

func (q *memQueue) MarkFailed(ctx context.Context, id string, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items[id].Attempts++
	q.items[id].LastError = errString(cause)
	return nil
}

func (q *memQueue) sentCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sent)
}

// Keep-alive connections from the relay tests close asynchronously.
var leakOpts = []goleak.Option{
	goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
}

var validInput = Submission{Name: "Ada", Email: "ada@example.com", Phone: "555 0100", Message: "Hello"}

func TestSubmitSendsExactlyOnce(t *testing.T) {
	sender := &fakeSender{}
	queue := newMemQueue()
	svc := NewService(sender, queue, nil, time.Second)

	got, err := svc.Submit(context.Background(), validInput)
	require.NoError(t, err)

	assert.Equal(t, 1, sender.count())
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Empty(t, queue.order)
}

func TestSubmitInvalidDoesNotSend(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, newMemQueue(), nil, time.Second)

	_, err := svc.Submit(context.Background(), Submission{Name: "Ada"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, sender.count())
}

func TestSubmitFailureIsQueued(t *testing.T) {
	sender := &fakeSender{err: errors.New("endpoint down")}
	queue := newMemQueue()
	svc := NewService(sender, queue, nil, time.Second)

	got, err := svc.Submit(context.Background(), validInput)

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Queued)
	assert.Equal(t, got.ID, se.ID)
	assert.ErrorContains(t, err, "endpoint down")
	assert.Equal(t, 1, sender.count())
	require.Contains(t, queue.items, got.ID)
	assert.Equal(t, "Hello", queue.items[got.ID].Message)
}

func TestSubmitFailureWithBrokenQueue(t *testing.T) {
	sender := &fakeSender{err: errors.New("endpoint down")}
	queue := newMemQueue()
	queue.saveErr = errors.New("disk full")
	svc := NewService(sender, queue, nil, time.Second)

	_, err := svc.Submit(context.Background(), validInput)

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.False(t, se.Queued)
}

func TestSubmitWithoutQueue(t *testing.T) {
	svc := NewService(&fakeSender{err: errors.New("x")}, nil, nil, time.Second)

	_, err := svc.Submit(context.Background(), validInput)

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.False(t, se.Queued)
}

func TestRetryPending(t *testing.T) {
	sender := &fakeSender{err: errors.New("down")}
	queue := newMemQueue()
	svc := NewService(sender, queue, nil, time.Second)
	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), validInput)
		require.Error(t, err)
	}

	n, err := svc.RetryPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	for _, q := range queue.items {
		assert.Equal(t, 2, q.Attempts)
	}

	sender.setErr(nil)
	n, err = svc.RetryPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, queue.sentCount())

	n, err = svc.RetryPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunRetriesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	sender := &fakeSender{err: errors.New("down")}
	queue := newMemQueue()
	svc := NewService(sender, queue, nil, time.Second)
	_, err := svc.Submit(context.Background(), validInput)
	require.Error(t, err)
	sender.setErr(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return queue.sentCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithoutQueueWaitsForCancel(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	svc := NewService(&fakeSender{}, nil, nil, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, time.Millisecond) }()

	cancel()
	assert.NoError(t, <-done)
}
