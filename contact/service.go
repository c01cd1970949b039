package contact

import (
	"context"
	"time"

	"github.com/eringen/folio/logger"
	"github.com/google/uuid"
)

const retryBatch = 20

// Service validates submissions, relays them once and queues failures.
type Service struct {
	sender  Sender
	queue   Queue
	log     *logger.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewService returns a Service. queue may be nil, in which case failed
// submissions are reported but not kept.
func NewService(sender Sender, queue Queue, log *logger.Logger, timeout time.Duration) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{sender: sender, queue: queue, log: log, timeout: timeout, now: time.Now}
}

// Submit validates in and sends it exactly once. It returns the stored
// submission (with ID and timestamp) on success, a *ValidationError for bad
// input, or a *SubmissionError when the relay failed.
func (s *Service) Submit(ctx context.Context, in Submission) (Submission, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return in, err
	}
	in.ID = uuid.NewString()
	in.CreatedAt = s.now().UTC()

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.sender.Send(sendCtx, in)
	cancel()
	if err == nil {
		s.log.Info().Str("submission", in.ID).Msg("contact submission relayed")
		return in, nil
	}

	queued := false
	if s.queue != nil {
		if qerr := s.queue.Save(context.WithoutCancel(ctx), in, err); qerr != nil {
			s.log.Error().Err(qerr).Str("submission", in.ID).Msg("contact outbox save failed")
		} else {
			queued = true
		}
	}
	s.log.Warn().Err(err).Str("submission", in.ID).Bool("queued", queued).Msg("contact relay failed")
	return in, &SubmissionError{ID: in.ID, Err: err, Queued: queued}
}

// RetryPending sends one batch of queued submissions and returns how many
// were delivered.
func (s *Service) RetryPending(ctx context.Context) (int, error) {
	if s.queue == nil {
		return 0, nil
	}
	pending, err := s.queue.Pending(ctx, retryBatch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, q := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.sender.Send(sendCtx, q.Submission)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Str("submission", q.ID).Int("attempts", q.Attempts+1).Msg("contact retry failed")
			if merr := s.queue.MarkFailed(ctx, q.ID, err); merr != nil {
				return sent, merr
			}
			continue
		}
		if err := s.queue.MarkSent(ctx, q.ID); err != nil {
			return sent, err
		}
		sent++
		s.log.Info().Str("submission", q.ID).Msg("queued contact submission relayed")
	}
	return sent, nil
}

// Run retries queued submissions every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if s.queue == nil || interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RetryPending(ctx); err != nil && ctx.Err() == nil {
				s.log.Error().Err(err).Msg("contact outbox retry failed")
			}
		}
	}
}
