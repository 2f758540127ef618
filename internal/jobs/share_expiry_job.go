package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ShareCloser turns sharing off for forms whose link has expired.
type ShareCloser interface {
	CloseExpiredShares(ctx context.Context, now time.Time) (int, error)
}

// ShareExpiryJob closes expired share links. Submissions are rejected for expired forms
// either way; the job keeps IsShareable in step with the expiry.
type ShareExpiryJob struct {
	closer  ShareCloser
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewShareExpiryJob(closer ShareCloser, logger *slog.Logger) *ShareExpiryJob {
	return &ShareExpiryJob{
		closer:  closer,
		logger:  logger,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// Run implements cron.Job.
func (j *ShareExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	closed, err := j.closer.CloseExpiredShares(ctx, j.now())
	if err != nil {
		j.logger.Error("Share expiry job failed", "error", err)
		return
	}
	if closed > 0 {
		j.logger.Info("Closed expired share links", "count", closed)
	}
}

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	cronLog := slogCronLogger{logger: logger.With("component", "scheduler")}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog))),
		logger: logger,
	}
}

// slogCronLogger routes cron's own logging, recovered panics included, to slog.
// Cron's info lines fire on every tick and are logged at debug level.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// Add registers job under a standard cron spec or a descriptor such as "@every 1m".
func (s *Scheduler) Add(name, spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return err
	}
	s.logger.Info("Job scheduled", "job", name, "schedule", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for running jobs")
	}
}
