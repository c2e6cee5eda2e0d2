package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/recording"
	"github.com/johnquangdev/meeting-notetaker/pkg/jobcontext"
)

// Job names used for logging and metrics
const (
	JobCleanupStale = "cleanup_stale"
	JobAutoSync     = "auto_sync"
)

// Jobs is the subset of the recording service the scheduler drives
type Jobs interface {
	CleanupStale(ctx context.Context) (int64, error)
	AutoSync(ctx context.Context) (*recording.AutoSyncResult, error)
}

// Scheduler runs the stale cleanup and the auto sync on a fixed interval
type Scheduler struct {
	jobs     Jobs
	interval time.Duration
	policy   jobcontext.Policy
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler. A nil metrics uses metrics.DefaultMetrics.
func NewScheduler(jobs Jobs, interval time.Duration, logger *zap.Logger, m *metrics.Metrics) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		policy:   jobcontext.DefaultPolicy(),
		logger:   logger,
		metrics:  m,
	}
}

// Start launches the background loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("maintenance scheduler already running")
	}
	if s.interval <= 0 {
		return fmt.Errorf("maintenance interval must be positive, got %s", s.interval)
	}

	s.running = true
	s.stopChan = make(chan struct{})

	s.logger.Info("🚀 Starting maintenance scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

// Stop signals the loop and waits for the current run to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("maintenance scheduler not running")
	}

	s.logger.Info("🛑 Stopping maintenance scheduler...")
	close(s.stopChan)
	s.wg.Wait()
	s.running = false
	s.logger.Info("✅ Maintenance scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs both jobs in order. The auto sync still runs when the cleanup fails.
func (s *Scheduler) RunOnce(ctx context.Context) {
	_ = s.run(ctx, JobCleanupStale, func(jobCtx context.Context) error {
		n, err := s.jobs.CleanupStale(jobCtx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Info("🧹 Stale recordings timed out", zap.Int64("count", n))
		}
		return nil
	})

	_ = s.run(ctx, JobAutoSync, func(jobCtx context.Context) error {
		res, err := s.jobs.AutoSync(jobCtx)
		if err != nil {
			return err
		}
		if res.Synced > 0 {
			s.logger.Info("🔄 Auto sync finished",
				zap.Int("synced", res.Synced),
				zap.Int("successful", res.Successful),
			)
		}
		return nil
	})
}

func (s *Scheduler) run(ctx context.Context, job string, fn func(context.Context) error) error {
	jobCtx, cancel := jobcontext.Begin(ctx, job, s.policy.Timeout)
	defer cancel()

	err := jobcontext.Execute(jobCtx, s.policy, fn)
	s.metrics.MaintenanceRuns.WithLabelValues(job, metrics.Outcome(err)).Inc()
	if err != nil {
		run, _ := jobcontext.FromContext(jobCtx)
		s.logger.Error("❌ Maintenance job failed",
			zap.String("job", job),
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}
	return err
}
