package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/recording"
)

type fakeJobs struct {
	cleanups   atomic.Int32
	syncs      atomic.Int32
	cleanupErr error
	panicSync  bool
}

func (f *fakeJobs) CleanupStale(context.Context) (int64, error) {
	f.cleanups.Add(1)
	return 2, f.cleanupErr
}

func (f *fakeJobs) AutoSync(context.Context) (*recording.AutoSyncResult, error) {
	f.syncs.Add(1)
	if f.panicSync {
		panic("sync exploded")
	}
	return &recording.AutoSyncResult{Synced: 1, Successful: 1}, nil
}

func TestRunOnce_RunsBothJobs(t *testing.T) {
	jobs := &fakeJobs{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	s := NewScheduler(jobs, time.Minute, zap.NewNop(), m)

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), jobs.cleanups.Load())
	assert.Equal(t, int32(1), jobs.syncs.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MaintenanceRuns.WithLabelValues(JobCleanupStale, "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MaintenanceRuns.WithLabelValues(JobAutoSync, "success")))
}

func TestRunOnce_FailuresAreIsolated(t *testing.T) {
	jobs := &fakeJobs{cleanupErr: errors.New("permission denied"), panicSync: true}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	s := NewScheduler(jobs, time.Minute, zap.NewNop(), m)

	require.NotPanics(t, func() { s.RunOnce(context.Background()) })

	assert.Equal(t, int32(1), jobs.cleanups.Load())
	assert.Equal(t, int32(1), jobs.syncs.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MaintenanceRuns.WithLabelValues(JobCleanupStale, "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MaintenanceRuns.WithLabelValues(JobAutoSync, "error")))
}

func TestScheduler_StartStop(t *testing.T) {
	jobs := &fakeJobs{}
	s := NewScheduler(jobs, 10*time.Millisecond, zap.NewNop(), metrics.NewMetrics(prometheus.NewRegistry()))

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return jobs.syncs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.Error(t, s.Stop())
}

func TestScheduler_RejectsZeroInterval(t *testing.T) {
	s := NewScheduler(&fakeJobs{}, 0, nil, metrics.NewMetrics(prometheus.NewRegistry()))
	assert.Error(t, s.Start(context.Background()))
}
