package workers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/models"
	"github.com/podbrief/podbrief-api/internal/services/jobs"
)

// fakeProcessor completes claimed jobs, or fails them when broken
type fakeProcessor struct {
	jobService jobs.Service
	broken     bool
	processed  atomic.Int32
}

func (f *fakeProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeEpisodeProcessing
}

func (f *fakeProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	f.processed.Add(1)
	if f.broken {
		return fmt.Errorf("processing blew up")
	}
	return f.jobService.CompleteJob(ctx, job.ID, models.JobResult{"done": true})
}

func newWorkerTestService(t *testing.T) jobs.Service {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}))
	t.Cleanup(func() { _ = db.Close() })
	return jobs.NewService(jobs.NewRepository(db.DB), 0)
}

func TestWorkerCompletesJob(t *testing.T) {
	jobService := newWorkerTestService(t)
	ctx := context.Background()

	job, err := jobService.EnqueueEpisodeJob(ctx, "https://example.com/ep.mp3", "", false)
	require.NoError(t, err)

	processor := &fakeProcessor{jobService: jobService}
	worker := NewWorker("worker-test", jobService, 10*time.Millisecond)
	worker.RegisterProcessor(processor)
	worker.Start(ctx)
	defer worker.Stop()

	require.Eventually(t, func() bool {
		stored, err := jobService.GetJob(ctx, job.ID)
		return err == nil && stored.Status == models.JobStatusCompleted
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, int32(1), processor.processed.Load())
}

func TestWorkerMarksFailedJob(t *testing.T) {
	jobService := newWorkerTestService(t)
	ctx := context.Background()

	job, err := jobService.EnqueueEpisodeJob(ctx, "https://example.com/ep.mp3", "", false)
	require.NoError(t, err)

	processor := &fakeProcessor{jobService: jobService, broken: true}
	worker := NewWorker("worker-test", jobService, 10*time.Millisecond)
	worker.RegisterProcessor(processor)
	worker.Start(ctx)
	defer worker.Stop()

	require.Eventually(t, func() bool {
		stored, err := jobService.GetJob(ctx, job.ID)
		return err == nil && stored.Status == models.JobStatusFailed
	}, 2*time.Second, 20*time.Millisecond)

	stored, err := jobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Error, "processing blew up")
}

func TestWorkerIgnoresUnsupportedJobTypes(t *testing.T) {
	jobService := newWorkerTestService(t)
	ctx := context.Background()

	// fakeProcessor only handles episode jobs
	job, err := jobService.EnqueueFeedJob(ctx, false, false)
	require.NoError(t, err)

	processor := &fakeProcessor{jobService: jobService}
	worker := NewWorker("worker-test", jobService, 10*time.Millisecond)
	worker.RegisterProcessor(processor)
	worker.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	worker.Stop()

	stored, err := jobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, stored.Status)
	assert.Zero(t, processor.processed.Load())
}

func TestWorkerPoolStartStop(t *testing.T) {
	jobService := newWorkerTestService(t)
	ctx := context.Background()

	pool := NewWorkerPool(jobService, 2, 10*time.Millisecond)
	pool.RegisterProcessor(&fakeProcessor{jobService: jobService})

	require.NoError(t, pool.Start(ctx))
	assert.Error(t, pool.Start(ctx), "double start must be rejected")

	job, err := jobService.EnqueueEpisodeJob(ctx, "https://example.com/ep.mp3", "", false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stored, err := jobService.GetJob(ctx, job.ID)
		return err == nil && stored.Status == models.JobStatusCompleted
	}, 2*time.Second, 20*time.Millisecond)

	pool.Stop()
}
