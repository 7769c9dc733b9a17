package jobs

import (
	"context"

	"github.com/podbrief/podbrief-api/internal/models"
)

// Service defines the business logic interface for job operations
type Service interface {
	// Enqueue operations
	EnqueueEpisodeJob(ctx context.Context, url, title string, force bool) (*models.Job, error)
	EnqueueFeedJob(ctx context.Context, force, all bool) (*models.Job, error)

	// Status and retrieval
	GetJob(ctx context.Context, jobID uint) (*models.Job, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Job, error)

	// Worker operations (used by the worker pool)
	ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error)
	UpdateStatus(ctx context.Context, jobID uint, status models.JobStatus) error
	CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error
	FailJob(ctx context.Context, jobID uint, err error) error
	ReleaseJob(ctx context.Context, jobID uint) error

	// Maintenance
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}
