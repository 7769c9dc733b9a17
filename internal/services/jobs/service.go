package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/podbrief/podbrief-api/internal/models"
)

// Payload keys shared between enqueuers and the worker processors
const (
	PayloadURL   = "url"
	PayloadTitle = "title"
	PayloadForce = "force"
	PayloadAll   = "all"
)

// service implements the Service interface
type service struct {
	repo       Repository
	maxRetries int
}

// NewService creates a new job service
func NewService(repo Repository, maxRetries int) Service {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &service{
		repo:       repo,
		maxRetries: maxRetries,
	}
}

// EnqueueEpisodeJob schedules processing of a single ad-hoc episode URL
func (s *service) EnqueueEpisodeJob(ctx context.Context, url, title string, force bool) (*models.Job, error) {
	if url == "" {
		return nil, fmt.Errorf("episode URL cannot be empty")
	}

	job := &models.Job{
		Type:   models.JobTypeEpisodeProcessing,
		Status: models.JobStatusPending,
		Payload: models.JobPayload{
			PayloadURL:   url,
			PayloadTitle: title,
			PayloadForce: force,
		},
		MaxRetries: s.maxRetries,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueuing episode job: %w", err)
	}

	log.Printf("[DEBUG] Enqueued episode job %d for %s", job.ID, url)
	return job, nil
}

// EnqueueFeedJob schedules processing of all configured feed sources
func (s *service) EnqueueFeedJob(ctx context.Context, force, all bool) (*models.Job, error) {
	job := &models.Job{
		Type:   models.JobTypeFeedProcessing,
		Status: models.JobStatusPending,
		Payload: models.JobPayload{
			PayloadForce: force,
			PayloadAll:   all,
		},
		MaxRetries: s.maxRetries,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueuing feed job: %w", err)
	}

	log.Printf("[DEBUG] Enqueued feed job %d", job.ID)
	return job, nil
}

func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]*models.Job, error) {
	return s.repo.ListRecent(ctx, limit)
}

func (s *service) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	return s.repo.ClaimNextJob(ctx, workerID, jobTypes)
}

func (s *service) UpdateStatus(ctx context.Context, jobID uint, status models.JobStatus) error {
	return s.repo.UpdateJobStatus(ctx, jobID, status)
}

func (s *service) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	return s.repo.CompleteJob(ctx, jobID, result)
}

func (s *service) FailJob(ctx context.Context, jobID uint, jobErr error) error {
	msg := "unknown error"
	if jobErr != nil {
		msg = jobErr.Error()
	}
	return s.repo.FailJob(ctx, jobID, msg)
}

func (s *service) ReleaseJob(ctx context.Context, jobID uint) error {
	return s.repo.ReleaseJob(ctx, jobID)
}

func (s *service) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOldJobs(ctx, cutoff)
}
