package workers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/podbrief/podbrief-api/internal/models"
	"github.com/podbrief/podbrief-api/internal/services/feedsources"
	"github.com/podbrief/podbrief-api/internal/services/jobs"
	"github.com/podbrief/podbrief-api/internal/services/pipeline"
)

// EpisodeProcessor runs the processing pipeline for queued episode
// and feed jobs
type EpisodeProcessor struct {
	orchestrator *pipeline.Orchestrator
	resolver     *pipeline.Resolver
	feedSources  feedsources.Service
	jobService   jobs.Service
}

// NewEpisodeProcessor creates a processor for pipeline jobs
func NewEpisodeProcessor(
	orchestrator *pipeline.Orchestrator,
	resolver *pipeline.Resolver,
	feedSources feedsources.Service,
	jobService jobs.Service,
) *EpisodeProcessor {
	return &EpisodeProcessor{
		orchestrator: orchestrator,
		resolver:     resolver,
		feedSources:  feedSources,
		jobService:   jobService,
	}
}

// CanProcess returns true for pipeline job types
func (p *EpisodeProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeEpisodeProcessing || jobType == models.JobTypeFeedProcessing
}

// ProcessJob processes a single claimed job
func (p *EpisodeProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	switch job.Type {
	case models.JobTypeEpisodeProcessing:
		return p.processEpisodeJob(ctx, job)
	case models.JobTypeFeedProcessing:
		return p.processFeedJob(ctx, job)
	default:
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}
}

func (p *EpisodeProcessor) processEpisodeJob(ctx context.Context, job *models.Job) error {
	url, ok := job.GetPayloadString(jobs.PayloadURL)
	if !ok || url == "" {
		return fmt.Errorf("job %d has no episode URL in payload", job.ID)
	}
	title, _ := job.GetPayloadString(jobs.PayloadTitle)
	force, _ := job.GetPayloadBool(jobs.PayloadForce)

	episode, err := p.resolver.ResolveDirect(url, title)
	if err != nil {
		return err
	}

	result, err := p.orchestrator.ProcessEpisodeObserved(ctx, episode, force, p.statusObserver(ctx, job.ID))
	if err != nil {
		return err
	}
	if result.State == pipeline.StateFailed {
		return result.Failure
	}

	jobResult := models.JobResult{
		"episode_key": episode.Key,
		"title":       episode.Title,
		"state":       string(result.State),
	}
	if len(result.FailedTemplates) > 0 {
		jobResult["failed_templates"] = strings.Join(result.FailedTemplates, ",")
	}
	return p.jobService.CompleteJob(ctx, job.ID, jobResult)
}

func (p *EpisodeProcessor) processFeedJob(ctx context.Context, job *models.Job) error {
	force, _ := job.GetPayloadBool(jobs.PayloadForce)
	all, _ := job.GetPayloadBool(jobs.PayloadAll)

	sources, err := p.feedSources.List(ctx)
	if err != nil {
		return fmt.Errorf("listing feed sources: %w", err)
	}
	if len(sources) == 0 {
		return p.jobService.CompleteJob(ctx, job.ID, models.JobResult{
			"succeeded": 0,
			"skipped":   0,
			"failed":    0,
		})
	}

	feedURLs := make([]string, 0, len(sources))
	for _, source := range sources {
		feedURLs = append(feedURLs, source.URL)
	}

	episodes, feedErrors := p.resolver.ResolveFeeds(ctx, feedURLs, !all)
	for _, feedErr := range feedErrors {
		log.Printf("[ERROR] Job %d: %v", job.ID, feedErr)
	}

	report, err := p.orchestrator.ProcessBatchObserved(ctx, episodes, force, p.statusObserver(ctx, job.ID))
	if err != nil {
		return err
	}

	jobResult := models.JobResult{
		"succeeded":   report.Succeeded,
		"skipped":     report.Skipped,
		"failed":      report.Failed,
		"feed_errors": len(feedErrors),
	}
	if failures := report.Failures(); len(failures) > 0 {
		details := make([]string, 0, len(failures))
		for _, failure := range failures {
			details = append(details, failure.Error())
		}
		jobResult["failures"] = strings.Join(details, "; ")
	}

	if report.HasFailures() {
		return fmt.Errorf("%d of %d episodes failed", report.Failed, len(report.Results))
	}
	return p.jobService.CompleteJob(ctx, job.ID, jobResult)
}

// statusObserver mirrors pipeline stages into the job status so API
// clients can watch progress
func (p *EpisodeProcessor) statusObserver(ctx context.Context, jobID uint) pipeline.StageObserver {
	return func(stage string, _ *models.Episode) {
		var status models.JobStatus
		switch stage {
		case pipeline.StageDownload:
			status = models.JobStatusDownloading
		case pipeline.StageTranscribe:
			status = models.JobStatusTranscribing
		case pipeline.StageSummarize:
			status = models.JobStatusSummarizing
		default:
			return
		}
		if err := p.jobService.UpdateStatus(ctx, jobID, status); err != nil {
			log.Printf("[ERROR] Failed to update status for job %d: %v", jobID, err)
		}
	}
}
