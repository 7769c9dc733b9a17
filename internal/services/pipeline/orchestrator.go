package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/podbrief/podbrief-api/internal/models"
	"github.com/podbrief/podbrief-api/internal/services/history"
	"github.com/podbrief/podbrief-api/internal/services/summarizer"
	"github.com/podbrief/podbrief-api/internal/services/transcriber"
	"github.com/podbrief/podbrief-api/pkg/download"
)

// TitleResolver fills an episode title, never failing the caller
type TitleResolver interface {
	Resolve(ctx context.Context, rawURL, override string) string
}

// AudioFetcher resolves an episode URL to a downloaded local file
type AudioFetcher interface {
	Classify(ctx context.Context, rawURL string) (download.Classification, error)
	DownloadWithRetry(ctx context.Context, audioURL, destPath string) (*download.Result, error)
}

// Options tunes orchestrator behavior
type Options struct {
	DownloadsDir string
	Templates    []string
	// RequireAll fails the summarize stage on any template failure.
	// When false, an episode records as long as at least one template
	// succeeded; failed template names are still reported.
	RequireAll   bool
	StageTimeout time.Duration
}

// Orchestrator drives episodes through the processing stages in
// strict order, isolating per-episode failures. Only a history store
// error aborts a batch, since duplicate avoidance depends on it.
type Orchestrator struct {
	titles     TitleResolver
	fetcher    AudioFetcher
	transcribe transcriber.Service
	summarize  summarizer.Service
	history    history.Service
	options    Options
}

// NewOrchestrator creates a pipeline orchestrator
func NewOrchestrator(
	titles TitleResolver,
	fetcher AudioFetcher,
	transcribeService transcriber.Service,
	summarizeService summarizer.Service,
	historyService history.Service,
	options Options,
) *Orchestrator {
	if len(options.Templates) == 0 {
		options.Templates = summarizer.DefaultTemplates()
	}
	return &Orchestrator{
		titles:     titles,
		fetcher:    fetcher,
		transcribe: transcribeService,
		summarize:  summarizeService,
		history:    historyService,
		options:    options,
	}
}

// StageObserver is notified as an episode enters each processing
// stage. Used by job-backed callers to surface progress.
type StageObserver func(stage string, episode *models.Episode)

// ProcessBatch runs each episode through the pipeline. Cancellation
// stops scheduling new episodes; episodes already finished keep their
// outcomes. The returned error is non-nil only when the batch was
// aborted (history store failure or context cancellation).
func (o *Orchestrator) ProcessBatch(ctx context.Context, episodes []*models.Episode, force bool) (*BatchReport, error) {
	return o.ProcessBatchObserved(ctx, episodes, force, nil)
}

// ProcessBatchObserved is ProcessBatch with a per-stage observer
func (o *Orchestrator) ProcessBatchObserved(ctx context.Context, episodes []*models.Episode, force bool, observe StageObserver) (*BatchReport, error) {
	report := &BatchReport{}
	for _, episode := range episodes {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := o.ProcessEpisodeObserved(ctx, episode, force, observe)
		if result != nil {
			report.add(result)
		}
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// ProcessEpisode runs one episode through the stage sequence.
// RESOLVED -> TITLE_READY -> DOWNLOADED -> TRANSCRIBED -> SUMMARIZED
// -> RECORDED, with FAILED or SKIPPED as the other terminal states.
// The returned error is non-nil only for history store failures,
// which callers must treat as fatal to the whole batch.
func (o *Orchestrator) ProcessEpisode(ctx context.Context, episode *models.Episode, force bool) (*EpisodeResult, error) {
	return o.ProcessEpisodeObserved(ctx, episode, force, nil)
}

// ProcessEpisodeObserved is ProcessEpisode with a per-stage observer
func (o *Orchestrator) ProcessEpisodeObserved(ctx context.Context, episode *models.Episode, force bool, observe StageObserver) (*EpisodeResult, error) {
	result := &EpisodeResult{Episode: episode, State: StateResolved}

	episode.Title = o.titles.Resolve(ctx, episode.SourceURL, episode.Title)
	result.State = StateTitleReady

	// Duplicate check happens before any download work
	processed, err := o.history.IsProcessed(ctx, episode.Key)
	if err != nil {
		failure := o.fail(result, StageHistory, HistoryFailure, err)
		return result, failure
	}
	if processed && !force {
		log.Printf("[DEBUG] Skipping already-processed episode %s (%s)", episode.Key, episode.Title)
		result.State = StateSkipped
		return result, nil
	}

	notify := func(stage string) {
		if observe != nil {
			observe(stage, episode)
		}
	}

	notify(StageDownload)
	audioPath, err := o.downloadStage(ctx, episode)
	if err != nil {
		o.fail(result, StageDownload, DownloadFailure, err)
		return result, nil
	}
	result.State = StateDownloaded

	notify(StageTranscribe)
	transcript, err := o.transcribeStage(ctx, episode.Key, audioPath)
	if err != nil {
		o.fail(result, StageTranscribe, TranscriptionFailure, err)
		return result, nil
	}
	result.State = StateTranscribed

	notify(StageSummarize)
	failedTemplates, err := o.summarizeStage(ctx, episode.Key, transcript.Text)
	result.FailedTemplates = failedTemplates
	if err != nil {
		o.fail(result, StageSummarize, SummarizationFailure, err)
		return result, nil
	}
	result.State = StateSummarized

	record := &models.HistoryRecord{
		EpisodeKey: episode.Key,
		Title:      episode.Title,
		SourceURL:  episode.SourceURL,
		FeedName:   episode.FeedName,
		Success:    true,
	}
	if err := o.history.MarkProcessed(ctx, record); err != nil {
		failure := o.fail(result, StageRecord, HistoryFailure, err)
		return result, failure
	}
	result.State = StateRecorded

	log.Printf("[DEBUG] Episode %s recorded (%s)", episode.Key, episode.Title)
	return result, nil
}

func (o *Orchestrator) downloadStage(ctx context.Context, episode *models.Episode) (string, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()

	audioURL := episode.AudioURL
	if audioURL == "" {
		classification, err := o.fetcher.Classify(ctx, episode.SourceURL)
		if err != nil {
			return "", err
		}
		switch classification.Kind {
		case download.DirectAudio, download.WebpageWithAudio:
			audioURL = classification.AudioURL
		case download.Unresolvable:
			return "", fmt.Errorf("no audio resource found at %s", episode.SourceURL)
		default:
			return "", fmt.Errorf("unexpected source classification %q", classification.Kind)
		}
		episode.AudioURL = audioURL
	}

	// Deterministic path keyed by episode identity so forced re-runs
	// overwrite instead of duplicating
	destPath := filepath.Join(o.options.DownloadsDir, episode.Key+"."+download.AudioExtension(audioURL))
	if _, err := o.fetcher.DownloadWithRetry(ctx, audioURL, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

func (o *Orchestrator) transcribeStage(ctx context.Context, episodeKey, audioPath string) (*models.Transcript, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.transcribe.Transcribe(ctx, episodeKey, audioPath)
}

// summarizeStage returns the names of templates that failed and, when
// the failure is fatal under the configured policy, an error
func (o *Orchestrator) summarizeStage(ctx context.Context, episodeKey, text string) ([]string, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()

	summaries, err := o.summarize.Summarize(ctx, episodeKey, text, o.options.Templates)

	succeeded := make(map[string]bool, len(summaries))
	for _, summary := range summaries {
		succeeded[summary.Template] = true
	}
	var failed []string
	for _, tmpl := range o.options.Templates {
		if !succeeded[tmpl] {
			failed = append(failed, tmpl)
		}
	}

	if err != nil {
		if o.options.RequireAll {
			return failed, err
		}
		if len(summaries) == 0 {
			return failed, fmt.Errorf("all summary templates failed: %w", err)
		}
		log.Printf("[ERROR] Episode %s continuing best-effort with %d/%d templates: %v",
			episodeKey, len(summaries), len(o.options.Templates), err)
	}
	return failed, nil
}

func (o *Orchestrator) fail(result *EpisodeResult, stage string, kind FailureKind, err error) *StageError {
	failure := &StageError{
		Stage:      stage,
		Kind:       kind,
		EpisodeKey: result.Episode.Key,
		Err:        err,
	}
	result.State = StateFailed
	result.Failure = failure
	log.Printf("[ERROR] %v", failure)
	return failure
}

func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.options.StageTimeout > 0 {
		return context.WithTimeout(ctx, o.options.StageTimeout)
	}
	return context.WithCancel(ctx)
}
