package pipeline

import (
	"fmt"

	"github.com/podbrief/podbrief-api/internal/models"
)

// EpisodeState tracks an episode's progress through the pipeline
type EpisodeState string

const (
	StateResolved    EpisodeState = "RESOLVED"
	StateTitleReady  EpisodeState = "TITLE_READY"
	StateDownloaded  EpisodeState = "DOWNLOADED"
	StateTranscribed EpisodeState = "TRANSCRIBED"
	StateSummarized  EpisodeState = "SUMMARIZED"
	StateRecorded    EpisodeState = "RECORDED"

	// Terminal states outside the happy path
	StateFailed  EpisodeState = "FAILED"
	StateSkipped EpisodeState = "SKIPPED"
)

// Stage names carried on failures so a batch report can say where an
// episode stopped
const (
	StageResolve    = "resolve"
	StageHistory    = "history"
	StageDownload   = "download"
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StageRecord     = "record"
)

// FailureKind classifies a stage failure
type FailureKind string

const (
	FetchFailure         FailureKind = "fetch_failure"
	DownloadFailure      FailureKind = "download_failure"
	TranscriptionFailure FailureKind = "transcription_failure"
	SummarizationFailure FailureKind = "summarization_failure"
	HistoryFailure       FailureKind = "history_failure"
)

// StageError is a stage failure attached to an episode identity
type StageError struct {
	Stage      string
	Kind       FailureKind
	EpisodeKey string
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("episode %s failed at stage %s: %v", e.EpisodeKey, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// EpisodeResult is the terminal outcome for one episode in a batch
type EpisodeResult struct {
	Episode *models.Episode
	State   EpisodeState

	// Set when State is FAILED
	Failure *StageError

	// Template names that failed when summarization ran best-effort
	FailedTemplates []string
}

// BatchReport aggregates per-episode outcomes for one batch run
type BatchReport struct {
	Results   []*EpisodeResult
	Succeeded int
	Skipped   int
	Failed    int
}

func (r *BatchReport) add(result *EpisodeResult) {
	r.Results = append(r.Results, result)
	switch result.State {
	case StateRecorded:
		r.Succeeded++
	case StateSkipped:
		r.Skipped++
	case StateFailed:
		r.Failed++
	}
}

// Failures returns the stage errors of every failed episode
func (r *BatchReport) Failures() []*StageError {
	var failures []*StageError
	for _, result := range r.Results {
		if result.Failure != nil {
			failures = append(failures, result.Failure)
		}
	}
	return failures
}

// HasFailures reports whether any episode ended in FAILED
func (r *BatchReport) HasFailures() bool {
	return r.Failed > 0
}
