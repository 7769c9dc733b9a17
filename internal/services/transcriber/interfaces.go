package transcriber

import (
	"context"

	"github.com/podbrief/podbrief-api/internal/models"
)

// EngineResult is the raw output of a speech-to-text engine. Segments
// are passed through unmodified from the underlying engine.
type EngineResult struct {
	Text     string
	Language string
	Duration float64
	Segments models.SegmentList
}

// Engine converts a local audio file into text using a resolved model
// file. Implementations treat the engine as a slow, fallible call.
type Engine interface {
	Transcribe(ctx context.Context, audioPath, modelPath string) (*EngineResult, error)
}

// Service is the transcription stage consumed by the pipeline
type Service interface {
	// Transcribe converts an audio asset into a persisted transcript.
	// The model is acquired first if not locally available.
	Transcribe(ctx context.Context, episodeKey, audioPath string) (*models.Transcript, error)

	// GetTranscript retrieves a stored transcript, nil when absent
	GetTranscript(ctx context.Context, episodeKey string) (*models.Transcript, error)
}

// Repository defines the persistence interface for transcripts
type Repository interface {
	GetByKey(ctx context.Context, episodeKey string) (*models.Transcript, error)
	Save(ctx context.Context, transcript *models.Transcript) error
}
