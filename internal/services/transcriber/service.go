package transcriber

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/podbrief/podbrief-api/internal/models"
)

// ServiceOptions configures the transcription stage
type ServiceOptions struct {
	Model          string // model spec: short name, local path, or URL
	TranscriptsDir string // where transcript text files are written
}

// service implements the Service interface
type service struct {
	repo    Repository
	engine  Engine
	manager *ModelManager
	options ServiceOptions
}

// NewService creates a new transcription service
func NewService(repo Repository, engine Engine, manager *ModelManager, options ServiceOptions) Service {
	return &service{
		repo:    repo,
		engine:  engine,
		manager: manager,
		options: options,
	}
}

// Transcribe converts a downloaded audio asset into a persisted
// transcript. An empty engine result is an error: the stage fails
// rather than persisting a silently truncated transcript.
func (s *service) Transcribe(ctx context.Context, episodeKey, audioPath string) (*models.Transcript, error) {
	if episodeKey == "" {
		return nil, fmt.Errorf("episode key cannot be empty")
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not readable: %w", err)
	}

	modelPath, err := s.manager.Ensure(ctx, s.options.Model)
	if err != nil {
		return nil, fmt.Errorf("model not ready: %w", err)
	}

	result, err := s.engine.Transcribe(ctx, audioPath, modelPath)
	if err != nil {
		return nil, fmt.Errorf("transcribing %s: %w", filepath.Base(audioPath), err)
	}

	if result.Text == "" {
		return nil, fmt.Errorf("engine produced empty transcript for %s", filepath.Base(audioPath))
	}

	textPath, err := s.writeTranscriptFile(episodeKey, result.Text)
	if err != nil {
		return nil, err
	}

	transcript := &models.Transcript{
		EpisodeKey: episodeKey,
		Text:       result.Text,
		Language:   result.Language,
		Model:      s.options.Model,
		Duration:   result.Duration,
		Path:       textPath,
		Segments:   result.Segments,
	}

	if err := s.repo.Save(ctx, transcript); err != nil {
		return nil, fmt.Errorf("saving transcript: %w", err)
	}

	log.Printf("[DEBUG] Transcript saved for episode %s (%d characters, %.1fs)", episodeKey, len(result.Text), result.Duration)

	return transcript, nil
}

// GetTranscript retrieves a stored transcript
func (s *service) GetTranscript(ctx context.Context, episodeKey string) (*models.Transcript, error) {
	return s.repo.GetByKey(ctx, episodeKey)
}

// writeTranscriptFile persists the transcript text artifact, keyed by
// episode identity so re-runs overwrite rather than duplicate.
func (s *service) writeTranscriptFile(episodeKey, text string) (string, error) {
	if err := os.MkdirAll(s.options.TranscriptsDir, 0755); err != nil {
		return "", fmt.Errorf("creating transcripts directory: %w", err)
	}

	textPath := filepath.Join(s.options.TranscriptsDir, episodeKey+".txt")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("writing transcript file: %w", err)
	}

	return textPath, nil
}
