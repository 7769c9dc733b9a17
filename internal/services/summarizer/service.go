package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/podbrief/podbrief-api/internal/models"
)

// ServiceOptions configures the summarization stage
type ServiceOptions struct {
	SummariesDir string // where summary markdown files are written
	Model        string // recorded on each summary row
}

type service struct {
	repo      Repository
	generator Generator
	options   ServiceOptions
}

// NewService creates a new summarization service
func NewService(repo Repository, generator Generator, options ServiceOptions) Service {
	return &service{
		repo:      repo,
		generator: generator,
		options:   options,
	}
}

// Summarize renders each template independently. A failed template
// does not stop the others: successes are persisted as they happen
// and failures are joined into the returned error.
func (s *service) Summarize(ctx context.Context, episodeKey, text string, templates []string) ([]*models.Summary, error) {
	if episodeKey == "" {
		return nil, fmt.Errorf("episode key cannot be empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot summarize empty transcript")
	}
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}

	var summaries []*models.Summary
	var failures []error

	for _, tmpl := range templates {
		summary, err := s.renderTemplate(ctx, episodeKey, tmpl, text)
		if err != nil {
			log.Printf("[ERROR] Template %s failed for episode %s: %v", tmpl, episodeKey, err)
			failures = append(failures, fmt.Errorf("template %s: %w", tmpl, err))
			continue
		}
		summaries = append(summaries, summary)
	}

	if len(failures) > 0 {
		return summaries, errors.Join(failures...)
	}
	return summaries, nil
}

func (s *service) GetSummaries(ctx context.Context, episodeKey string) ([]*models.Summary, error) {
	return s.repo.GetByKey(ctx, episodeKey)
}

func (s *service) renderTemplate(ctx context.Context, episodeKey, tmpl, text string) (*models.Summary, error) {
	if !KnownTemplate(tmpl) {
		return nil, fmt.Errorf("unknown summary template %q", tmpl)
	}

	content, err := s.generator.Generate(ctx, tmpl, text)
	if err != nil {
		return nil, err
	}

	path, err := s.writeSummaryFile(episodeKey, tmpl, content)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		EpisodeKey: episodeKey,
		Template:   tmpl,
		Content:    content,
		Model:      s.options.Model,
		Path:       path,
	}
	if err := s.repo.Save(ctx, summary); err != nil {
		return nil, fmt.Errorf("saving summary: %w", err)
	}

	log.Printf("[DEBUG] Summary %s saved for episode %s (%d characters)", tmpl, episodeKey, len(content))
	return summary, nil
}

func (s *service) writeSummaryFile(episodeKey, tmpl, content string) (string, error) {
	if err := os.MkdirAll(s.options.SummariesDir, 0755); err != nil {
		return "", fmt.Errorf("creating summaries directory: %w", err)
	}

	path := filepath.Join(s.options.SummariesDir, fmt.Sprintf("%s.%s.md", episodeKey, tmpl))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing summary file: %w", err)
	}
	return path, nil
}
