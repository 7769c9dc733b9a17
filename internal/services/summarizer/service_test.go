package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/models"
)

// fakeGenerator fails the configured templates and succeeds otherwise
type fakeGenerator struct {
	failing map[string]bool
	calls   []string
}

func (f *fakeGenerator) Generate(_ context.Context, templateName, _ string) (string, error) {
	f.calls = append(f.calls, templateName)
	if f.failing[templateName] {
		return "", fmt.Errorf("generation blew up")
	}
	return "summary for " + templateName, nil
}

func newTestSummarizer(t *testing.T, gen Generator) (Service, string) {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Summary{}))
	t.Cleanup(func() { _ = db.Close() })

	dir := t.TempDir()
	svc := NewService(NewRepository(db.DB), gen, ServiceOptions{
		SummariesDir: dir,
		Model:        "test-model",
	})
	return svc, dir
}

func TestSummarizeAllTemplates(t *testing.T) {
	gen := &fakeGenerator{}
	svc, dir := newTestSummarizer(t, gen)

	templates := []string{TemplateKeyIdeas, TemplateQuotes}
	summaries, err := svc.Summarize(context.Background(), "ep-key", "transcript text", templates)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// One artifact per (episode, template)
	for _, tmpl := range templates {
		path := filepath.Join(dir, "ep-key."+tmpl+".md")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "summary for "+tmpl, string(data))
	}
}

func TestSummarizeTemplateIsolation(t *testing.T) {
	// One failing template must not block the others
	gen := &fakeGenerator{failing: map[string]bool{TemplateQuotes: true}}
	svc, _ := newTestSummarizer(t, gen)

	templates := []string{TemplateKeyIdeas, TemplateQuotes, TemplateConcepts}
	summaries, err := svc.Summarize(context.Background(), "ep-key", "transcript", templates)

	require.Error(t, err)
	assert.ErrorContains(t, err, TemplateQuotes)
	require.Len(t, summaries, 2)

	// Every template was attempted despite the failure
	assert.Equal(t, templates, gen.calls)

	names := []string{summaries[0].Template, summaries[1].Template}
	assert.Contains(t, names, TemplateKeyIdeas)
	assert.Contains(t, names, TemplateConcepts)
}

func TestSummarizeDefaultsTemplates(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestSummarizer(t, gen)

	summaries, err := svc.Summarize(context.Background(), "ep-key", "transcript", nil)
	require.NoError(t, err)
	assert.Len(t, summaries, len(DefaultTemplates()))
}

func TestSummarizeUnknownTemplate(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestSummarizer(t, gen)

	summaries, err := svc.Summarize(context.Background(), "ep-key", "transcript", []string{"bogus", TemplateKeyIdeas})
	require.Error(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, TemplateKeyIdeas, summaries[0].Template)
}

func TestSummarizeValidation(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestSummarizer(t, gen)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, "", "text", nil)
	assert.Error(t, err)

	_, err = svc.Summarize(ctx, "key", "   ", nil)
	assert.Error(t, err)
	assert.Empty(t, gen.calls)
}

func TestSummarizeReRunReplaces(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestSummarizer(t, gen)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, "ep-key", "transcript", []string{TemplateKeyIdeas})
	require.NoError(t, err)
	_, err = svc.Summarize(ctx, "ep-key", "transcript v2", []string{TemplateKeyIdeas})
	require.NoError(t, err)

	stored, err := svc.GetSummaries(ctx, "ep-key")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestGetSummariesEmpty(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestSummarizer(t, gen)

	stored, err := svc.GetSummaries(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
