package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ClientOptions configures the LLM-backed generator
type ClientOptions struct {
	APIKey      string
	BaseURL     string // optional override for OpenAI-compatible endpoints
	Model       string
	Temperature float32
	ChunkSize   int // characters per map chunk
}

// DefaultClientOptions returns sensible generation defaults
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Model:       openai.GPT4,
		Temperature: 0.5,
		ChunkSize:   8000,
	}
}

// completer is the slice of the OpenAI client the generator needs,
// kept narrow so tests can stub it
type completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client generates summaries through an OpenAI-compatible chat API.
// Long transcripts are map-reduced: each chunk is condensed first,
// then the template prompt runs over the joined chunk summaries.
type Client struct {
	api     completer
	options ClientOptions
}

// NewClient creates a generator backed by the OpenAI chat API
func NewClient(options ClientOptions) (*Client, error) {
	if options.APIKey == "" {
		return nil, fmt.Errorf("summaries API key is required")
	}
	if options.Model == "" {
		options.Model = openai.GPT4
	}
	if options.ChunkSize <= 0 {
		options.ChunkSize = 8000
	}

	cfg := openai.DefaultConfig(options.APIKey)
	if options.BaseURL != "" {
		cfg.BaseURL = options.BaseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		options: options,
	}, nil
}

// Generate renders one template over the transcript text
func (c *Client) Generate(ctx context.Context, templateName, text string) (string, error) {
	prompt, err := PromptFor(templateName)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("cannot summarize empty text")
	}

	chunks := splitText(text, c.options.ChunkSize)
	if len(chunks) > 1 {
		log.Printf("[DEBUG] Transcript split into %d chunks for template %s", len(chunks), templateName)
		condensed := make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			part, err := c.complete(ctx, mapPrompt, chunk)
			if err != nil {
				return "", fmt.Errorf("condensing chunk %d/%d: %w", i+1, len(chunks), err)
			}
			condensed = append(condensed, part)
		}
		text = strings.Join(condensed, "\n\n")
	}

	summary, err := c.complete(ctx, prompt, text)
	if err != nil {
		return "", fmt.Errorf("generating %s summary: %w", templateName, err)
	}
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("model returned empty %s summary", templateName)
	}

	return summary, nil
}

func (c *Client) complete(ctx context.Context, instruction, text string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.options.Model,
		Temperature: c.options.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response had no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// splitText breaks text into chunks of at most chunkSize characters,
// preferring paragraph then line then word boundaries
func splitText(text string, chunkSize int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for len(remaining) > chunkSize {
		cut := boundaryBefore(remaining, chunkSize)
		chunks = append(chunks, strings.TrimSpace(remaining[:cut]))
		remaining = remaining[cut:]
	}
	if trimmed := strings.TrimSpace(remaining); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}

func boundaryBefore(text string, limit int) int {
	window := text[:limit]
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx + len(sep)
		}
	}
	return limit
}
