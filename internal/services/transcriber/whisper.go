package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/podbrief/podbrief-api/internal/models"
)

// WhisperOptions configures the whisper.cpp engine
type WhisperOptions struct {
	BinaryPath string
	Language   string
	Threads    int
}

// DefaultWhisperOptions returns default engine options
func DefaultWhisperOptions() WhisperOptions {
	return WhisperOptions{
		BinaryPath: "whisper-cli",
		Language:   "en",
		Threads:    4,
	}
}

// WhisperEngine shells out to the whisper.cpp CLI and parses its JSON
// output for text and timed segments.
type WhisperEngine struct {
	options WhisperOptions
}

// NewWhisperEngine creates a whisper.cpp backed engine
func NewWhisperEngine(options WhisperOptions) *WhisperEngine {
	if options.Threads <= 0 {
		options.Threads = 4
	}
	return &WhisperEngine{options: options}
}

// whisperOutput matches the whisper.cpp --output-json document
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper-cli against the audio file
func (e *WhisperEngine) Transcribe(ctx context.Context, audioPath, modelPath string) (*EngineResult, error) {
	if _, err := exec.LookPath(e.options.BinaryPath); err != nil {
		return nil, fmt.Errorf("whisper binary %q not found: %w", e.options.BinaryPath, err)
	}

	// Each invocation gets its own output directory so concurrent
	// transcriptions never read or remove each other's JSON
	outDir, err := os.MkdirTemp("", "whisper-")
	if err != nil {
		return nil, fmt.Errorf("creating whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	outBase := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath)))
	outJSON := outBase + ".json"

	// -oj emits JSON with segment offsets, -of sets the output base name
	cmd := exec.CommandContext(ctx, e.options.BinaryPath,
		"-m", modelPath,
		"-f", audioPath,
		"-l", e.options.Language,
		"-t", fmt.Sprintf("%d", e.options.Threads),
		"-oj",
		"-of", outBase,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper command failed: %w (output: %s)", err, truncate(string(output), 500))
	}

	data, err := os.ReadFile(outJSON)
	if err != nil {
		return nil, fmt.Errorf("reading whisper output: %w", err)
	}

	var parsed whisperOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing whisper output: %w", err)
	}

	result := &EngineResult{Language: parsed.Result.Language}

	var text strings.Builder
	for _, seg := range parsed.Transcription {
		text.WriteString(seg.Text)
		result.Segments = append(result.Segments, models.TranscriptSegment{
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	result.Text = strings.TrimSpace(text.String())

	if n := len(result.Segments); n > 0 {
		result.Duration = result.Segments[n-1].End
	}

	log.Printf("[DEBUG] Whisper transcribed %s (%d segments, %.1fs)", filepath.Base(audioPath), len(result.Segments), result.Duration)

	return result, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
