package transcriber

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// knownModels maps short model names to their ggml file names on the
// whisper.cpp model hub.
var knownModels = map[string]string{
	"tiny":     "ggml-tiny.bin",
	"tiny.en":  "ggml-tiny.en.bin",
	"base":     "ggml-base.bin",
	"base.en":  "ggml-base.en.bin",
	"small":    "ggml-small.bin",
	"small.en": "ggml-small.en.bin",
	"medium":   "ggml-medium.bin",
	"large-v1": "ggml-large-v1.bin",
	"large-v2": "ggml-large-v2.bin",
	"large-v3": "ggml-large-v3.bin",
}

// ModelManager resolves model specs (short name, local path, or hub
// URL) to local model files, acquiring missing models into a shared
// cache directory. Concurrent acquisitions of the same model collapse
// into one download.
type ModelManager struct {
	dir        string
	hubBaseURL string
	client     *http.Client
	group      singleflight.Group
}

// NewModelManager creates a model manager backed by dir
func NewModelManager(dir, hubBaseURL string) *ModelManager {
	return &ModelManager{
		dir:        dir,
		hubBaseURL: strings.TrimRight(hubBaseURL, "/"),
		client:     &http.Client{Timeout: 30 * time.Minute},
	}
}

// Ensure returns a local path for the requested model spec, downloading
// the model first when it is not locally available.
func (m *ModelManager) Ensure(ctx context.Context, spec string) (string, error) {
	if spec == "" {
		return "", fmt.Errorf("model spec cannot be empty")
	}

	// A spec that is already a local file needs no acquisition
	if info, err := os.Stat(spec); err == nil && !info.IsDir() {
		return spec, nil
	}

	fileName, sourceURL, err := m.resolve(spec)
	if err != nil {
		return "", err
	}

	localPath := filepath.Join(m.dir, fileName)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	// Collapse concurrent acquisitions of the same model; whoever loses
	// the race waits for the winner's download
	_, err, _ = m.group.Do(fileName, func() (interface{}, error) {
		// Re-check under the flight: another caller may have finished
		if _, err := os.Stat(localPath); err == nil {
			return localPath, nil
		}
		return localPath, m.fetch(ctx, sourceURL, localPath)
	})
	if err != nil {
		return "", fmt.Errorf("acquiring model %s: %w", spec, err)
	}

	return localPath, nil
}

// resolve maps a spec to its cache file name and download URL
func (m *ModelManager) resolve(spec string) (fileName, sourceURL string, err error) {
	if fileName, ok := knownModels[strings.ToLower(spec)]; ok {
		return fileName, m.hubBaseURL + "/" + fileName, nil
	}

	// Hub reference: a full URL to a model file
	if u, parseErr := url.Parse(spec); parseErr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return filepath.Base(u.Path), spec, nil
	}

	return "", "", fmt.Errorf("unknown model %q (known: tiny, base, small, medium, large-v1..v3, a local path, or a model URL)", spec)
}

// fetch downloads a model file, writing to a temp file and renaming
// into place so a partial download never looks like a usable model.
func (m *ModelManager) fetch(ctx context.Context, sourceURL, localPath string) error {
	log.Printf("[DEBUG] Acquiring model from %s", sourceURL)

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model hub returned status %d for %s", resp.StatusCode, sourceURL)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(localPath), ".model-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := tempFile.Name()

	written, err := io.Copy(tempFile, resp.Body)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("writing model file: %w", err)
	}

	if err := os.Rename(tempPath, localPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("moving model into place: %w", err)
	}

	log.Printf("[DEBUG] Model acquired: %s (%.1f MB)", localPath, float64(written)/(1024*1024))
	return nil
}
