package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Options configures the download behavior
type Options struct {
	MaxSize       int64         // Maximum file size in bytes (0 = no limit)
	Timeout       time.Duration // Download timeout
	RetryAttempts int           // Number of retries on transient failure
	UserAgent     string        // User agent string
	ValidateAudio bool          // Validate content-type is audio
}

// DefaultOptions returns default download options
func DefaultOptions() Options {
	return Options{
		MaxSize:       500 * 1024 * 1024, // 500MB default max
		Timeout:       5 * time.Minute,
		RetryAttempts: 3,
		UserAgent:     "PodbriefAPI/1.0",
		ValidateAudio: true,
	}
}

// Result contains information about a successful download
type Result struct {
	FilePath      string // Final destination path
	ContentType   string // Content-Type from response
	ContentLength int64  // Size in bytes
}

// Downloader fetches audio resources to local files.
type Downloader struct {
	client  *http.Client
	options Options
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options Options) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true, // don't compress audio
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// Download fetches audioURL into destPath. The write is atomic from the
// caller's perspective: the body lands in a temp file next to destPath
// and is renamed into place only after a complete read, so a partial
// download never occupies the destination. An existing file at destPath
// is overwritten, which keeps re-runs idempotent.
func (d *Downloader) Download(ctx context.Context, audioURL, destPath string) (*Result, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.options.UserAgent)
	req.Header.Set("Accept", "audio/*,*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", audioURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("server returned status %d for %s", resp.StatusCode, audioURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if d.options.ValidateAudio && !isAudioContentType(strings.ToLower(contentType)) {
		return nil, fmt.Errorf("invalid content type %q for %s", contentType, audioURL)
	}

	if d.options.MaxSize > 0 && resp.ContentLength > d.options.MaxSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", resp.ContentLength, d.options.MaxSize)
	}

	// Temp file in the destination directory so the final rename stays on
	// one filesystem
	tempFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := tempFile.Name()

	written, err := d.copyBody(resp.Body, tempFile)
	closeErr := tempFile.Close()

	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("writing download: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("moving download into place: %w", err)
	}

	log.Printf("[DEBUG] Downloaded %d bytes from %s to %s", written, audioURL, destPath)

	return &Result{
		FilePath:      destPath,
		ContentType:   contentType,
		ContentLength: written,
	}, nil
}

// DownloadWithRetry downloads with exponential backoff on transient
// failures. Context cancellation stops the retry loop.
func (d *Downloader) DownloadWithRetry(ctx context.Context, audioURL, destPath string) (*Result, error) {
	var result *Result

	operation := func() error {
		var err error
		result, err = d.Download(ctx, audioURL, destPath)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(d.options.RetryAttempts)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Downloader) copyBody(src io.Reader, dst *os.File) (int64, error) {
	reader := src
	if d.options.MaxSize > 0 {
		reader = &io.LimitedReader{R: src, N: d.options.MaxSize + 1}
	}

	written, err := io.Copy(dst, reader)
	if err != nil {
		return written, err
	}
	if d.options.MaxSize > 0 && written > d.options.MaxSize {
		return written, fmt.Errorf("download exceeded max size of %d bytes", d.options.MaxSize)
	}
	return written, nil
}

// isAudioContentType checks if content type is audio
func isAudioContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/") ||
		contentType == "application/octet-stream" // some servers use this for audio
}

// isValidAudioExtension checks if extension is valid for audio files
func isValidAudioExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case "mp3", "m4a", "aac", "ogg", "wav", "flac", "opus", "webm":
		return true
	}
	return false
}
