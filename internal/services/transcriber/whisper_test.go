package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWhisperBinary writes a shell script that mimics whisper-cli: it
// sleeps briefly, then writes <outBase>.json containing text derived
// from the input audio file name.
func fakeWhisperBinary(t *testing.T) string {
	t.Helper()

	script := `#!/bin/sh
audio=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -f) audio="$2"; shift 2 ;;
    -of) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
sleep 0.1
name=$(basename "$audio")
printf '{"result":{"language":"en"},"transcription":[{"offsets":{"from":0,"to":2000},"text":"transcript of %s"}]}' "$name" > "$out.json"
`

	path := filepath.Join(t.TempDir(), "whisper-cli")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func writeFakeAudio(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))
	return path
}

func TestWhisperEngine_Transcribe(t *testing.T) {
	engine := NewWhisperEngine(WhisperOptions{
		BinaryPath: fakeWhisperBinary(t),
		Language:   "en",
		Threads:    1,
	})

	dir := t.TempDir()
	audio := writeFakeAudio(t, dir, "episode.mp3")
	model := writeFakeAudio(t, dir, "ggml-tiny.bin")

	result, err := engine.Transcribe(context.Background(), audio, model)
	require.NoError(t, err)

	assert.Equal(t, "transcript of episode.mp3", result.Text)
	assert.Equal(t, "en", result.Language)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, 2.0, result.Segments[0].End)
	assert.Equal(t, 2.0, result.Duration)
}

func TestWhisperEngine_ConcurrentCallsKeepSeparateOutputs(t *testing.T) {
	engine := NewWhisperEngine(WhisperOptions{
		BinaryPath: fakeWhisperBinary(t),
		Language:   "en",
		Threads:    1,
	})

	dir := t.TempDir()
	model := writeFakeAudio(t, dir, "ggml-tiny.bin")

	const workers = 4
	results := make([]*EngineResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		audio := writeFakeAudio(t, dir, fmt.Sprintf("episode-%d.mp3", i))
		wg.Add(1)
		go func(i int, audio string) {
			defer wg.Done()
			results[i], errs[i] = engine.Transcribe(context.Background(), audio, model)
		}(i, audio)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "call %d", i)
		assert.Equal(t, fmt.Sprintf("transcript of episode-%d.mp3", i), results[i].Text, "call %d", i)
	}
}

func TestWhisperEngine_MissingBinary(t *testing.T) {
	engine := NewWhisperEngine(WhisperOptions{
		BinaryPath: filepath.Join(t.TempDir(), "no-such-whisper"),
	})

	_, err := engine.Transcribe(context.Background(), "audio.mp3", "model.bin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
