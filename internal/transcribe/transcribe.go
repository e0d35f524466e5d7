package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hemingjun/video-caption-generator/internal/pipeline"
)

// maxFileSizeBytes is the Whisper API upload limit.
const maxFileSizeBytes = 25 * 1024 * 1024

// Result is a completed transcription with validated timed segments.
type Result struct {
	Text     string
	Segments []pipeline.TimedSegment
	Language string
	Duration float64
}

// TranscriptionError tags a failed transcription with the audio path.
type TranscriptionError struct {
	AudioPath string
	Err       error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.AudioPath, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// Transcriber calls the Whisper API for speech recognition.
type Transcriber struct {
	client *openai.Client
}

// NewTranscriber creates a transcriber for the given API key.
func NewTranscriber(apiKey string) *Transcriber {
	return &Transcriber{client: openai.NewClient(apiKey)}
}

// Transcribe uploads an audio file and returns its timed segments.
// Files over the API's 25 MB limit are rejected up front.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	stat, err := os.Stat(audioPath)
	if err != nil {
		return nil, &TranscriptionError{AudioPath: audioPath, Err: err}
	}

	sizeMB := float64(stat.Size()) / (1024 * 1024)
	slog.Info("starting transcription", "file", audioPath, "size_mb", fmt.Sprintf("%.2f", sizeMB))

	if stat.Size() > maxFileSizeBytes {
		return nil, &TranscriptionError{
			AudioPath: audioPath,
			Err:       fmt.Errorf("audio file too large: %.2f MB (limit 25 MB)", sizeMB),
		}
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       openai.Whisper1,
		FilePath:    audioPath,
		Format:      openai.AudioResponseFormatVerboseJSON,
		Temperature: 0,
	})
	if err != nil {
		return nil, &TranscriptionError{AudioPath: audioPath, Err: err}
	}

	segments := make([]pipeline.TimedSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, pipeline.TimedSegment{
			Text:  strings.TrimSpace(seg.Text),
			Start: seg.Start,
			End:   seg.End,
		})
	}

	if err := pipeline.ValidateSegments(segments); err != nil {
		return nil, &TranscriptionError{AudioPath: audioPath, Err: err}
	}

	result := &Result{
		Text:     resp.Text,
		Segments: segments,
		Language: resp.Language,
		Duration: resp.Duration,
	}

	slog.Info("transcription completed",
		"segments", len(segments),
		"duration_sec", result.Duration,
		"language", result.Language)

	return result, nil
}
