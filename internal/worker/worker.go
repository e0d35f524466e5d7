// Package worker orchestrates the extract -> transcribe -> translate ->
// write pipeline.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hemingjun/video-caption-generator/internal/checkpoint"
	"github.com/hemingjun/video-caption-generator/internal/config"
	"github.com/hemingjun/video-caption-generator/internal/cost"
	"github.com/hemingjun/video-caption-generator/internal/ffmpeg"
	"github.com/hemingjun/video-caption-generator/internal/output"
	"github.com/hemingjun/video-caption-generator/internal/pipeline"
	"github.com/hemingjun/video-caption-generator/internal/transcribe"
	"github.com/hemingjun/video-caption-generator/internal/translate"
)

// Options configures one processing run.
type Options struct {
	InputPath string
	OutputDir string
	Format    string // srt, text, both
	SaveJSON  bool
	Resume    bool
	Config    *config.Config
}

// Run executes the full caption pipeline for one video file.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	inputPath := opts.InputPath
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}

	lang := cfg.Translation.TargetLanguage
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	srtPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.srt", base, lang))
	txtPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.txt", base, lang))
	jsonPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.json", base, lang))

	slog.Info("processing file", "input", filepath.Base(inputPath), "target", lang)

	checkpoints := checkpoint.NewManager("")

	// Transcribe, or resume from a saved transcription.
	transcription, err := obtainTranscription(ctx, inputPath, opts, checkpoints)
	if err != nil {
		return err
	}

	// Translate.
	client := translate.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	retry := translate.DefaultRetryPolicy()
	if cfg.OpenAI.MaxRetries > 0 {
		retry.MaxAttempts = cfg.OpenAI.MaxRetries
	}

	var segments []pipeline.TranslatedSegment
	if cfg.Translation.ParagraphMode {
		segments, err = translateParagraphs(ctx, client, cfg, retry, transcription)
	} else {
		traditional := translate.NewTraditionalTranslator(client, cfg.Translation, retry)
		segments, err = traditional.Translate(ctx, transcription.Segments, transcription.Language)
	}
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("translation produced no segments")
	}

	checkpoints.Save(inputPath, checkpoint.StageTranslated, 90, segments)

	// Write outputs.
	includeOriginal := cfg.Output.IncludeOriginal
	if opts.Format == "srt" || opts.Format == "both" {
		if err := output.SaveSRT(segments, srtPath, includeOriginal); err != nil {
			return err
		}
	}
	if opts.Format == "text" || opts.Format == "both" {
		if err := output.SaveText(segments, txtPath, includeOriginal); err != nil {
			return err
		}
	}
	if opts.SaveJSON {
		if err := output.SaveJSON(segments, jsonPath); err != nil {
			return err
		}
	}

	checkpoints.Clear(inputPath)

	// Cost summary.
	inputTokens, outputTokens := client.Usage()
	calc := cost.NewCalculator(cfg.Pricing)
	fmt.Println(calc.Summary(transcription.Duration, inputTokens, outputTokens))

	return nil
}

// obtainTranscription resumes a transcription from a checkpoint when
// requested and available, otherwise extracts audio and calls the API.
func obtainTranscription(ctx context.Context, inputPath string, opts Options, checkpoints *checkpoint.Manager) (*transcribe.Result, error) {
	if opts.Resume {
		cp, err := checkpoints.Load(inputPath)
		if err != nil {
			slog.Warn("checkpoint load failed, starting fresh", "err", err)
		} else if cp != nil && cp.Stage == checkpoint.StageTranscribed {
			var result transcribe.Result
			if err := json.Unmarshal(cp.State, &result); err == nil && len(result.Segments) > 0 {
				slog.Info("resuming from transcription checkpoint",
					"segments", len(result.Segments), "saved_at", cp.Timestamp)
				return &result, nil
			}
			slog.Warn("transcription checkpoint unusable, starting fresh")
		}
	}

	cfg := opts.Config
	audioPath := inputPath

	if ffmpeg.IsVideoExtension(filepath.Ext(inputPath)) {
		tempDir := cfg.Processing.TempDir
		if err := os.MkdirAll(tempDir, 0755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}

		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		audioPath = filepath.Join(tempDir, base+".wav")

		if err := ffmpeg.ExtractAudio(ctx, inputPath, audioPath, cfg.Processing.SampleRate); err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		if !cfg.Processing.KeepTempFiles {
			defer os.Remove(audioPath)
		}
		checkpoints.Save(inputPath, checkpoint.StageExtracted, 10, audioPath)
	}

	transcriber := transcribe.NewTranscriber(cfg.OpenAI.APIKey)
	result, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	checkpoints.Save(inputPath, checkpoint.StageTranscribed, 40, result)
	return result, nil
}

// translateParagraphs runs the paragraph-aware path: boundary detection,
// short-paragraph merging, then holistic translation with timestamp
// redistribution.
func translateParagraphs(ctx context.Context, client translate.Client, cfg *config.Config, retry translate.RetryPolicy, transcription *transcribe.Result) ([]pipeline.TranslatedSegment, error) {
	detector := pipeline.NewParagraphDetector(pipeline.DetectorConfig{
		SilenceThreshold: cfg.Translation.ParagraphSilenceThreshold,
		MaxDuration:      cfg.Translation.ParagraphMaxDuration,
		MinDuration:      cfg.Translation.ParagraphMinDuration,
	})

	paragraphs := detector.DetectParagraphs(transcription.Segments)
	paragraphs = detector.MergeShortParagraphs(paragraphs)
	slog.Info("paragraphs detected",
		"segments", len(transcription.Segments), "paragraphs", len(paragraphs))

	translator := translate.NewParagraphTranslator(client, cfg.Translation, retry)
	return translator.Translate(ctx, paragraphs, transcription.Language)
}
