package translate

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hemingjun/video-caption-generator/internal/config"
	"github.com/hemingjun/video-caption-generator/internal/pipeline"
)

// ParagraphTranslator translates detected paragraphs holistically, one
// call per paragraph, and redistributes each translation's timing across
// the paragraph's original window.
type ParagraphTranslator struct {
	client        Client
	cfg           config.TranslationConfig
	retry         RetryPolicy
	redistributor *pipeline.TimestampRedistributor
}

// NewParagraphTranslator wires a translator from the translation config.
func NewParagraphTranslator(client Client, cfg config.TranslationConfig, retry RetryPolicy) *ParagraphTranslator {
	return &ParagraphTranslator{
		client: client,
		cfg:    cfg,
		retry:  retry,
		redistributor: pipeline.NewTimestampRedistributor(pipeline.RedistributorConfig{
			SentenceMinGap:   cfg.SentenceMinGap,
			TargetSpeechRate: cfg.TargetSpeechRate,
			PauseWeights:     cfg.PunctuationPauseWeights,
		}),
	}
}

// TranslateParagraph sends one paragraph's full text with a duration-aware
// prompt and returns the trimmed response verbatim.
func (t *ParagraphTranslator) TranslateParagraph(ctx context.Context, text, sourceLang string, durationSec float64) (string, error) {
	prompt := paragraphSystemPrompt(sourceLang, t.cfg.TargetLanguage, durationSec, t.cfg.TargetSpeechRate)

	translated, err := t.client.Translate(ctx, text, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(translated), nil
}

// Translate runs the paragraph pipeline over the given paragraphs with
// bounded concurrency and rate-limited dispatch. Results are reassembled
// in input order regardless of completion order. A paragraph whose
// translation fails after retries aborts the run with its index; no
// half-translated paragraph is ever emitted.
func (t *ParagraphTranslator) Translate(ctx context.Context, paragraphs []pipeline.Paragraph, sourceLang string) ([]pipeline.TranslatedSegment, error) {
	if len(paragraphs) == 0 {
		return nil, nil
	}

	maxConcurrent := t.cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	slog.Info("translating paragraphs",
		"count", len(paragraphs),
		"max_concurrent", maxConcurrent,
		"target", t.cfg.TargetLanguage)

	limiter := rate.NewLimiter(rate.Limit(float64(t.cfg.RateLimitPerMin)/60.0), 1)

	// Index-preserving join: each goroutine writes only its own slot.
	translations := make([]string, len(paragraphs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, p := range paragraphs {
		i, p := i, p
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			err := t.retry.Do(gctx, func() error {
				translated, err := t.TranslateParagraph(gctx, p.Text, sourceLang, p.Duration())
				if err != nil {
					return err
				}
				translations[i] = translated
				return nil
			})
			if err != nil {
				return &TranslationError{
					SourceLang: sourceLang,
					TargetLang: t.cfg.TargetLanguage,
					Unit:       "paragraph",
					Index:      i,
					Err:        err,
				}
			}

			slog.Debug("paragraph translated",
				"paragraph", i+1, "total", len(paragraphs))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var segments []pipeline.TranslatedSegment
	for i, p := range paragraphs {
		if t.cfg.RedistributeTimestamps {
			segments = append(segments,
				t.redistributor.Redistribute(translations[i], p.Start, p.End, p.Segments)...)
		} else {
			segments = append(segments, pipeline.TranslatedSegment{
				Original:   p.Text,
				Translated: translations[i],
				Start:      p.Start,
				End:        p.End,
			})
		}
	}

	slog.Info("paragraph translation done",
		"paragraphs", len(paragraphs), "segments", len(segments))
	return segments, nil
}
