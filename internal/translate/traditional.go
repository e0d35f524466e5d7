package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hemingjun/video-caption-generator/internal/config"
	"github.com/hemingjun/video-caption-generator/internal/pipeline"
)

// batchDelimiter separates segment texts within one batch request and is
// expected back unchanged in the response.
const batchDelimiter = "\n---\n"

// TraditionalTranslator is the non-paragraph fallback mode: it merges
// incomplete raw segments, batches them, and translates each batch in one
// call. When a batch's translation count does not match its input count,
// it recovers with the alignment heuristic instead of failing.
type TraditionalTranslator struct {
	client Client
	cfg    config.TranslationConfig
	retry  RetryPolicy
}

// NewTraditionalTranslator wires a batch translator from the translation config.
func NewTraditionalTranslator(client Client, cfg config.TranslationConfig, retry RetryPolicy) *TraditionalTranslator {
	return &TraditionalTranslator{client: client, cfg: cfg, retry: retry}
}

// Translate merges, batches, and translates segments sequentially,
// preserving input order. A batch whose call fails after retries aborts
// the run with its index.
func (t *TraditionalTranslator) Translate(ctx context.Context, segments []pipeline.TimedSegment, sourceLang string) ([]pipeline.TranslatedSegment, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	merged := pipeline.MergeIncompleteSegments(segments)
	slog.Info("merged incomplete segments",
		"before", len(segments), "after", len(merged))

	batchSize := t.cfg.BatchSize
	if batchSize < 1 {
		batchSize = 10
	}

	var result []pipeline.TranslatedSegment
	batchIndex := 0

	for i := 0; i < len(merged); i += batchSize {
		end := i + batchSize
		if end > len(merged) {
			end = len(merged)
		}
		batch := merged[i:end]

		translated, err := t.translateBatch(ctx, batch, sourceLang)
		if err != nil {
			return nil, &TranslationError{
				SourceLang: sourceLang,
				TargetLang: t.cfg.TargetLanguage,
				Unit:       "batch",
				Index:      batchIndex,
				Err:        err,
			}
		}
		result = append(result, translated...)
		batchIndex++
	}

	slog.Info("translation done", "segments", len(result))
	return result, nil
}

func (t *TraditionalTranslator) translateBatch(ctx context.Context, batch []pipeline.TimedSegment, sourceLang string) ([]pipeline.TranslatedSegment, error) {
	texts := make([]string, len(batch))
	for i, seg := range batch {
		texts[i] = seg.Text
	}
	combined := strings.Join(texts, batchDelimiter)
	prompt := batchSystemPrompt(sourceLang, t.cfg.TargetLanguage)

	var response string
	err := t.retry.Do(ctx, func() error {
		var err error
		response, err = t.client.Translate(ctx, combined, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	translations := splitBatchResponse(response)

	if len(translations) != len(batch) {
		// Recoverable mismatch: reconcile heuristically, never fail.
		slog.Warn("translation count mismatch, using intelligent alignment",
			"expected", len(batch), "got", len(translations))
		aligned := pipeline.AlignTranslations(batch, translations)
		return fillMissing(batch, aligned), nil
	}

	result := make([]pipeline.TranslatedSegment, len(batch))
	for i, seg := range batch {
		result[i] = pipeline.TranslatedSegment{
			Original:   seg.Text,
			Translated: translations[i],
			Start:      seg.Start,
			End:        seg.End,
		}
	}
	return result, nil
}

// splitBatchResponse splits a batch response on the delimiter, tolerating
// surrounding whitespace variations, and drops empty parts.
func splitBatchResponse(response string) []string {
	parts := strings.Split(response, "---")
	var translations []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			translations = append(translations, p)
		}
	}
	return translations
}

// fillMissing appends untranslated fallback segments for originals the
// alignment could not cover, so a short response degrades to source text
// instead of dropping speech silently.
func fillMissing(batch []pipeline.TimedSegment, aligned []pipeline.TranslatedSegment) []pipeline.TranslatedSegment {
	if len(aligned) == 0 {
		out := make([]pipeline.TranslatedSegment, len(batch))
		for i, seg := range batch {
			out[i] = pipeline.TranslatedSegment{
				Original:   seg.Text,
				Translated: seg.Text,
				Start:      seg.Start,
				End:        seg.End,
			}
		}
		slog.Warn("batch produced no usable translations, keeping original text",
			"segments", len(batch))
		return out
	}
	return aligned
}
