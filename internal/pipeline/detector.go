package pipeline

import (
	"log/slog"
	"strings"
)

// DetectorConfig holds the paragraph boundary parameters.
type DetectorConfig struct {
	SilenceThreshold float64 // seconds of silence that force a break
	MaxDuration      float64 // hard cap on paragraph length
	MinDuration      float64 // paragraphs shorter than this are absorbed/merged
}

// DefaultDetectorConfig returns the stock boundary parameters.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SilenceThreshold: 1.5,
		MaxDuration:      30.0,
		MinDuration:      3.0,
	}
}

// ParagraphDetector groups timed segments into semantically coherent
// paragraphs using silence gaps, duration caps, and sentence boundaries.
type ParagraphDetector struct {
	cfg DetectorConfig
}

// NewParagraphDetector creates a detector with the given configuration.
func NewParagraphDetector(cfg DetectorConfig) *ParagraphDetector {
	return &ParagraphDetector{cfg: cfg}
}

func buildParagraph(segments []TimedSegment) Paragraph {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return Paragraph{
		Segments: segments,
		Start:    segments[0].Start,
		End:      segments[len(segments)-1].End,
		Text:     strings.Join(texts, " "),
	}
}

// DetectParagraphs walks the segments left to right, closing the current
// run at the last segment, at a silence gap >= SilenceThreshold, at an
// accumulated duration >= MaxDuration, or at a sentence boundary once the
// run has reached MinDuration and the next segment is not a continuation.
// A closed run shorter than MinDuration is not emitted unless it is the
// final one; the run keeps accumulating instead (short-paragraph
// absorption). Empty input yields empty output.
func (d *ParagraphDetector) DetectParagraphs(segments []TimedSegment) []Paragraph {
	if len(segments) == 0 {
		return nil
	}

	slog.Debug("detecting paragraphs", "segments", len(segments))

	var paragraphs []Paragraph
	var run []TimedSegment
	runStart := segments[0].Start

	for i, seg := range segments {
		run = append(run, seg)

		isLast := i == len(segments)-1
		closeRun := isLast

		if !isLast {
			next := segments[i+1]

			if gap := next.Start - seg.End; gap >= d.cfg.SilenceThreshold {
				slog.Debug("silence gap", "gap_sec", gap, "at_sec", seg.End)
				closeRun = true
			}

			runDuration := seg.End - runStart
			if runDuration >= d.cfg.MaxDuration {
				slog.Debug("paragraph at max duration", "duration_sec", runDuration)
				closeRun = true
			}

			if IsSentenceEnd(seg.Text) && runDuration >= d.cfg.MinDuration &&
				!ShouldContinue(seg.Text, next.Text) {
				closeRun = true
			}
		}

		if !closeRun {
			continue
		}

		p := buildParagraph(append([]TimedSegment(nil), run...))

		if p.Duration() >= d.cfg.MinDuration || isLast {
			paragraphs = append(paragraphs, p)
			run = nil
			if !isLast {
				runStart = segments[i+1].Start
			}
		}
		// Otherwise the run is too short: keep accumulating into it.
	}

	slog.Debug("paragraph detection done", "paragraphs", len(paragraphs))
	return paragraphs
}

// MergeShortParagraphs makes a single forward pass merging any paragraph
// shorter than MinDuration into its immediate successor, provided the
// combined duration stays within MaxDuration. The pass is not iterated to
// convergence: each short paragraph merges at most once.
func (d *ParagraphDetector) MergeShortParagraphs(paragraphs []Paragraph) []Paragraph {
	if len(paragraphs) == 0 {
		return paragraphs
	}

	var merged []Paragraph
	i := 0

	for i < len(paragraphs) {
		current := paragraphs[i]

		if current.Duration() < d.cfg.MinDuration && i < len(paragraphs)-1 {
			next := paragraphs[i+1]
			if next.End-current.Start <= d.cfg.MaxDuration {
				segments := make([]TimedSegment, 0, len(current.Segments)+len(next.Segments))
				segments = append(segments, current.Segments...)
				segments = append(segments, next.Segments...)

				combined := Paragraph{
					Segments: segments,
					Start:    current.Start,
					End:      next.End,
					Text:     current.Text + " " + next.Text,
				}
				merged = append(merged, combined)

				slog.Debug("merged short paragraph",
					"first_sec", current.Duration(),
					"second_sec", next.Duration(),
					"combined_sec", combined.Duration())

				i += 2
				continue
			}
		}

		merged = append(merged, current)
		i++
	}

	return merged
}
