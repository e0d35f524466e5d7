package pipeline

import (
	"log/slog"
	"strings"
)

// MergeIncompleteSegments joins raw segments that read as one sentence:
// a segment ending with dangling punctuation, or followed by a fragment
// starting lowercase or with a conjunction/subordinate opener, absorbs its
// successors. The merged segment spans the combined time range with
// space-joined text.
func MergeIncompleteSegments(segments []TimedSegment) []TimedSegment {
	if len(segments) == 0 {
		return segments
	}

	var merged []TimedSegment
	i := 0

	for i < len(segments) {
		current := segments[i]
		text := current.Text
		end := current.End

		j := i + 1
		for j < len(segments) && shouldMergeSegments(text, segments[j].Text) {
			text = text + " " + segments[j].Text
			end = segments[j].End
			j++
		}

		merged = append(merged, TimedSegment{
			Text:  text,
			Start: current.Start,
			End:   end,
		})
		i = j
	}

	return merged
}

// AlignTranslations reconciles a batch whose translation count differs
// from its segment count. It walks both lists with independent cursors:
// whenever the remaining originals outnumber the remaining translations,
// the surplus originals are merged into the current translation's span.
// This is a best-effort heuristic, not a guaranteed-correct alignment;
// leftover originals are dropped with a warning.
func AlignTranslations(segments []TimedSegment, translations []string) []TranslatedSegment {
	var aligned []TranslatedSegment
	segIdx := 0

	for transIdx, translation := range translations {
		if segIdx >= len(segments) {
			slog.Warn("translation has no corresponding original segment",
				"translation_index", transIdx)
			break
		}

		start := segments[segIdx].Start
		end := segments[segIdx].End
		originals := []string{segments[segIdx].Text}

		remainingTranslations := len(translations) - transIdx
		remainingSegments := len(segments) - segIdx

		if remainingSegments > remainingTranslations && segIdx+1 < len(segments) {
			toMerge := remainingSegments - remainingTranslations + 1

			for i := 1; i < toMerge && i < remainingSegments; i++ {
				if segIdx+i < len(segments) {
					originals = append(originals, segments[segIdx+i].Text)
					end = segments[segIdx+i].End
				}
			}
			segIdx += toMerge
		} else {
			segIdx++
		}

		aligned = append(aligned, TranslatedSegment{
			Original:   strings.Join(originals, " "),
			Translated: translation,
			Start:      start,
			End:        end,
		})

		slog.Debug("aligned translation",
			"start", start, "end", end,
			"originals", len(originals))
	}

	if segIdx < len(segments) {
		slog.Warn("original segments left unaligned and dropped",
			"count", len(segments)-segIdx)
	}

	return aligned
}
