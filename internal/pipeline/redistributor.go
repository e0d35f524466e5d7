package pipeline

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// minFragmentDuration is the floor applied to every allocated fragment.
	minFragmentDuration = 0.5

	// longSentenceRunes triggers comma splitting of an over-long sentence.
	longSentenceRunes = 50

	// commaGroupRunes caps the size of re-accumulated comma sub-fragments.
	commaGroupRunes = 30
)

// RedistributorConfig holds the duration-weighting parameters.
type RedistributorConfig struct {
	SentenceMinGap   float64            // minimum pause between fragments, seconds
	TargetSpeechRate float64            // assumed spoken pace, characters per minute
	PauseWeights     map[string]float64 // punctuation mark -> pause weight
}

// DefaultPauseWeights returns the stock punctuation pause weights.
func DefaultPauseWeights() map[string]float64 {
	return map[string]float64{
		"。": 1.0, "！": 1.0, "？": 1.0,
		"，": 0.5, "；": 0.7,
		"…": 0.8,
		".": 1.0, "!": 1.0, "?": 1.0,
		",": 0.5, ";": 0.7,
	}
}

// DefaultRedistributorConfig returns the stock weighting parameters.
func DefaultRedistributorConfig() RedistributorConfig {
	return RedistributorConfig{
		SentenceMinGap:   0.5,
		TargetSpeechRate: 240,
		PauseWeights:     DefaultPauseWeights(),
	}
}

// sentenceInfo carries per-fragment weighting data during one
// redistribution call.
type sentenceInfo struct {
	text        string
	charCount   int
	punctuation string
	weight      float64 // estimated spoken duration, seconds
}

// TimestampRedistributor re-assigns start/end times to a translated
// paragraph's text, proportional to estimated spoken duration. It is a
// pure computation: identical inputs always yield identical output.
type TimestampRedistributor struct {
	cfg RedistributorConfig
}

// NewTimestampRedistributor creates a redistributor with the given configuration.
func NewTimestampRedistributor(cfg RedistributorConfig) *TimestampRedistributor {
	if cfg.PauseWeights == nil {
		cfg.PauseWeights = DefaultPauseWeights()
	}
	return &TimestampRedistributor{cfg: cfg}
}

// Redistribute splits translatedText into sentences/clauses and allocates
// the [windowStart, windowEnd] span across them by weight. originalSegments
// is an extension point for key-point alignment and is currently a
// passthrough.
func (r *TimestampRedistributor) Redistribute(
	translatedText string,
	windowStart, windowEnd float64,
	originalSegments []TimedSegment,
) []TranslatedSegment {
	totalDuration := windowEnd - windowStart
	slog.Debug("redistributing timestamps",
		"window_sec", totalDuration,
		"text_runes", utf8.RuneCountInString(translatedText))

	sentences := splitIntoSentences(translatedText)
	if len(sentences) == 0 {
		return nil
	}

	infos := r.analyzeSentences(sentences)
	segments := r.allocate(infos, windowStart, totalDuration)

	// Key-point alignment against originalSegments is a placeholder: the
	// redistributed result is returned unchanged.
	_ = originalSegments

	return segments
}

var sentenceEndRe = regexp.MustCompile(`[。！？.!?]+`)

// splitIntoSentences splits on sentence-ending punctuation, keeping the
// punctuation attached to the preceding fragment. Fragments longer than
// longSentenceRunes are further split on commas.
func splitIntoSentences(text string) []string {
	var sentences []string

	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[last:loc[0]])
		if s != "" {
			sentences = append(sentences, s+text[loc[0]:loc[1]])
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		sentences = append(sentences, tail)
	}

	var final []string
	for _, s := range sentences {
		if utf8.RuneCountInString(s) > longSentenceRunes {
			final = append(final, splitByComma(s)...)
		} else {
			final = append(final, s)
		}
	}
	return final
}

var commaRe = regexp.MustCompile(`[，,]`)

// splitByComma breaks a long sentence on commas and re-accumulates the
// pieces into sub-fragments of at most about commaGroupRunes runes, so no
// sub-fragment is too short to carry timing meaningfully. The original
// sentence-ending punctuation goes on the final sub-fragment only; the
// others keep a trailing comma.
func splitByComma(sentence string) []string {
	if utf8.RuneCountInString(sentence) < longSentenceRunes ||
		!strings.ContainsAny(sentence, "，,") {
		return []string{sentence}
	}

	ending := ""
	for _, e := range []string{"。", "！", "？", ".", "!", "?"} {
		if strings.HasSuffix(sentence, e) {
			ending = e
			sentence = strings.TrimSuffix(sentence, e)
			break
		}
	}

	var groups []string
	current := ""

	for _, part := range commaRe.Split(sentence, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case current == "":
			current = part
		case utf8.RuneCountInString(current)+utf8.RuneCountInString(part) < commaGroupRunes:
			current += "，" + part
		default:
			groups = append(groups, current+"，")
			current = part
		}
	}
	if current != "" {
		groups = append(groups, current+ending)
	}

	if len(groups) == 0 {
		return []string{sentence + ending}
	}
	return groups
}

// countWordRunes counts letters, digits, and underscores, skipping
// punctuation and whitespace.
func countWordRunes(text string) int {
	count := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			count++
		}
	}
	return count
}

func (r *TimestampRedistributor) analyzeSentences(sentences []string) []sentenceInfo {
	infos := make([]sentenceInfo, 0, len(sentences))

	for _, sentence := range sentences {
		charCount := countWordRunes(sentence)

		// First weighted punctuation mark scanning from the end.
		punctuation := ""
		runes := []rune(sentence)
		for i := len(runes) - 1; i >= 0; i-- {
			if _, ok := r.cfg.PauseWeights[string(runes[i])]; ok {
				punctuation = string(runes[i])
				break
			}
		}

		baseWeight := float64(charCount) / r.cfg.TargetSpeechRate * 60
		pauseWeight, ok := r.cfg.PauseWeights[punctuation]
		if !ok {
			pauseWeight = 0.5
		}

		info := sentenceInfo{
			text:        sentence,
			charCount:   charCount,
			punctuation: punctuation,
			weight:      baseWeight + pauseWeight*r.cfg.SentenceMinGap,
		}
		infos = append(infos, info)

		slog.Debug("sentence weighted",
			"chars", info.charCount,
			"punctuation", info.punctuation,
			"weight_sec", info.weight)
	}

	return infos
}

// allocate assigns each fragment a share of the window proportional to its
// weight, with a minFragmentDuration floor, SentenceMinGap between
// fragments, the remainder going to the last fragment, and the final end
// clamped to the window.
func (r *TimestampRedistributor) allocate(
	infos []sentenceInfo,
	startTime, totalDuration float64,
) []TranslatedSegment {
	totalWeight := 0.0
	for _, info := range infos {
		totalWeight += info.weight
	}

	minGapsDuration := r.cfg.SentenceMinGap * float64(len(infos)-1)
	availableDuration := totalDuration - minGapsDuration
	gap := r.cfg.SentenceMinGap

	if availableDuration <= 0 {
		// Not enough time for the requested inter-sentence gaps: degrade
		// to the full window with zero gaps.
		slog.Warn("window too short for sentence gaps",
			"window_sec", totalDuration,
			"gaps_sec", minGapsDuration)
		availableDuration = totalDuration
		gap = 0
	}

	segments := make([]TranslatedSegment, 0, len(infos))
	current := startTime

	for i, info := range infos {
		var duration float64
		if i == len(infos)-1 {
			// Last fragment absorbs rounding drift exactly.
			duration = (startTime + totalDuration) - current
		} else {
			duration = (info.weight / totalWeight) * availableDuration
		}
		if duration < minFragmentDuration {
			duration = minFragmentDuration
		}

		seg := TranslatedSegment{
			Original:   "", // paragraph mode does not track per-fragment originals
			Translated: info.text,
			Start:      current,
			End:        current + duration,
		}
		segments = append(segments, seg)

		current = seg.End
		if i < len(infos)-1 {
			current += gap
		}
	}

	if last := len(segments) - 1; last >= 0 && segments[last].End > startTime+totalDuration {
		segments[last].End = startTime + totalDuration
	}

	return segments
}
