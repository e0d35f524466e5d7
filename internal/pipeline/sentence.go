package pipeline

import (
	"strings"
	"unicode"
)

// sentenceEndings are the terminal punctuation sequences that mark a
// complete sentence, optionally followed by a closing quote.
var sentenceEndings = []string{
	".", "!", "?", "。", "！", "？", // . ! ? 。！？
	".\"", "!\"", "?\"", "。\"", "！\"", "？\"",
	".'", "!'", "?'", "。'", "！'", "？'",
}

// continuationWords are coordinating conjunctions and relative pronouns
// that indicate the next fragment continues the current sentence.
var continuationWords = map[string]struct{}{
	"but": {}, "and": {}, "or": {}, "so": {}, "yet": {},
	"because": {}, "although": {}, "though": {}, "while": {},
	"whereas": {}, "since": {}, "unless": {}, "if": {},
	"when": {}, "where": {},
	"which": {}, "that": {}, "who": {}, "whom": {}, "whose": {},
}

// danglingPunctuation marks an incomplete clause when it ends a segment.
var danglingPunctuation = []string{",", ";", ":", "—", "–"} // , ; : — –

// IsSentenceEnd reports whether text ends with sentence-final punctuation,
// optionally followed by a closing quote.
func IsSentenceEnd(text string) bool {
	text = strings.TrimSpace(text)
	for _, ending := range sentenceEndings {
		if strings.HasSuffix(text, ending) {
			return true
		}
	}
	return false
}

// ShouldContinue reports whether nextText reads as a continuation of
// currentText: it starts with a lowercase letter or with a conjunction or
// relative pronoun. A true result suppresses a paragraph break even when
// currentText ends a sentence.
func ShouldContinue(currentText, nextText string) bool {
	next := strings.TrimSpace(nextText)
	if next == "" {
		return false
	}

	for _, r := range next {
		if unicode.IsLower(r) {
			return true
		}
		break
	}

	firstWord := strings.ToLower(strings.Fields(next)[0])
	firstWord = strings.TrimRight(firstWord, ",.;:!?")
	_, ok := continuationWords[firstWord]
	return ok
}

// shouldMergeSegments decides whether two adjacent raw segments belong to
// the same sentence: the current one trails off with dangling punctuation,
// or the next one starts lowercase or with a conjunction/subordinate opener.
func shouldMergeSegments(currentText, nextText string) bool {
	current := strings.TrimRight(currentText, " \t")
	for _, p := range danglingPunctuation {
		if strings.HasSuffix(current, p) {
			return true
		}
	}
	return ShouldContinue(currentText, nextText)
}
