package translate

import (
	"fmt"

	"github.com/hemingjun/video-caption-generator/internal/config"
)

// paragraphSystemPrompt builds the duration-aware instruction for one
// paragraph. The character budget converts the paragraph's spoken duration
// to a target length at the configured speech rate.
func paragraphSystemPrompt(sourceLang, targetLang string, durationSec, speechRate float64) string {
	targetName := config.LanguageName(targetLang)
	charBudget := int(durationSec * speechRate / 60)

	return fmt.Sprintf(`You are a professional translator specializing in video subtitles.
Translate the following paragraph from %s to %s.

This is one coherent paragraph of speech spoken over %.1f seconds. Aim for
a translation of roughly %d characters so it can be read at a natural pace.

Requirements:
1. Translate the paragraph as a whole with natural phrasing, not sentence by sentence
2. Maintain the original meaning and tone
3. Preserve proper nouns and technical terms appropriately
4. Respond with the translated text only, no explanations, no JSON, no metadata`,
		config.LanguageName(sourceLang), targetName, durationSec, charBudget)
}

// batchSystemPrompt builds the instruction for traditional batch mode,
// where segment texts are joined with batchDelimiter.
func batchSystemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf(`You are a professional translator specializing in video subtitles.
Translate the following text segments from %s to %s.

The segments are separated by the delimiter "---" on its own line.

Requirements:
1. Maintain the original meaning and tone
2. Keep translations concise for subtitle display
3. Preserve proper nouns and technical terms appropriately
4. Return the translations in the exact same order, separated by the same delimiter
5. Respond with the translated segments only, no explanations`,
		config.LanguageName(sourceLang), config.LanguageName(targetLang))
}
