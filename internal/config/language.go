package config

import "strings"

// languageNames maps language codes to the names used in translation prompts.
var languageNames = map[string]string{
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
	"zh":    "Chinese",
	"en":    "English",
	"ja":    "Japanese",
	"ko":    "Korean",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"ru":    "Russian",
	"ar":    "Arabic",
	"pt":    "Portuguese",
	"it":    "Italian",
	"nl":    "Dutch",
	"pl":    "Polish",
	"tr":    "Turkish",
	"vi":    "Vietnamese",
	"th":    "Thai",
	"id":    "Indonesian",
	"ms":    "Malay",
	"hi":    "Hindi",
}

// LanguageName returns the display name for a language code, or the code
// itself when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
