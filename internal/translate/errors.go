package translate

import "fmt"

// TranslationError tags a failed translation call with its language pair
// and the index of the paragraph or batch that failed.
type TranslationError struct {
	SourceLang string
	TargetLang string
	Unit       string // "paragraph" or "batch"
	Index      int
	Err        error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %s %d (%s -> %s): %v",
		e.Unit, e.Index, e.SourceLang, e.TargetLang, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}
