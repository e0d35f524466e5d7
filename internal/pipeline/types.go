package pipeline

import "fmt"

// TimedSegment is a single speech-recognition segment with timestamps in seconds.
type TimedSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the segment length in seconds.
func (s TimedSegment) Duration() float64 {
	return s.End - s.Start
}

// ValidateSegments rejects segments with negative time ranges at the
// ingestion boundary. Downstream code assumes End >= Start.
func ValidateSegments(segments []TimedSegment) error {
	for i, seg := range segments {
		if seg.End < seg.Start {
			return fmt.Errorf("segment %d: end %.3f before start %.3f", i, seg.End, seg.Start)
		}
	}
	return nil
}

// Paragraph is a contiguous run of segments grouped for holistic translation.
// Start/End always equal the first segment's start and last segment's end,
// and Text is the space-joined segment texts. Paragraphs are never mutated
// after creation; merging produces a new Paragraph.
type Paragraph struct {
	Segments []TimedSegment
	Start    float64
	End      float64
	Text     string
}

// Duration returns the paragraph length in seconds.
func (p Paragraph) Duration() float64 {
	return p.End - p.Start
}

// TranslatedSegment is the final output unit handed to subtitle writers.
type TranslatedSegment struct {
	Original   string  `json:"original"`
	Translated string  `json:"translated"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}
