package pipeline

import (
	"strings"
	"testing"
)

func defaultDetector() *ParagraphDetector {
	return NewParagraphDetector(DefaultDetectorConfig())
}

func TestDetectParagraphs_Empty(t *testing.T) {
	d := defaultDetector()
	if got := d.DetectParagraphs(nil); got != nil {
		t.Errorf("DetectParagraphs(nil) = %v, want nil", got)
	}
}

func TestDetectParagraphs_SilenceGapSplits(t *testing.T) {
	d := NewParagraphDetector(DetectorConfig{
		SilenceThreshold: 1.5,
		MaxDuration:      30.0,
		MinDuration:      1.0,
	})

	segments := []TimedSegment{
		{Text: "A.", Start: 0, End: 1},
		{Text: "B.", Start: 3, End: 4}, // gap 2.0 >= 1.5
	}

	paragraphs := d.DetectParagraphs(segments)
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paragraphs))
	}
	if paragraphs[0].Text != "A." || paragraphs[1].Text != "B." {
		t.Errorf("paragraph texts = %q, %q", paragraphs[0].Text, paragraphs[1].Text)
	}
}

func TestDetectParagraphs_SmallGapKeepsTogether(t *testing.T) {
	d := defaultDetector()

	segments := []TimedSegment{
		{Text: "Hello world,", Start: 0, End: 2},
		{Text: "and goodbye.", Start: 2.1, End: 4},
	}

	paragraphs := d.DetectParagraphs(segments)
	if len(paragraphs) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paragraphs))
	}
	p := paragraphs[0]
	if p.Text != "Hello world, and goodbye." {
		t.Errorf("Text = %q", p.Text)
	}
	if p.Start != 0 || p.End != 4 {
		t.Errorf("span = [%v, %v], want [0, 4]", p.Start, p.End)
	}
}

func TestDetectParagraphs_MaxDurationForcesBreak(t *testing.T) {
	d := NewParagraphDetector(DetectorConfig{
		SilenceThreshold: 100, // never triggers
		MaxDuration:      10.0,
		MinDuration:      1.0,
	})

	// Continuous speech with no sentence endings.
	segments := []TimedSegment{
		{Text: "part one", Start: 0, End: 5},
		{Text: "part two", Start: 5, End: 11}, // run hits 11s >= 10s here
		{Text: "part three", Start: 11, End: 15},
	}

	paragraphs := d.DetectParagraphs(segments)
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paragraphs))
	}
	if paragraphs[0].End != 11 {
		t.Errorf("first paragraph end = %v, want 11", paragraphs[0].End)
	}
}

func TestDetectParagraphs_SentenceBoundaryWithContinuation(t *testing.T) {
	d := NewParagraphDetector(DetectorConfig{
		SilenceThreshold: 100,
		MaxDuration:      100,
		MinDuration:      1.0,
	})

	// First segment ends a sentence past min duration, but the next one
	// starts with a conjunction, so the break is suppressed.
	segments := []TimedSegment{
		{Text: "It was finished.", Start: 0, End: 5},
		{Text: "But not really.", Start: 5.2, End: 8},
		{Text: "Entirely new thought.", Start: 8.2, End: 12},
	}

	paragraphs := d.DetectParagraphs(segments)
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paragraphs))
	}
	if want := "It was finished. But not really."; paragraphs[0].Text != want {
		t.Errorf("first paragraph = %q, want %q", paragraphs[0].Text, want)
	}
}

func TestDetectParagraphs_ShortRunAbsorbed(t *testing.T) {
	d := NewParagraphDetector(DetectorConfig{
		SilenceThreshold: 1.5,
		MaxDuration:      30.0,
		MinDuration:      3.0,
	})

	// The silence gap after the first segment closes a 1s run, which is
	// under the minimum, so it keeps accumulating instead of emitting.
	segments := []TimedSegment{
		{Text: "Short.", Start: 0, End: 1},
		{Text: "Then more speech here.", Start: 3, End: 8},
	}

	paragraphs := d.DetectParagraphs(segments)
	if len(paragraphs) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paragraphs))
	}
	if paragraphs[0].Start != 0 || paragraphs[0].End != 8 {
		t.Errorf("span = [%v, %v], want [0, 8]", paragraphs[0].Start, paragraphs[0].End)
	}
}

// All segments must be preserved, in order, with no duplicates or drops,
// and every paragraph's span must match its segments.
func TestDetectParagraphs_ReconstructsInput(t *testing.T) {
	d := defaultDetector()

	segments := []TimedSegment{
		{Text: "One sentence here.", Start: 0, End: 2},
		{Text: "Another thought,", Start: 2.2, End: 4},
		{Text: "finishing up now.", Start: 4.1, End: 6},
		{Text: "After a long pause.", Start: 10, End: 13},
		{Text: "Final words.", Start: 13.2, End: 15},
	}

	paragraphs := d.DetectParagraphs(segments)

	var flattened []TimedSegment
	for _, p := range paragraphs {
		if len(p.Segments) == 0 {
			t.Fatal("paragraph with no segments")
		}
		if p.Start != p.Segments[0].Start {
			t.Errorf("paragraph start %v != first segment start %v", p.Start, p.Segments[0].Start)
		}
		if p.End != p.Segments[len(p.Segments)-1].End {
			t.Errorf("paragraph end %v != last segment end %v", p.End, p.Segments[len(p.Segments)-1].End)
		}

		texts := make([]string, len(p.Segments))
		for i, s := range p.Segments {
			texts[i] = s.Text
		}
		if p.Text != strings.Join(texts, " ") {
			t.Errorf("paragraph text %q is not the joined segment texts", p.Text)
		}

		flattened = append(flattened, p.Segments...)
	}

	if len(flattened) != len(segments) {
		t.Fatalf("flattened %d segments, want %d", len(flattened), len(segments))
	}
	for i := range segments {
		if flattened[i] != segments[i] {
			t.Errorf("segment %d = %+v, want %+v", i, flattened[i], segments[i])
		}
	}
}

func TestMergeShortParagraphs(t *testing.T) {
	d := NewParagraphDetector(DetectorConfig{
		SilenceThreshold: 1.5,
		MaxDuration:      30.0,
		MinDuration:      3.0,
	})

	paragraphs := []Paragraph{
		{Segments: []TimedSegment{{Text: "Short.", Start: 0, End: 1}}, Start: 0, End: 1, Text: "Short."},
		{Segments: []TimedSegment{{Text: "Long enough paragraph.", Start: 5, End: 10}}, Start: 5, End: 10, Text: "Long enough paragraph."},
	}

	merged := d.MergeShortParagraphs(paragraphs)
	if len(merged) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(merged))
	}
	if merged[0].Start != 0 || merged[0].End != 10 {
		t.Errorf("span = [%v, %v], want [0, 10]", merged[0].Start, merged[0].End)
	}
	if want := "Short. Long enough paragraph."; merged[0].Text != want {
		t.Errorf("text = %q, want %q", merged[0].Text, want)
	}
	if len(merged[0].Segments) != 2 {
		t.Errorf("got %d segments, want 2", len(merged[0].Segments))
	}
}

func TestMergeShortParagraphs_RespectsMaxDuration(t *testing.T) {
	d := NewParagraphDetector(DetectorConfig{
		SilenceThreshold: 1.5,
		MaxDuration:      10.0,
		MinDuration:      3.0,
	})

	// Merging would span 0..12 > 10, so the short paragraph stays.
	paragraphs := []Paragraph{
		{Segments: []TimedSegment{{Text: "Short.", Start: 0, End: 1}}, Start: 0, End: 1, Text: "Short."},
		{Segments: []TimedSegment{{Text: "Long.", Start: 7, End: 12}}, Start: 7, End: 12, Text: "Long."},
	}

	merged := d.MergeShortParagraphs(paragraphs)
	if len(merged) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(merged))
	}
	for _, p := range merged {
		if p.Duration() > 10.0 {
			t.Errorf("merged paragraph duration %v exceeds max", p.Duration())
		}
	}
}

func TestMergeShortParagraphs_LastParagraphKept(t *testing.T) {
	d := defaultDetector()

	paragraphs := []Paragraph{
		{Segments: []TimedSegment{{Text: "Long paragraph here.", Start: 0, End: 10}}, Start: 0, End: 10, Text: "Long paragraph here."},
		{Segments: []TimedSegment{{Text: "Tail.", Start: 12, End: 13}}, Start: 12, End: 13, Text: "Tail."},
	}

	merged := d.MergeShortParagraphs(paragraphs)
	if len(merged) != 2 {
		t.Fatalf("got %d paragraphs, want 2 (last short paragraph is never merged forward)", len(merged))
	}
}
