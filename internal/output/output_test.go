package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hemingjun/video-caption-generator/internal/pipeline"
)

func sampleSegments() []pipeline.TranslatedSegment {
	return []pipeline.TranslatedSegment{
		{Original: "Hello world.", Translated: "你好世界。", Start: 0, End: 2.5},
		{Original: "Goodbye.", Translated: "再见。", Start: 3.0, End: 5.125},
	}
}

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{2.5, "00:00:02,500"},
		{65.125, "00:01:05,125"},
		{3661.001, "01:01:01,001"},
		{-1, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := formatSRTTime(tt.seconds); got != tt.want {
			t.Errorf("formatSRTTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatSRT_Bilingual(t *testing.T) {
	got := FormatSRT(sampleSegments(), true)

	want := "1\n00:00:00,000 --> 00:00:02,500\nHello world.\n你好世界。\n\n" +
		"2\n00:00:03,000 --> 00:00:05,125\nGoodbye.\n再见。\n\n"
	if got != want {
		t.Errorf("FormatSRT = %q, want %q", got, want)
	}
}

func TestFormatSRT_TranslationOnly(t *testing.T) {
	got := FormatSRT(sampleSegments(), false)

	if strings.Contains(got, "Hello world.") {
		t.Error("original text present with includeOriginal=false")
	}
	if !strings.Contains(got, "你好世界。") {
		t.Error("translation missing")
	}
}

func TestFormatSRT_EmptyOriginalSkipped(t *testing.T) {
	segments := []pipeline.TranslatedSegment{
		{Original: "", Translated: "只有译文。", Start: 0, End: 2},
	}

	got := FormatSRT(segments, true)
	want := "1\n00:00:00,000 --> 00:00:02,000\n只有译文。\n\n"
	if got != want {
		t.Errorf("FormatSRT = %q, want %q", got, want)
	}
}

func TestFormatSRT_Empty(t *testing.T) {
	if got := FormatSRT(nil, true); got != "" {
		t.Errorf("FormatSRT(nil) = %q, want empty", got)
	}
}

func TestFormatText(t *testing.T) {
	got := FormatText(sampleSegments(), false)
	want := "你好世界。\n再见。"
	if got != want {
		t.Errorf("FormatText = %q, want %q", got, want)
	}

	bilingual := FormatText(sampleSegments(), true)
	if !strings.Contains(bilingual, "Hello world.\n你好世界。") {
		t.Errorf("bilingual FormatText = %q", bilingual)
	}
}

func TestSaveSRT_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "video_zh-cn.srt")

	if err := SaveSRT(sampleSegments(), path, true); err != nil {
		t.Fatalf("SaveSRT: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "1\n00:00:00,000") {
		t.Errorf("file content = %q", data)
	}
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")

	if err := SaveJSON(sampleSegments(), path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var loaded []pipeline.TranslatedSegment
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Translated != "你好世界。" || loaded[1].End != 5.125 {
		t.Errorf("loaded = %+v", loaded)
	}
}
