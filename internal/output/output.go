// Package output writes translated segments as SRT, plain text, and JSON.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hemingjun/video-caption-generator/internal/pipeline"
)

// formatSRTTime converts seconds to SRT time format HH:MM:SS,mmm.
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int(seconds*1000 + 0.5)
	hours := totalMillis / 3600000
	minutes := (totalMillis % 3600000) / 60000
	secs := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// FormatSRT renders segments as an SRT document. With includeOriginal,
// each block carries the original text above the translation.
func FormatSRT(segments []pipeline.TranslatedSegment, includeOriginal bool) string {
	if len(segments) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n",
			i+1, formatSRTTime(seg.Start), formatSRTTime(seg.End))

		if includeOriginal && seg.Original != "" {
			sb.WriteString(seg.Original)
			sb.WriteByte('\n')
		}
		sb.WriteString(seg.Translated)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// FormatText renders segments as plain text, one translation per line,
// optionally interleaved with the originals.
func FormatText(segments []pipeline.TranslatedSegment, includeOriginal bool) string {
	if len(segments) == 0 {
		return ""
	}

	var lines []string
	for _, seg := range segments {
		if includeOriginal && seg.Original != "" {
			lines = append(lines, seg.Original, seg.Translated, "")
		} else {
			lines = append(lines, seg.Translated)
		}
	}
	return strings.Join(lines, "\n")
}

// SaveSRT writes the SRT document to path, creating parent directories.
func SaveSRT(segments []pipeline.TranslatedSegment, path string, includeOriginal bool) error {
	return save(path, FormatSRT(segments, includeOriginal), "SRT")
}

// SaveText writes the plain-text document to path.
func SaveText(segments []pipeline.TranslatedSegment, path string, includeOriginal bool) error {
	return save(path, FormatText(segments, includeOriginal), "text")
}

// SaveJSON writes the segments as indented JSON to path.
func SaveJSON(segments []pipeline.TranslatedSegment, path string) error {
	data, err := json.MarshalIndent(segments, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	return save(path, string(data), "JSON")
}

func save(path, content, kind string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}
	slog.Info(kind+" file saved", "path", path)
	return nil
}
