// Package checkpoint persists pipeline progress so an interrupted run can
// resume from the last completed stage.
package checkpoint

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stage names for the processing pipeline.
const (
	StageExtracted   = "extracted"
	StageTranscribed = "transcribed"
	StageTranslated  = "translated"
)

// Checkpoint is one saved progress record.
type Checkpoint struct {
	VideoPath string          `json:"video_path"`
	Timestamp time.Time       `json:"timestamp"`
	Stage     string          `json:"stage"`
	Progress  float64         `json:"progress"`
	State     json.RawMessage `json:"state"`
}

// Manager stores checkpoints as JSON files under a directory.
type Manager struct {
	dir string
}

// NewManager creates a manager rooted at dir (default ".checkpoints").
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = ".checkpoints"
	}
	return &Manager{dir: dir}
}

// pathFor derives the checkpoint filename from the video path: the stem
// plus a short hash of the absolute path, so special characters in paths
// cannot break the filename.
func (m *Manager) pathFor(videoPath string) string {
	abs, err := filepath.Abs(videoPath)
	if err != nil {
		abs = videoPath
	}
	sum := md5.Sum([]byte(abs))
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(m.dir, fmt.Sprintf("%s_%x.json", stem, sum[:4]))
}

// Save writes a checkpoint for videoPath. Failures are logged, not fatal:
// losing a checkpoint must never fail the run.
func (m *Manager) Save(videoPath, stage string, progress float64, state any) {
	stateData, err := json.Marshal(state)
	if err != nil {
		slog.Warn("checkpoint state marshal failed", "err", err)
		return
	}

	abs, err := filepath.Abs(videoPath)
	if err != nil {
		abs = videoPath
	}

	cp := Checkpoint{
		VideoPath: abs,
		Timestamp: time.Now(),
		Stage:     stage,
		Progress:  progress,
		State:     stateData,
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		slog.Warn("checkpoint marshal failed", "err", err)
		return
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		slog.Warn("checkpoint dir create failed", "err", err)
		return
	}

	path := m.pathFor(videoPath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Warn("checkpoint save failed", "path", path, "err", err)
		return
	}
	slog.Debug("checkpoint saved", "path", path, "stage", stage)
}

// Load returns the checkpoint for videoPath, or nil if none exists.
func (m *Manager) Load(videoPath string) (*Checkpoint, error) {
	data, err := os.ReadFile(m.pathFor(videoPath))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return &cp, nil
}

// Clear removes the checkpoint for videoPath, if any.
func (m *Manager) Clear(videoPath string) {
	path := m.pathFor(videoPath)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Debug("checkpoint remove failed", "path", path, "err", err)
	}
}
