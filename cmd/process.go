package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hemingjun/video-caption-generator/internal/config"
	"github.com/hemingjun/video-caption-generator/internal/ffmpeg"
	"github.com/hemingjun/video-caption-generator/internal/worker"
)

var processCmd = &cobra.Command{
	Use:   "process <video-file>",
	Short: "Generate translated subtitles for a video (full pipeline)",
	Long: `Process runs the full pipeline on one video: audio extraction, speech
recognition, paragraph-aware translation, timestamp redistribution, and
subtitle file output.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

var (
	targetLang    string
	outputFormat  string
	outputDir     string
	saveJSON      bool
	resume        bool
	noParagraph   bool
	maxConcurrent int
	batchSize     int

	// Paragraph tuning flags.
	silenceThreshold float64
	maxParaDuration  float64
	minParaDuration  float64
	noRedistribute   bool
	sentenceMinGap   float64
	speechRate       float64
)

func init() {
	defaults := config.Default()

	processCmd.Flags().StringVarP(&targetLang, "lang", "l", defaults.Translation.TargetLanguage, "target language code")
	processCmd.Flags().StringVarP(&outputFormat, "format", "f", defaults.Output.Format, "output format: srt, text, both")
	processCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: video directory)")
	processCmd.Flags().BoolVar(&saveJSON, "save-json", false, "also save translated segments as JSON")
	processCmd.Flags().BoolVar(&resume, "resume", false, "resume from a saved checkpoint if available")
	processCmd.Flags().BoolVar(&noParagraph, "no-paragraph", false, "disable paragraph mode (batch translation)")
	processCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.Translation.MaxConcurrent, "max concurrent translation calls")
	processCmd.Flags().IntVar(&batchSize, "batch-size", defaults.Translation.BatchSize, "segments per batch in traditional mode")

	// Paragraph tuning flags.
	processCmd.Flags().Float64Var(&silenceThreshold, "silence-threshold", defaults.Translation.ParagraphSilenceThreshold, "silence gap that splits paragraphs, seconds")
	processCmd.Flags().Float64Var(&maxParaDuration, "max-paragraph", defaults.Translation.ParagraphMaxDuration, "maximum paragraph duration, seconds")
	processCmd.Flags().Float64Var(&minParaDuration, "min-paragraph", defaults.Translation.ParagraphMinDuration, "minimum paragraph duration, seconds")
	processCmd.Flags().BoolVar(&noRedistribute, "no-redistribute", false, "keep paragraph-level timestamps instead of redistributing")
	processCmd.Flags().Float64Var(&sentenceMinGap, "sentence-gap", defaults.Translation.SentenceMinGap, "minimum gap between redistributed sentences, seconds")
	processCmd.Flags().Float64Var(&speechRate, "speech-rate", defaults.Translation.TargetSpeechRate, "target speech rate, characters per minute")

	rootCmd.AddCommand(processCmd)
}

func resolveVideoPath(arg string) (string, error) {
	absPath, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", arg)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	if !ffmpeg.IsVideoExtension(ext) && !isAudioExtension(ext) {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	return absPath, nil
}

func isAudioExtension(ext string) bool {
	switch ext {
	case ".mp3", ".m4a", ".wav", ".flac", ".ogg", ".aac":
		return true
	}
	return false
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputPath, err := resolveVideoPath(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags the user actually set override the config file.
	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Translation.TargetLanguage = targetLang
	}
	if noParagraph {
		cfg.Translation.ParagraphMode = false
	}
	if noRedistribute {
		cfg.Translation.RedistributeTimestamps = false
	}
	if flags.Changed("max-concurrent") {
		cfg.Translation.MaxConcurrent = maxConcurrent
	}
	if flags.Changed("batch-size") {
		cfg.Translation.BatchSize = batchSize
	}
	if flags.Changed("silence-threshold") {
		cfg.Translation.ParagraphSilenceThreshold = silenceThreshold
	}
	if flags.Changed("max-paragraph") {
		cfg.Translation.ParagraphMaxDuration = maxParaDuration
	}
	if flags.Changed("min-paragraph") {
		cfg.Translation.ParagraphMinDuration = minParaDuration
	}
	if flags.Changed("sentence-gap") {
		cfg.Translation.SentenceMinGap = sentenceMinGap
	}
	if flags.Changed("speech-rate") {
		cfg.Translation.TargetSpeechRate = speechRate
	}

	// Graceful cancellation: stop dispatching new translation calls on
	// SIGINT/SIGTERM, let in-flight calls finish or time out.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format := cfg.Output.Format
	if flags.Changed("format") {
		format = outputFormat
	}

	opts := worker.Options{
		InputPath: inputPath,
		OutputDir: outputDir,
		Format:    format,
		SaveJSON:  saveJSON,
		Resume:    resume,
		Config:    cfg,
	}

	if err := worker.Run(ctx, opts); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done")
	}
	return nil
}
