package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hemingjun/video-caption-generator/internal/config"
	"github.com/hemingjun/video-caption-generator/internal/ffmpeg"
)

var extractCmd = &cobra.Command{
	Use:   "extract <video-file>",
	Short: "Extract the audio track from a video",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractOutput     string
	extractSampleRate int
)

func init() {
	defaults := config.Default()

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output audio path (default: <input>.wav)")
	extractCmd.Flags().IntVarP(&extractSampleRate, "sample-rate", "r", defaults.Processing.SampleRate, "output sample rate in Hz")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}
	if !ffmpeg.IsVideoExtension(filepath.Ext(inputPath)) {
		return fmt.Errorf("unsupported video format: %s", filepath.Ext(inputPath))
	}

	outputPath := extractOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".wav"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ffmpeg.ExtractAudio(ctx, inputPath, outputPath, extractSampleRate); err != nil {
		return err
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}
	fmt.Printf("audio extracted: %s (%.1f MB, %d Hz)\n",
		outputPath, float64(stat.Size())/(1024*1024), extractSampleRate)

	if info, err := ffmpeg.ProbeMedia(ctx, outputPath); err == nil {
		fmt.Printf("duration: %.1fs, codec: %s\n", info.Duration, info.Codec)
	}
	return nil
}
