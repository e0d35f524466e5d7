package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hemingjun/video-caption-generator/internal/config"
	"github.com/hemingjun/video-caption-generator/internal/ffmpeg"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the effective configuration",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fmt.Println("current configuration:")
	fmt.Printf("  model:            %s\n", cfg.OpenAI.Model)
	fmt.Printf("  target language:  %s (%s)\n",
		cfg.Translation.TargetLanguage, config.LanguageName(cfg.Translation.TargetLanguage))
	fmt.Printf("  paragraph mode:   %v\n", cfg.Translation.ParagraphMode)
	fmt.Printf("  silence threshold: %.1fs, paragraph %.1f-%.1fs\n",
		cfg.Translation.ParagraphSilenceThreshold,
		cfg.Translation.ParagraphMinDuration,
		cfg.Translation.ParagraphMaxDuration)
	fmt.Printf("  speech rate:      %.0f chars/min, sentence gap %.1fs\n",
		cfg.Translation.TargetSpeechRate, cfg.Translation.SentenceMinGap)
	fmt.Printf("  output format:    %s\n", cfg.Output.Format)
	fmt.Printf("  temp dir:         %s\n", cfg.Processing.TempDir)

	if ffmpeg.Available() {
		fmt.Println("  ffmpeg:           installed")
	} else {
		fmt.Println("  ffmpeg:           NOT FOUND (install ffmpeg first)")
	}

	if cfg.OpenAI.APIKey != "" {
		fmt.Println("  API key:          configured")
	} else {
		fmt.Println("  API key:          missing (set OPENAI_API_KEY)")
	}
	return nil
}
