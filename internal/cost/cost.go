// Package cost computes API usage costs for the run summary.
package cost

import (
	"fmt"

	"github.com/hemingjun/video-caption-generator/internal/config"
)

// Calculator prices Whisper audio minutes and chat-model tokens.
type Calculator struct {
	pricing config.PricingConfig
}

// NewCalculator creates a calculator from the pricing configuration.
func NewCalculator(pricing config.PricingConfig) *Calculator {
	return &Calculator{pricing: pricing}
}

// WhisperCost returns the transcription cost in dollars for the given
// audio duration.
func (c *Calculator) WhisperCost(durationSec float64) float64 {
	return durationSec / 60 * c.pricing.WhisperPerMinute
}

// ChatCost returns the translation cost in dollars for the given token counts.
func (c *Calculator) ChatCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * c.pricing.InputPerMillionTokens
	outputCost := float64(outputTokens) / 1_000_000 * c.pricing.OutputPerMillionTokens
	return inputCost + outputCost
}

// Summary formats a cost breakdown for display.
func (c *Calculator) Summary(durationSec float64, inputTokens, outputTokens int64) string {
	whisper := c.WhisperCost(durationSec)
	chat := c.ChatCost(inputTokens, outputTokens)

	return fmt.Sprintf(
		"API cost summary (prices as of %s):\n"+
			"  transcription: %.1f min x $%.3f/min = $%.3f\n"+
			"  translation:   %d input + %d output tokens = $%.3f\n"+
			"  total:         $%.3f",
		c.pricing.LastUpdated,
		durationSec/60, c.pricing.WhisperPerMinute, whisper,
		inputTokens, outputTokens, chat,
		whisper+chat)
}
