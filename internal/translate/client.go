package translate

import (
	"context"
	"fmt"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"
)

// Client sends a single text to a text-generation service under a system
// prompt and returns the response verbatim.
type Client interface {
	Translate(ctx context.Context, text, systemPrompt string) (string, error)
	Usage() (inputTokens, outputTokens int64)
}

// OpenAIClient implements Client against the OpenAI chat completions API.
// Token usage is accumulated atomically so translation calls may run
// concurrently.
type OpenAIClient struct {
	client *openai.Client
	model  string

	inputTokens  atomic.Int64
	outputTokens atomic.Int64
}

// NewOpenAIClient creates a client for the given API key and model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Translate sends one chat completion request with the system prompt and
// the text as the single user message, returning the response content.
func (c *OpenAIClient) Translate(ctx context.Context, text, systemPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   4000,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	c.inputTokens.Add(int64(resp.Usage.PromptTokens))
	c.outputTokens.Add(int64(resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

// Usage returns the accumulated input and output token counts.
func (c *OpenAIClient) Usage() (int64, int64) {
	return c.inputTokens.Load(), c.outputTokens.Load()
}
