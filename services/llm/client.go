// Package llm wraps the hosted OpenAI-compatible completion API (Groq).
package llm

import (
	"context"
	"errors"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zukkoai/zukko-school/services"
)

const defaultTemperature = 0.7

// Client streams chat completions. It implements services.Completer.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// New builds a client for the given endpoint. Returns nil when apiKey is
// empty so callers can treat chat as unconfigured.
func New(apiKey, baseURL, model string, maxTokens int) *Client {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// StreamCompletion sends the persona system prompt plus the running history
// and assembles the reply from streamed fragments in arrival order. A stream
// that ends without fragments yields an empty reply, not an error.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt string, history []services.Message, onDelta func(string)) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: defaultTemperature,
		MaxTokens:   c.maxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		reply.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return reply.String(), nil
}
