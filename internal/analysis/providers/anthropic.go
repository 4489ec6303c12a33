package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/schema"
)

// AnthropicProvider implements the Provider interface for Anthropic models
type AnthropicProvider struct {
	llm         *anthropic.LLM
	temperature float32
	maxTokens   int32
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(model string) (*AnthropicProvider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}
	if model == "" {
		model = "claude-3-5-sonnet-latest"
	}

	llm, err := anthropic.New(
		anthropic.WithModel(model),
		anthropic.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Anthropic model: %w", err)
	}

	return &AnthropicProvider{
		llm:         llm,
		temperature: 0.7,
		maxTokens:   1024,
	}, nil
}

// Complete implements the Provider interface
func (p *AnthropicProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	content, err := toContent(messages)
	if err != nil {
		return "", err
	}

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(int(p.maxTokens)),
		llms.WithTemperature(float64(p.temperature)),
	)
	if err != nil {
		return "", fmt.Errorf("Anthropic completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Anthropic")
	}
	return resp.Choices[0].Content, nil
}

// StreamComplete implements streaming for Anthropic
func (p *AnthropicProvider) StreamComplete(ctx context.Context, messages []Message, onChunk func(string) error) error {
	content, err := toContent(messages)
	if err != nil {
		return err
	}

	_, err = p.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(int(p.maxTokens)),
		llms.WithTemperature(float64(p.temperature)),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return onChunk(string(chunk))
		}),
	)
	if err != nil {
		return fmt.Errorf("Anthropic stream failed: %w", err)
	}
	return nil
}

// SetTemperature sets the temperature for completions
func (p *AnthropicProvider) SetTemperature(temp float32) {
	p.temperature = temp
}

// SetMaxTokens sets the max tokens for completions
func (p *AnthropicProvider) SetMaxTokens(tokens int32) {
	p.maxTokens = tokens
}

// toContent converts portal messages into langchaingo message content.
func toContent(messages []Message) ([]llms.MessageContent, error) {
	content := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			content[i] = llms.TextParts(schema.ChatMessageTypeSystem, msg.Content)
		case "user":
			content[i] = llms.TextParts(schema.ChatMessageTypeHuman, msg.Content)
		case "assistant":
			content[i] = llms.TextParts(schema.ChatMessageTypeAI, msg.Content)
		default:
			return nil, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}
	return content, nil
}
