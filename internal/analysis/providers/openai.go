package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	llm         *openai.LLM
	temperature float32
	maxTokens   int32
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(model string) (*OpenAIProvider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if model == "" {
		model = "gpt-4o"
	}

	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}

	return &OpenAIProvider{
		llm:         llm,
		temperature: 0.7,
		maxTokens:   1024,
	}, nil
}

// Complete implements the Provider interface
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	content, err := toContent(messages)
	if err != nil {
		return "", err
	}

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(int(p.maxTokens)),
		llms.WithTemperature(float64(p.temperature)),
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Content, nil
}

// StreamComplete implements streaming for OpenAI
func (p *OpenAIProvider) StreamComplete(ctx context.Context, messages []Message, onChunk func(string) error) error {
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
		return fmt.Errorf("OpenAI stream failed: %w", err)
	}
	return nil
}

// SetTemperature sets the temperature for completions
func (p *OpenAIProvider) SetTemperature(temp float32) {
	p.temperature = temp
}

// SetMaxTokens sets the max tokens for completions
func (p *OpenAIProvider) SetMaxTokens(tokens int32) {
	p.maxTokens = tokens
}
