package analysis

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"inventoryportal/internal/analysis/providers"
	"inventoryportal/internal/tabular"
)

// DefaultMaxChars caps how much of an uploaded file is sent to the model.
const DefaultMaxChars = 12000

// Result is the outcome of one analysis request.
type Result struct {
	Text    string     `json:"text"`
	Table   [][]string `json:"table,omitempty"`
	HasCSV  bool       `json:"hasCsv"`
	RawCSV  string     `json:"-"`
	Charged int        `json:"charsSent"`
}

// Analyzer sends health data files to an LLM provider and interprets the reply.
type Analyzer struct {
	provider providers.Provider
	maxChars int
}

func New(provider providers.Provider, maxChars int) *Analyzer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Analyzer{provider: provider, maxChars: maxChars}
}

// NewProvider builds a provider by name. Supported names are "anthropic",
// "openai" and "azure".
func NewProvider(name, model string) (providers.Provider, error) {
	switch strings.ToLower(name) {
	case "anthropic", "":
		return providers.NewAnthropicProvider(model)
	case "openai":
		return providers.NewOpenAIProvider(model)
	case "azure", "azure-openai":
		return providers.NewAzureOpenAIProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", name)
	}
}

// FileContents extracts a text rendering of an uploaded file. Spreadsheets
// are flattened to comma separated lines; everything else is read as-is.
func FileContents(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xlsx" || ext == ".xls" {
		table, err := tabular.Read(filename, r, 0)
		if err != nil {
			return "", fmt.Errorf("reading spreadsheet: %w", err)
		}
		var b strings.Builder
		b.WriteString(strings.Join(table.Columns, ","))
		b.WriteString("\n")
		for _, row := range table.Rows {
			b.WriteString(strings.Join(row, ","))
			b.WriteString("\n")
		}
		return b.String(), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

// BuildPrompt composes the single user message sent to the provider,
// truncating the file contents to the configured limit.
func (a *Analyzer) BuildPrompt(contents, userPrompt string) (string, int) {
	if len(contents) > a.maxChars {
		contents = contents[:a.maxChars]
	}
	return fmt.Sprintf("Health data file contents:\n%s\n\nUser prompt: %s", contents, userPrompt), len(contents)
}

// Analyze runs one completion over the given file contents and prompt.
func (a *Analyzer) Analyze(ctx context.Context, contents, userPrompt string) (*Result, error) {
	prompt, charged := a.BuildPrompt(contents, userPrompt)
	reply, err := a.provider.Complete(ctx, []providers.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("LLM completion failed: %w", err)
	}

	res := &Result{Text: reply, Charged: charged}
	if raw, rows, ok := ExtractCSV(reply); ok {
		res.HasCSV = true
		res.RawCSV = raw
		res.Table = rows
	}
	return res, nil
}

// Stream runs one streaming completion, forwarding chunks to onChunk and
// returning the assembled result once the stream ends.
func (a *Analyzer) Stream(ctx context.Context, contents, userPrompt string, onChunk func(string) error) (*Result, error) {
	prompt, charged := a.BuildPrompt(contents, userPrompt)
	var full strings.Builder
	err := a.provider.StreamComplete(ctx, []providers.Message{
		{Role: "user", Content: prompt},
	}, func(chunk string) error {
		full.WriteString(chunk)
		return onChunk(chunk)
	})
	if err != nil {
		return nil, fmt.Errorf("LLM stream failed: %w", err)
	}

	res := &Result{Text: full.String(), Charged: charged}
	if raw, rows, ok := ExtractCSV(res.Text); ok {
		res.HasCSV = true
		res.RawCSV = raw
		res.Table = rows
	}
	return res, nil
}
