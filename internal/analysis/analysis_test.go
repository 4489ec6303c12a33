package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventoryportal/internal/analysis/providers"
)

type fakeProvider struct {
	reply  string
	prompt string
	chunks []string
}

func (f *fakeProvider) Complete(_ context.Context, messages []providers.Message) (string, error) {
	f.prompt = messages[len(messages)-1].Content
	return f.reply, nil
}

func (f *fakeProvider) StreamComplete(_ context.Context, messages []providers.Message, onChunk func(string) error) error {
	f.prompt = messages[len(messages)-1].Content
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeProvider) SetTemperature(float32) {}
func (f *fakeProvider) SetMaxTokens(int32)     {}

func TestBuildPromptTruncates(t *testing.T) {
	a := New(&fakeProvider{}, 10)
	prompt, sent := a.BuildPrompt(strings.Repeat("x", 50), "summarize")

	assert.Equal(t, 10, sent)
	assert.True(t, strings.HasPrefix(prompt, "Health data file contents:\nxxxxxxxxxx\n"))
	assert.True(t, strings.HasSuffix(prompt, "User prompt: summarize"))
}

func TestAnalyzeDetectsCSV(t *testing.T) {
	fake := &fakeProvider{reply: "Here is the cleaned data:\n```csv\nItem,Qty,Value\nGauze,4,2.50\n```\nDone."}
	a := New(fake, 0)

	res, err := a.Analyze(context.Background(), "Item,Qty\nGauze,4\n", "clean this up")
	require.NoError(t, err)

	assert.True(t, res.HasCSV)
	require.Len(t, res.Table, 2)
	assert.Equal(t, []string{"Item", "Qty", "Value"}, res.Table[0])
	assert.Equal(t, []string{"Gauze", "4", "2.50"}, res.Table[1])
	assert.Contains(t, fake.prompt, "User prompt: clean this up")
}

func TestAnalyzePlainReply(t *testing.T) {
	fake := &fakeProvider{reply: "The file lists 14 supply items across 3 departments."}
	a := New(fake, 0)

	res, err := a.Analyze(context.Background(), "whatever", "summarize")
	require.NoError(t, err)

	assert.False(t, res.HasCSV)
	assert.Nil(t, res.Table)
}

func TestStreamAssemblesChunks(t *testing.T) {
	fake := &fakeProvider{chunks: []string{"part one ", "part two"}}
	a := New(fake, 0)

	var seen []string
	res, err := a.Stream(context.Background(), "data", "go", func(chunk string) error {
		seen = append(seen, chunk)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"part one ", "part two"}, seen)
	assert.Equal(t, "part one part two", res.Text)
}

func TestFileContentsCSVPassthrough(t *testing.T) {
	contents, err := FileContents("labs.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", contents)
}

func TestExtractCSVIgnoresNonCSVBlocks(t *testing.T) {
	reply := "```python\nprint('hi')\n```\nand\n```\nName,Dept,Cost\nSwabs,Lab,3.20\n```"
	raw, rows, ok := ExtractCSV(reply)

	require.True(t, ok)
	assert.Contains(t, raw, "Swabs")
	assert.Len(t, rows, 2)
}

func TestExtractCSVUnfencedReply(t *testing.T) {
	_, rows, ok := ExtractCSV("a,b,c,d\n1,2,3,4")
	require.True(t, ok)
	assert.Len(t, rows, 2)
}

func TestExtractCSVIgnoresProse(t *testing.T) {
	_, _, ok := ExtractCSV("The file lists gauze and gloves across two departments.")
	assert.False(t, ok)
}
