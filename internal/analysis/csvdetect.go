package analysis

import (
	"encoding/csv"
	"strings"
)

// ExtractCSV scans a model reply for CSV data: each fenced code block is
// tried in order, and a reply with no fences is tried whole. A candidate
// qualifies when it holds more than two commas, at least one newline, and
// parses cleanly into a header plus data rows. The first qualifying
// candidate wins.
func ExtractCSV(reply string) (string, [][]string, bool) {
	candidates := fencedBlocks(reply)
	if len(candidates) == 0 {
		candidates = []string{strings.TrimSpace(reply)}
	}
	for _, block := range candidates {
		if !looksLikeCSV(block) {
			continue
		}
		reader := csv.NewReader(strings.NewReader(block))
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil || len(rows) < 2 {
			continue
		}
		return block, rows, true
	}
	return "", nil, false
}

func looksLikeCSV(block string) bool {
	return strings.Count(block, ",") > 2 && strings.Contains(block, "\n")
}

// fencedBlocks returns the body of every ``` fenced block in order. An
// optional language tag on the opening fence is dropped.
func fencedBlocks(text string) []string {
	var blocks []string
	for {
		start := strings.Index(text, "```")
		if start < 0 {
			break
		}
		rest := text[start+3:]
		end := strings.Index(rest, "```")
		if end < 0 {
			break
		}
		body := rest[:end]
		if nl := strings.Index(body, "\n"); nl >= 0 {
			// First line is the language tag when it has no commas.
			first := strings.TrimSpace(body[:nl])
			if first != "" && !strings.Contains(first, ",") {
				body = body[nl+1:]
			}
		}
		blocks = append(blocks, strings.TrimSpace(body))
		text = rest[end+3:]
	}
	return blocks
}
