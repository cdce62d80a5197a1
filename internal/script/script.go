// Package script parses narration text into ordered paragraph blocks.
package script

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Block is one narration paragraph, 1-indexed in source order.
type Block struct {
	Index   int
	Content string
}

// paragraphBoundary matches any whitespace run containing at least two
// line breaks, the blank-line separator between paragraphs.
var paragraphBoundary = regexp.MustCompile(`[ \t\r]*\n[ \t\r]*\n\s*`)

// Split breaks raw narration text into ordered blocks. Each block is
// trimmed; blocks that are empty after trimming are dropped, so no block
// is ever empty or whitespace-only.
func Split(text string) []Block {
	parts := paragraphBoundary.Split(text, -1)

	blocks := make([]Block, 0, len(parts))
	for _, part := range parts {
		content := strings.TrimSpace(part)
		if content == "" {
			continue
		}
		blocks = append(blocks, Block{
			Index:   len(blocks) + 1,
			Content: content,
		})
	}
	return blocks
}

// Read loads the narration file and splits it into blocks. The file must
// be valid UTF-8; undecodable bytes abort the run before any synthesis.
func Read(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read narration file %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("narration file %s is not valid UTF-8 text", path)
	}
	return Split(string(data)), nil
}
