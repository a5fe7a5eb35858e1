package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sokinpui/splice/model"
)

// Info strings that mark the three blocks of a patch.
const (
	LangStart   = "start"
	LangEnd     = "end"
	LangReplace = "replace"
)

var pathInHintRegex = regexp.MustCompile("`([^`\n]+)`")

// ParsePatchSet reads a markdown patch set. Each patch is a `start` block, an
// `end` block and a `replace` block, in that order. The paragraph before the
// `start` block names the target file in backticks; when it does not, the
// previous patch's file is reused. Other code blocks are ignored.
//
// The result is grouped by path in order of first appearance.
func ParsePatchSet(content []byte) ([]model.FilePatches, error) {
	blocks, err := ExtractCodeBlocks(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	var (
		result   []model.FilePatches
		index    = make(map[string]int)
		lastPath string
		n        int
	)

	for i := 0; i < len(blocks); i++ {
		block := blocks[i]
		switch block.Lang {
		case LangStart:
		case LangEnd, LangReplace:
			return nil, fmt.Errorf("patch %d: '%s' block without a preceding 'start' block", n+1, block.Lang)
		default:
			continue
		}

		n++
		if i+2 >= len(blocks) || blocks[i+1].Lang != LangEnd || blocks[i+2].Lang != LangReplace {
			return nil, fmt.Errorf("patch %d: 'start' must be followed by 'end' and 'replace' blocks", n)
		}

		path := extractPathFromHint(block.Hint)
		if path == "" {
			path = lastPath
		}
		if path == "" {
			return nil, fmt.Errorf("patch %d: no target file given before the 'start' block", n)
		}
		lastPath = path

		patch := model.Patch{
			Start:       trimFenceNewline(block.Content),
			End:         trimFenceNewline(blocks[i+1].Content),
			Replacement: blocks[i+2].Content,
		}
		if patch.Start == "" || patch.End == "" {
			return nil, fmt.Errorf("patch %d: markers must not be empty", n)
		}

		pos, ok := index[path]
		if !ok {
			pos = len(result)
			index[path] = pos
			result = append(result, model.FilePatches{Path: path})
		}
		result[pos].Patches = append(result[pos].Patches, patch)
		i += 2
	}

	return result, nil
}

// trimFenceNewline drops the newline that closes the last line of a fenced block.
func trimFenceNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func extractPathFromHint(hint string) string {
	hint = strings.TrimSpace(hint)

	// A path hint must be enclosed in backticks, e.g., `path/to/file.go`
	for _, match := range pathInHintRegex.FindAllStringSubmatch(hint, -1) {
		path := strings.TrimSpace(match[1])
		// Disallow spaces to avoid capturing commands like `go run main.go` as a path.
		if path != "" && !strings.Contains(path, " ") {
			return path
		}
	}

	return ""
}
