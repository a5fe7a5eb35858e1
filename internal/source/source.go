package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/splice/internal/ui"
)

// StdinPath is the file name that selects standard input.
const StdinPath = "-"

// ErrNoReplacement is returned when no source yields replacement text.
var ErrNoReplacement = errors.New("no replacement text: use --replacement, --replacement-file, a pipe or the clipboard")

// Request selects where replacement text comes from. An explicit literal wins,
// then a file, then piped stdin, then the clipboard.
type Request struct {
	Literal    string
	HasLiteral bool
	File       string
}

// SourceProvider determines and retrieves the replacement text.
type SourceProvider struct {
	stdin         io.Reader
	stdinIsPiped  func() bool
	readClipboard func() (string, error)
}

// New creates a new SourceProvider reading from the process stdin and the
// system clipboard.
func New() *SourceProvider {
	return &SourceProvider{
		stdin:         os.Stdin,
		stdinIsPiped:  stdinIsPiped,
		readClipboard: clipboard.ReadAll,
	}
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves the replacement text for req.
func (sp *SourceProvider) GetContent(req Request) (string, error) {
	switch {
	case req.HasLiteral:
		return req.Literal, nil
	case req.File != "":
		return sp.ReadInput(req.File)
	case sp.stdinIsPiped():
		ui.Info("Reading replacement from stdin")
		return sp.readStdin()
	}

	ui.Info("Reading replacement from clipboard")
	content, err := sp.readClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrNoReplacement
	}
	return content, nil
}

// ReadInput reads a whole file, or stdin when path is "-".
func (sp *SourceProvider) ReadInput(path string) (string, error) {
	if path == StdinPath {
		return sp.readStdin()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

func (sp *SourceProvider) readStdin() (string, error) {
	content, err := io.ReadAll(sp.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(content), nil
}
