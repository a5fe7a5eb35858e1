package splice

import (
	"fmt"
	"io"

	"github.com/sokinpui/splice/cli"
	"github.com/sokinpui/splice/internal/fs"
	"github.com/sokinpui/splice/internal/patcher"
	"github.com/sokinpui/splice/model"
)

// Config for using splice as a library.
type Config struct {
	// Report changes without writing files.
	DryRun bool
	// Where dry runs write their unified diffs. Nil discards them.
	DiffOutput io.Writer
	// Directories to resolve relative paths against (default: current directory).
	LookupDirs []string
}

// Patch replaces the text between a start and an end marker.
type Patch = model.Patch

// Errors callers may check with errors.Is.
var (
	ErrMarkerNotFound = patcher.ErrMarkerNotFound
	ErrEmptyMarker    = patcher.ErrEmptyMarker
	ErrFileNotFound   = fs.ErrFileNotFound
	ErrFileUnreadable = fs.ErrFileUnreadable
	ErrWriteFailure   = fs.ErrWriteFailure
)

// Apply parses a markdown patch set and applies it to the files it names.
// It returns a summary of the operations in a map.
func Apply(patchSet string, config Config) (map[string][]string, error) {
	cliCfg := &cli.Config{
		DryRun:     config.DryRun,
		LookupDirs: config.LookupDirs,
	}

	app, err := New(cliCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize splice app: %w", err)
	}
	if config.DiffOutput != nil {
		app.SetDiffOutput(config.DiffOutput)
	} else {
		app.SetDiffOutput(io.Discard)
	}

	summary, err := app.processPatchSet(patchSet)
	result := map[string][]string{
		"Modified":  summary.Modified,
		"Unchanged": summary.Unchanged,
		"Failed":    summary.Failed,
	}
	return result, err
}

// ApplyText applies patches in order to document and returns the new text.
// It touches no files.
func ApplyText(document string, patches ...Patch) (string, error) {
	result, err := patcher.ApplyAll(document, patches)
	if err != nil {
		return "", err
	}
	return result.Document, nil
}

// ApplyFile reads path once, applies patches in order and writes the file
// back atomically if anything changed. On error the file is left untouched.
func ApplyFile(path string, patches ...Patch) (changed bool, err error) {
	app := &App{cfg: &cli.Config{}}
	return app.patchFile(path, patches)
}
