package splice

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sokinpui/splice/cli"
	"github.com/sokinpui/splice/internal/fs"
	"github.com/sokinpui/splice/internal/nvim"
	"github.com/sokinpui/splice/internal/parser"
	"github.com/sokinpui/splice/internal/patcher"
	"github.com/sokinpui/splice/internal/source"
	"github.com/sokinpui/splice/internal/ui"
	"github.com/sokinpui/splice/model"
)

// ErrPatchFailed is returned when at least one file of a patch set failed.
var ErrPatchFailed = errors.New("some files could not be patched")

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	pathResolver     *fs.PathResolver
	sourceProvider   *source.SourceProvider
	diffOutput       io.Writer
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	pathResolver, err := fs.NewPathResolver(cfg.LookupDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}

	return &App{
		cfg:            cfg,
		pathResolver:   pathResolver,
		sourceProvider: source.New(),
		diffOutput:     os.Stdout,
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetDiffOutput sets where dry runs print their diffs. It defaults to stdout.
func (a *App) SetDiffOutput(w io.Writer) {
	a.diffOutput = w
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.cfg.PatchSetMode() {
		return a.processPatchSetFile()
	}
	return a.processSinglePatch()
}

// processSinglePatch applies the patch given by flags. Any error is fatal.
func (a *App) processSinglePatch() (model.Summary, error) {
	replacement, err := a.sourceProvider.GetContent(source.Request{
		Literal:    a.cfg.Replacement,
		HasLiteral: a.cfg.HasReplacement,
		File:       a.cfg.ReplacementFile,
	})
	if err != nil {
		return model.Summary{}, err
	}

	files := []model.FilePatches{{
		Path: a.cfg.File,
		Patches: []model.Patch{{
			Start:       a.cfg.Start,
			End:         a.cfg.End,
			Replacement: replacement,
		}},
	}}
	return a.applyFiles(files, true)
}

func (a *App) processPatchSetFile() (model.Summary, error) {
	content, err := a.sourceProvider.ReadInput(a.cfg.Patches)
	if err != nil {
		return model.Summary{}, err
	}
	return a.processPatchSet(content)
}

func (a *App) processPatchSet(content string) (model.Summary, error) {
	files, err := parser.ParsePatchSet([]byte(content))
	if err != nil {
		return model.Summary{}, fmt.Errorf("invalid patch set: %w", err)
	}
	if len(files) == 0 {
		return model.Summary{Message: "Patch set holds no patches. Nothing to do."}, nil
	}
	return a.applyFiles(files, false)
}

// applyFiles patches each file in turn. With failFast the first error is
// returned at once; otherwise failing files are recorded and the rest still
// get patched.
func (a *App) applyFiles(files []model.FilePatches, failFast bool) (model.Summary, error) {
	var summary model.Summary
	files = a.mergeByTarget(files)
	total := len(files)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	for i, file := range files {
		path := file.Path
		changed, err := a.patchFile(path, file.Patches)
		switch {
		case err != nil && failFast:
			return model.Summary{}, err
		case err != nil:
			ui.Error("  -> %v", err)
			summary.Failed = append(summary.Failed, path)
		case changed:
			summary.Modified = append(summary.Modified, path)
		default:
			summary.Unchanged = append(summary.Unchanged, path)
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	if a.cfg.DryRun {
		summary.Message = "Dry run: no files were written."
	} else if a.cfg.Reload {
		a.reloadEditor(summary.Modified)
	}

	failed := len(summary.Failed)
	a.relativizeSummaryPaths(&summary)
	if failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d file(s) failed", ErrPatchFailed, failed, total)
	}
	return summary, nil
}

// mergeByTarget resolves every path and joins groups that name the same file,
// e.g. `doc.txt` and `./doc.txt` or a symlink and its target, so each file is
// read and written once. Groups keep first-appearance order.
func (a *App) mergeByTarget(files []model.FilePatches) []model.FilePatches {
	merged := make([]model.FilePatches, 0, len(files))
	index := make(map[string]int, len(files))
	for _, file := range files {
		path := a.pathResolver.Resolve(file.Path)
		key := fs.RealPath(path)
		if pos, ok := index[key]; ok {
			merged[pos].Patches = append(merged[pos].Patches, file.Patches...)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, model.FilePatches{
			Path:    path,
			Patches: append([]model.Patch(nil), file.Patches...),
		})
	}
	return merged
}

// patchFile reads path once, applies every patch in memory and writes the
// result once. Nothing is written if any patch fails or nothing changed.
func (a *App) patchFile(path string, patches []model.Patch) (bool, error) {
	document, mode, err := fs.ReadDocument(path)
	if err != nil {
		return false, err
	}

	result, err := patcher.ApplyAll(document, patches)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !result.Changed {
		return false, nil
	}

	if a.cfg.DryRun {
		diff, err := patcher.Diff(a.displayPath(path), document, result.Document)
		if err != nil {
			return false, fmt.Errorf("%s: failed to render diff: %w", path, err)
		}
		fmt.Fprint(a.diffOutput, diff)
		return true, nil
	}

	if err := fs.WriteDocument(path, result.Document, mode); err != nil {
		return false, err
	}
	return true, nil
}

// reloadEditor refreshes buffers in the surrounding Neovim. Failures only
// warn, the files are already on disk.
func (a *App) reloadEditor(paths []string) {
	if len(paths) == 0 {
		return
	}
	manager, err := nvim.New("")
	if err != nil {
		ui.Warning("Skipping editor reload: %v", err)
		return
	}
	defer manager.Close()

	reloaded, err := manager.ReloadBuffers(paths)
	if err != nil {
		ui.Warning("Editor reload failed: %v", err)
		return
	}
	if len(reloaded) > 0 {
		ui.Info("Reloaded %d buffer(s) in Neovim.", len(reloaded))
	}
}

func (a *App) displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	makeRelative := func(absPaths []string) []string {
		if absPaths == nil {
			return nil
		}
		relPaths := make([]string, len(absPaths))
		for i, p := range absPaths {
			relPaths[i] = a.displayPath(p)
		}
		return relPaths
	}

	summary.Modified = makeRelative(summary.Modified)
	summary.Unchanged = makeRelative(summary.Unchanged)
	summary.Failed = makeRelative(summary.Failed)
}
