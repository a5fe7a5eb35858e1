package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sokinpui/splice/internal/ui"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrFileUnreadable = errors.New("file unreadable")
	ErrWriteFailure   = errors.New("write failed")
)

// PathResolver finds absolute paths for files.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver. Without lookup directories the
// current working directory is used.
func NewPathResolver(lookupDirs []string) (*PathResolver, error) {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
		return &PathResolver{lookupDirs: []string{wd}}, nil
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			ui.Warning("Invalid lookup directory '%s', ignoring: %v", dir, err)
			continue
		}
		absDirs = append(absDirs, abs)
	}
	if len(absDirs) == 0 {
		return nil, fmt.Errorf("no usable lookup directory in %v", lookupDirs)
	}
	return &PathResolver{lookupDirs: absDirs}, nil
}

// Resolve returns the absolute path of the first lookup directory that holds
// relativePath. Absolute paths are returned unchanged. If no directory holds
// the file, the path is joined to the first lookup directory so that errors
// name a concrete location.
func (r *PathResolver) Resolve(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return filepath.Clean(relativePath)
	}
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, relativePath)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return filepath.Join(r.lookupDirs[0], relativePath)
}

// ReadDocument reads the whole file at path and returns its content and mode.
func ReadDocument(path string) (string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", 0, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	return string(content), info.Mode().Perm(), nil
}

// RealPath follows symlinks in path. If that fails, path is returned as is.
func RealPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// WriteDocument replaces the file at path with content. The content goes to a
// temporary file next to the real file (symlinks followed) which is then
// renamed over it, so a failed write never leaves a truncated target behind
// and a symlink keeps pointing at the patched file.
func WriteDocument(path, content string, mode os.FileMode) (err error) {
	path = RealPath(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".splice-")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.WriteString(content); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	return nil
}
