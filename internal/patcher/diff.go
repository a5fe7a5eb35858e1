package patcher

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between two versions of a file. It returns an
// empty string when both versions are identical.
func Diff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
