package model

// Patch describes one edit: the span starting at Start and ending where End
// begins is replaced by Replacement.
type Patch struct {
	Start       string
	End         string
	Replacement string
}

// Span is a half-open byte range [Start, End) within a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// FilePatches groups the ordered patches that target a single file.
type FilePatches struct {
	Path    string
	Patches []Patch
}

// Summary holds the results of an operation for display.
type Summary struct {
	Modified  []string
	Unchanged []string
	Failed    []string
	Message   string
}
