package patcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sokinpui/splice/model"
)

// MarkerKind identifies which marker of a patch a lookup was for.
type MarkerKind string

const (
	StartMarker MarkerKind = "start"
	EndMarker   MarkerKind = "end"
)

var (
	// ErrMarkerNotFound is matched by every *MarkerNotFoundError.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrEmptyMarker is returned for patches with an empty start or end marker.
	ErrEmptyMarker = errors.New("marker must not be empty")
)

// MarkerNotFoundError reports a marker that could not be located in a document.
type MarkerNotFoundError struct {
	Kind   MarkerKind
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("%s marker not found: %q", e.Kind, e.Marker)
}

func (e *MarkerNotFoundError) Is(target error) bool {
	return target == ErrMarkerNotFound
}

// Result is the outcome of applying one or more patches to a document.
type Result struct {
	Document string
	// Span is the replaced range in the input document. For ApplyAll it is the
	// span of the last patch, relative to that patch's input.
	Span    model.Span
	Changed bool
}

// Locate finds the span a patch would replace. The end marker search begins at
// the offset where the start marker begins, so an end marker occurring only
// before the start marker is never selected.
func Locate(document string, patch model.Patch) (model.Span, error) {
	if patch.Start == "" {
		return model.Span{}, fmt.Errorf("start %w", ErrEmptyMarker)
	}
	if patch.End == "" {
		return model.Span{}, fmt.Errorf("end %w", ErrEmptyMarker)
	}

	start := strings.Index(document, patch.Start)
	if start == -1 {
		return model.Span{}, &MarkerNotFoundError{Kind: StartMarker, Marker: patch.Start}
	}

	rel := strings.Index(document[start:], patch.End)
	if rel == -1 {
		return model.Span{}, &MarkerNotFoundError{Kind: EndMarker, Marker: patch.End}
	}

	return model.Span{Start: start, End: start + rel}, nil
}

// Apply replaces the located span, start marker included, with the patch's
// replacement text. Everything outside the span is kept byte-for-byte.
//
// Patches are single-shot. If the span already holds exactly the replacement
// text, the document is returned as is with Changed set to false. A replacement
// that drops the start marker makes a second application fail with
// *MarkerNotFoundError.
func Apply(document string, patch model.Patch) (Result, error) {
	span, err := Locate(document, patch)
	if err != nil {
		return Result{}, err
	}

	if document[span.Start:span.End] == patch.Replacement {
		return Result{Document: document, Span: span}, nil
	}

	var b strings.Builder
	b.Grow(len(document) - span.Len() + len(patch.Replacement))
	b.WriteString(document[:span.Start])
	b.WriteString(patch.Replacement)
	b.WriteString(document[span.End:])

	return Result{Document: b.String(), Span: span, Changed: true}, nil
}

// ApplyAll applies patches in order, each one to the output of the previous.
// The first failure aborts the whole run.
func ApplyAll(document string, patches []model.Patch) (Result, error) {
	result := Result{Document: document}
	for i, patch := range patches {
		r, err := Apply(result.Document, patch)
		if err != nil {
			return Result{}, fmt.Errorf("patch %d: %w", i+1, err)
		}
		result.Document = r.Document
		result.Span = r.Span
		result.Changed = result.Changed || r.Changed
	}
	return result, nil
}
