package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnclassifiedLine is wrapped by a ParseError when the unclassified
	// policy is UnclassifiedError.
	ErrUnclassifiedLine = errors.New("unclassified line")

	// ErrDuplicateLabel is wrapped by a ParseError when a label is defined
	// twice and the duplicate policy is DuplicateReject.
	ErrDuplicateLabel = errors.New("duplicate label")

	errMissingPrompt  = errors.New("choice has no [prompt]")
	errUnclosedPrompt = errors.New("choice prompt is missing ']'")
	errMissingTarget  = errors.New("choice has no -> target")
	errEmptyLabel     = errors.New("label has no name")
	errBadDirective   = errors.New("expected '===' label or '-> END'")
)

// ParseError reports a source line that could not be compiled.
type ParseError struct {
	Line int    // 1-based source line
	Text string // raw line text
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnresolvedRef is a choice target with no matching label.
type UnresolvedRef struct {
	Name    string
	Offsets []int // placeholder offsets waiting for this name
}

// UnresolvedReferenceError lists every choice target that has no label.
type UnresolvedReferenceError struct {
	Refs []UnresolvedRef // sorted by name
}

func (e *UnresolvedReferenceError) Error() string {
	names := make([]string, len(e.Refs))
	for i, ref := range e.Refs {
		names[i] = ref.Name
	}
	if len(names) == 1 {
		return fmt.Sprintf("unresolved reference to label %q", names[0])
	}
	return fmt.Sprintf("unresolved references to labels: %s", strings.Join(names, ", "))
}

// Names returns the unresolved label names in sorted order.
func (e *UnresolvedReferenceError) Names() []string {
	names := make([]string, len(e.Refs))
	for i, ref := range e.Refs {
		names[i] = ref.Name
	}
	return names
}

// PlaceholderOverflowError reports a label offset that does not fit in the
// fixed-width jump field.
type PlaceholderOverflowError struct {
	Name   string
	Offset int
}

func (e *PlaceholderOverflowError) Error() string {
	return fmt.Sprintf("label %q at offset %d does not fit in a %d-digit jump field",
		e.Name, e.Offset, PlaceholderWidth)
}
