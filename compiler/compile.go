package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// UnclassifiedPolicy decides what pass 1 does with an unclassified line.
type UnclassifiedPolicy int

const (
	// UnclassifiedTruncate stops pass 1 and keeps what was emitted so far.
	UnclassifiedTruncate UnclassifiedPolicy = iota
	// UnclassifiedError fails compilation with ErrUnclassifiedLine.
	UnclassifiedError
)

// DuplicatePolicy decides what happens when a label name is defined twice.
type DuplicatePolicy int

const (
	// DuplicateOverwrite keeps the last definition.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject fails compilation with ErrDuplicateLabel.
	DuplicateReject
)

// ParseUnclassifiedPolicy parses "truncate" or "error". Empty means truncate.
func ParseUnclassifiedPolicy(s string) (UnclassifiedPolicy, error) {
	switch s {
	case "", "truncate":
		return UnclassifiedTruncate, nil
	case "error":
		return UnclassifiedError, nil
	}
	return 0, fmt.Errorf("unknown unclassified-line policy %q (want truncate or error)", s)
}

// ParseDuplicatePolicy parses "overwrite" or "reject". Empty means overwrite.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "overwrite":
		return DuplicateOverwrite, nil
	case "reject":
		return DuplicateReject, nil
	}
	return 0, fmt.Errorf("unknown duplicate-label policy %q (want overwrite or reject)", s)
}

// Options configures a compilation. The zero value compiles with strict
// prefixes, truncation on unclassified lines, and last-wins labels.
type Options struct {
	Loose           bool
	Unclassified    UnclassifiedPolicy
	DuplicateLabels DuplicatePolicy
	Logger          commonlog.Logger
}

// Strict returns options that reject unclassified lines and duplicate labels.
func Strict() Options {
	return Options{Unclassified: UnclassifiedError, DuplicateLabels: DuplicateReject}
}

func (o Options) logger() commonlog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return commonlog.GetLogger("parley.compiler")
}

func (o Options) classifier() Classifier {
	if o.Loose {
		return LooseClassify
	}
	return Classify
}

// Program is the result of a successful compilation.
type Program struct {
	Code     string
	Symbols  *SymbolTable
	Branches *BranchTable
	Lines    []Line

	// Truncated is set when pass 1 stopped at an unclassified line;
	// StopLine is that line's number.
	Truncated bool
	StopLine  int
}

// Compile splits, classifies, assembles, and backpatches source.
// No partial output is returned on error.
func Compile(source string, opts Options) (*Program, error) {
	lines := Split(source, opts.classifier())
	opts.logger().Debug("split source", "lines", len(lines))

	e := NewEmitter(opts)
	if err := e.Emit(lines); err != nil {
		return nil, err
	}
	if err := e.Backpatch(); err != nil {
		return nil, err
	}

	truncated, stop := e.Truncated()
	return &Program{
		Code:      e.Stream().String(),
		Symbols:   e.Symbols(),
		Branches:  e.Branches(),
		Lines:     lines,
		Truncated: truncated,
		StopLine:  stop,
	}, nil
}

// MustCompile is like Compile with default options but panics on error.
func MustCompile(source string) *Program {
	p, err := Compile(source, Options{})
	if err != nil {
		panic(fmt.Sprintf("compiler: %v", err))
	}
	return p
}
