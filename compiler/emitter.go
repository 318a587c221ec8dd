package compiler

import (
	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Emitter: pass 1 serializes lines and collects label/branch tables
// ---------------------------------------------------------------------------

// Output tags.
const (
	tagPrint    = "P;"
	tagQuestion = "Q;"
	tagEnd      = "E;"

	sepToken  = '|' // between tokens and after a choice run
	sepChoice = ';' // between choices of one run
)

// Emitter assembles one script. It owns its stream and tables and must not
// be shared between concurrent compilations.
type Emitter struct {
	opts     Options
	log      commonlog.Logger
	stream   *Stream
	symbols  *SymbolTable
	branches *BranchTable
	prev     Kind

	truncated bool
	stopLine  int
}

// NewEmitter creates an emitter with empty tables.
func NewEmitter(opts Options) *Emitter {
	return &Emitter{
		opts:     opts,
		log:      opts.logger(),
		stream:   NewStream(),
		symbols:  NewSymbolTable(),
		branches: NewBranchTable(),
		prev:     kindNone,
	}
}

// Emit runs pass 1 over lines. The cursor used for every recorded offset is
// the stream length at the moment of recording.
func (e *Emitter) Emit(lines []Line) error {
	for i, line := range lines {
		switch line.Kind {
		case KindUnclassified:
			if !e.opts.Loose && isMalformedDirective(line.Text) {
				return &ParseError{Line: line.Num, Text: line.Text, Err: errBadDirective}
			}
			if e.opts.Unclassified == UnclassifiedError {
				return &ParseError{Line: line.Num, Text: line.Text, Err: ErrUnclassifiedLine}
			}
			e.truncated = true
			e.stopLine = line.Num
			e.log.Warning("stopping at unclassified line", "line", line.Num, "skipped", len(lines)-i)
			return nil

		case KindText:
			e.stream.WriteString(tagPrint)
			e.stream.WriteString(line.Text)

		case KindChoice:
			if err := e.emitChoice(line); err != nil {
				return err
			}

		case KindLabel:
			if err := e.defineLabel(line); err != nil {
				return err
			}

		case KindTerminator:
			e.stream.WriteString(tagEnd)
		}

		// Every emitting line but the last is followed by a separator, even
		// when only labels or an unclassified line come after it. Labels
		// neither consume nor emit one: their offset is the cursor the
		// previous line's separator already established.
		if line.Kind.Emits() && i < len(lines)-1 {
			if line.Kind == KindChoice && lines[i+1].Kind == KindChoice {
				e.stream.writeSep(sepChoice)
			} else {
				e.stream.writeSep(sepToken)
			}
		}

		e.prev = line.Kind
	}

	e.log.Debug("pass 1 complete", "bytes", e.stream.Len(),
		"labels", e.symbols.Len(), "targets", e.branches.Len())
	return nil
}

func (e *Emitter) emitChoice(line Line) error {
	choice, err := ParseChoice(line.Text)
	if err != nil {
		return &ParseError{Line: line.Num, Text: line.Text, Err: err}
	}

	if e.prev != KindChoice {
		e.stream.WriteString(tagQuestion)
	}
	e.stream.WriteString(choice.Prompt)
	e.stream.writeSep(sepChoice)
	offset := e.stream.EmitPlaceholder()
	e.branches.Add(choice.Target, offset)
	return nil
}

func (e *Emitter) defineLabel(line Line) error {
	name := LabelName(line.Text)
	if name == "" {
		return &ParseError{Line: line.Num, Text: line.Text, Err: errEmptyLabel}
	}

	if prior, ok := e.symbols.Lookup(name); ok {
		if e.opts.DuplicateLabels == DuplicateReject {
			return &ParseError{Line: line.Num, Text: line.Text, Err: ErrDuplicateLabel}
		}
		e.log.Warning("label redefined", "label", name, "line", line.Num, "previous", prior)
	}

	e.symbols.Define(name, e.stream.Len())
	e.log.Debug("label defined", "label", name, "offset", e.stream.Len())
	return nil
}

// Cursor returns the current stream length.
func (e *Emitter) Cursor() int {
	return e.stream.Len()
}

// Stream returns the output stream.
func (e *Emitter) Stream() *Stream {
	return e.stream
}

// Symbols returns the label table.
func (e *Emitter) Symbols() *SymbolTable {
	return e.symbols
}

// Branches returns the placeholder table.
func (e *Emitter) Branches() *BranchTable {
	return e.branches
}

// Truncated reports whether pass 1 stopped at an unclassified line, and
// the line number where it stopped.
func (e *Emitter) Truncated() (bool, int) {
	return e.truncated, e.stopLine
}
