package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/parley/compiler"
)

// span is a byte range on one 0-based source line.
type span struct {
	line       int
	start, end int
}

func (s span) contains(pos protocol.Position) bool {
	return int(pos.Line) == s.line && int(pos.Character) >= s.start && int(pos.Character) <= s.end
}

func (s span) toRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(s.line), Character: protocol.UInteger(s.start)},
		End:   protocol.Position{Line: protocol.UInteger(s.line), Character: protocol.UInteger(s.end)},
	}
}

// labelDef is a label line.
type labelDef struct {
	name string
	span span
}

// targetRef is the target of a choice line.
type targetRef struct {
	name string
	span span
}

// document is the editor view of one script: where labels and choice
// targets sit, plus the compile result.
type document struct {
	text    string
	lines   []string
	labels  []labelDef
	targets []targetRef

	program *compiler.Program
	err     error
}

func analyze(text string, opts compiler.Options) *document {
	d := &document{text: text, lines: strings.Split(text, "\n")}

	classify := compiler.Classify
	if opts.Loose {
		classify = compiler.LooseClassify
	}

	for _, line := range compiler.Split(text, classify) {
		row := line.Num - 1
		switch line.Kind {
		case compiler.KindLabel:
			name := compiler.LabelName(line.Text)
			if name == "" {
				continue
			}
			start := strings.Index(line.Text, name)
			d.labels = append(d.labels, labelDef{name: name, span: span{row, start, start + len(name)}})

		case compiler.KindChoice:
			c, err := compiler.ParseChoice(line.Text)
			if err != nil {
				continue
			}
			end := len(strings.TrimRightFunc(line.Text, unicode.IsSpace))
			start := end - len(c.Target)
			d.targets = append(d.targets, targetRef{name: c.Target, span: span{row, start, end}})
		}
	}

	d.program, d.err = compiler.Compile(text, opts)
	return d
}

// lineSpan covers the whole of a 0-based line.
func (d *document) lineSpan(row int) span {
	if row < 0 || row >= len(d.lines) {
		return span{line: row}
	}
	return span{line: row, end: len(strings.TrimRight(d.lines[row], "\r"))}
}

func (d *document) diagnostics() []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := lspName

	add := func(s span, severity protocol.DiagnosticSeverity, msg string) {
		sev := severity
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    s.toRange(),
			Severity: &sev,
			Source:   &source,
			Message:  msg,
		})
	}

	var (
		parseErr    *compiler.ParseError
		unresolved  *compiler.UnresolvedReferenceError
		overflowErr *compiler.PlaceholderOverflowError
	)
	switch {
	case d.err == nil:
		if d.program.Truncated {
			add(d.lineSpan(d.program.StopLine-1), protocol.DiagnosticSeverityWarning,
				"unrecognized line: dialogue stops here")
		}

	case errors.As(d.err, &parseErr):
		add(d.lineSpan(parseErr.Line-1), protocol.DiagnosticSeverityError, parseErr.Err.Error())

	case errors.As(d.err, &unresolved):
		for _, name := range unresolved.Names() {
			for _, t := range d.targets {
				if t.name == name {
					add(t.span, protocol.DiagnosticSeverityError, fmt.Sprintf("no label named %q", name))
				}
			}
		}

	case errors.As(d.err, &overflowErr):
		for _, t := range d.targets {
			if t.name == overflowErr.Name {
				add(t.span, protocol.DiagnosticSeverityError, overflowErr.Error())
			}
		}

	default:
		add(d.lineSpan(0), protocol.DiagnosticSeverityError, d.err.Error())
	}

	return diagnostics
}

// labelNames returns the distinct label names, sorted.
func (d *document) labelNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, l := range d.labels {
		if !seen[l.name] {
			seen[l.name] = true
			names = append(names, l.name)
		}
	}
	sort.Strings(names)
	return names
}

// completions offers label names when the cursor follows "->" on a choice
// line.
func (d *document) completions(pos protocol.Position) []protocol.CompletionItem {
	prefix, ok := targetPrefix(d.text, pos)
	if !ok {
		return nil
	}

	kind := protocol.CompletionItemKindReference
	var items []protocol.CompletionItem
	for _, name := range d.labelNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		item := protocol.CompletionItem{Label: name, Kind: &kind}
		if off, ok := d.offset(name); ok {
			detail := fmt.Sprintf("offset %05d", off)
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items
}

// nameAt returns the label name under the cursor, from either a label line
// or a choice target.
func (d *document) nameAt(pos protocol.Position) (string, bool) {
	for _, t := range d.targets {
		if t.span.contains(pos) {
			return t.name, true
		}
	}
	for _, l := range d.labels {
		if l.span.contains(pos) {
			return l.name, true
		}
	}
	return "", false
}

// definition returns the span of the label that the name resolves to. With
// duplicate labels the last one wins, as in the compiler.
func (d *document) definition(name string) (span, bool) {
	for i := len(d.labels) - 1; i >= 0; i-- {
		if d.labels[i].name == name {
			return d.labels[i].span, true
		}
	}
	return span{}, false
}

// offset returns the bytecode offset of a label from the last successful
// compile.
func (d *document) offset(name string) (int, bool) {
	if d.program == nil {
		return 0, false
	}
	return d.program.Symbols.Lookup(name)
}

func (d *document) hover(pos protocol.Position) *protocol.Hover {
	name, ok := d.nameAt(pos)
	if !ok {
		return nil
	}

	var value string
	switch off, resolved := d.offset(name); {
	case resolved:
		value = fmt.Sprintf("**%s**\n\nbytecode offset `%05d`", name, off)
	case d.program == nil:
		value = fmt.Sprintf("**%s**\n\noffset unavailable: script does not compile", name)
	default:
		value = fmt.Sprintf("**%s**\n\nno label with this name", name)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
	}
}

func (d *document) symbols() []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	for _, l := range d.labels {
		sym := protocol.DocumentSymbol{
			Name:           l.name,
			Kind:           protocol.SymbolKindNamespace,
			Range:          d.lineSpan(l.span.line).toRange(),
			SelectionRange: l.span.toRange(),
		}
		if off, ok := d.offset(l.name); ok {
			detail := fmt.Sprintf("%05d", off)
			sym.Detail = &detail
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

// targetPrefix returns the partial target typed after "->" on a choice
// line, up to the cursor.
func targetPrefix(text string, pos protocol.Position) (string, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return "", false
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}
	before := line[:col]

	if !strings.HasPrefix(strings.TrimLeft(before, " \t"), "+") {
		return "", false
	}
	closeIdx := strings.IndexByte(before, ']')
	if closeIdx < 0 {
		return "", false
	}
	arrow := strings.Index(before[closeIdx:], "->")
	if arrow < 0 {
		return "", false
	}
	return strings.TrimLeft(before[closeIdx+arrow+2:], " \t"), true
}
