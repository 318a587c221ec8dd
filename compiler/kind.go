package compiler

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Line kinds for dialogue scripts
// ---------------------------------------------------------------------------

// Kind classifies a source line by its leading text.
type Kind int

const (
	KindUnclassified Kind = iota
	KindText              // prose, starts with an ASCII letter or digit
	KindChoice            // + [prompt] -> target
	KindLabel             // === name
	KindTerminator        // -> END

	// kindNone is the "previous kind" before the first line is processed.
	kindNone Kind = -1
)

// Literals recognised by the strict classifier. A terminator must be the
// whole line, up to trailing whitespace.
const (
	labelPrefix    = "==="
	terminatorLine = "-> END"
	choicePrefix   = "+"
)

var kindNames = map[Kind]string{
	KindUnclassified: "unclassified",
	KindText:         "text",
	KindChoice:       "choice",
	KindLabel:        "label",
	KindTerminator:   "terminator",
	kindNone:         "none",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Emits reports whether lines of this kind write tokens to the stream.
func (k Kind) Emits() bool {
	return k == KindText || k == KindChoice || k == KindTerminator
}

// Classifier maps a single non-empty line to its Kind.
type Classifier func(text string) Kind

// Classify returns the Kind of a non-empty line. Labels must carry the full
// === prefix and a terminator must read exactly -> END.
func Classify(text string) Kind {
	if text == "" {
		return KindUnclassified
	}
	switch c := text[0]; {
	case isAlnum(c):
		return KindText
	case strings.HasPrefix(text, choicePrefix):
		return KindChoice
	case strings.HasPrefix(text, labelPrefix):
		return KindLabel
	case strings.TrimRight(text, " \t") == terminatorLine:
		return KindTerminator
	}
	return KindUnclassified
}

// LooseClassify is the single-character heuristic of early scripts: any
// line starting with '=' is a label and any line starting with '-' is a
// terminator.
func LooseClassify(text string) Kind {
	if text == "" {
		return KindUnclassified
	}
	switch c := text[0]; {
	case isAlnum(c):
		return KindText
	case c == '+':
		return KindChoice
	case c == '=':
		return KindLabel
	case c == '-':
		return KindTerminator
	}
	return KindUnclassified
}

// isMalformedDirective reports whether an unclassified line looks like a
// label or terminator that failed the strict prefix check.
func isMalformedDirective(text string) bool {
	return text != "" && (text[0] == '=' || text[0] == '-')
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
