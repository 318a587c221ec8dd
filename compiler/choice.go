package compiler

import "strings"

// Choice is the decomposed form of a choice line: + [prompt] -> target.
type Choice struct {
	Prompt string
	Target string
}

// ParseChoice extracts the bracketed prompt and the jump target of a choice
// line. The prompt ends at the first ']' after the first '['; the target is
// the trimmed text after the first "->" following the prompt.
func ParseChoice(text string) (Choice, error) {
	open := strings.IndexByte(text, '[')
	if open < 0 {
		return Choice{}, errMissingPrompt
	}
	closeRel := strings.IndexByte(text[open+1:], ']')
	if closeRel < 0 {
		return Choice{}, errUnclosedPrompt
	}
	closeIdx := open + 1 + closeRel
	prompt := text[open+1 : closeIdx]

	rest := text[closeIdx+1:]
	arrow := strings.Index(rest, "->")
	if arrow < 0 {
		return Choice{}, errMissingTarget
	}
	target := strings.TrimSpace(rest[arrow+2:])
	if target == "" {
		return Choice{}, errMissingTarget
	}

	return Choice{Prompt: prompt, Target: target}, nil
}

// LabelName returns the name declared by a label line: the text after the
// leading '=' run, trimmed.
func LabelName(text string) string {
	return strings.TrimSpace(strings.TrimLeft(text, "="))
}
