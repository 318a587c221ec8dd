package compiler

import "strings"

// Line is one non-empty, classified source line.
type Line struct {
	Text string
	Kind Kind
	Num  int // 1-based line number in the source text
}

// Split breaks source into lines, drops the empty ones, and classifies the
// rest. A nil classifier means Classify.
func Split(source string, classify Classifier) []Line {
	if classify == nil {
		classify = Classify
	}

	var lines []Line
	for i, raw := range strings.Split(source, "\n") {
		text := strings.TrimRight(raw, "\r")
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Text: text,
			Kind: classify(text),
			Num:  i + 1,
		})
	}
	return lines
}
