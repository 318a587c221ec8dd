package compiler

import (
	"errors"
	"testing"
)

func TestSplitSingleLine(t *testing.T) {
	lines := Split("Hello world", nil)
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if lines[0].Text != "Hello world" || lines[0].Kind != KindText || lines[0].Num != 1 {
		t.Errorf("lines[0] = %+v", lines[0])
	}
}

func TestSplitSkipsEmptyLines(t *testing.T) {
	lines := Split("Hello\n\nWorld\n", nil)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Text != "Hello" || lines[1].Text != "World" {
		t.Errorf("texts = %q, %q", lines[0].Text, lines[1].Text)
	}
	if lines[1].Num != 3 {
		t.Errorf("lines[1].Num = %d, want 3", lines[1].Num)
	}
}

func TestSplitEmptySource(t *testing.T) {
	for _, src := range []string{"", "\n", "\n\n", "\r\n"} {
		if lines := Split(src, nil); len(lines) != 0 {
			t.Errorf("Split(%q) returned %d lines, want 0", src, len(lines))
		}
	}
}

func TestSplitCRLF(t *testing.T) {
	lines := Split("Hello\r\n=== mark\r\n-> END\r\n", nil)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	want := []Kind{KindText, KindLabel, KindTerminator}
	for i, k := range want {
		if lines[i].Kind != k {
			t.Errorf("lines[%d].Kind = %v, want %v", i, lines[i].Kind, k)
		}
	}
	if lines[2].Text != "-> END" {
		t.Errorf("lines[2].Text = %q, want -> END", lines[2].Text)
	}
}

func TestSplitUsesClassifier(t *testing.T) {
	lines := Split("- go", LooseClassify)
	if lines[0].Kind != KindTerminator {
		t.Errorf("loose kind = %v, want terminator", lines[0].Kind)
	}
	lines = Split("- go", Classify)
	if lines[0].Kind != KindUnclassified {
		t.Errorf("strict kind = %v, want unclassified", lines[0].Kind)
	}
}

func TestParseChoice(t *testing.T) {
	c, err := ParseChoice("+ [Hello world] -> example")
	if err != nil {
		t.Fatalf("ParseChoice error: %v", err)
	}
	if c.Prompt != "Hello world" {
		t.Errorf("Prompt = %q, want Hello world", c.Prompt)
	}
	if c.Target != "example" {
		t.Errorf("Target = %q, want example", c.Target)
	}
}

func TestParseChoiceFirstBracketPair(t *testing.T) {
	c, err := ParseChoice("+ [a] b] -> x ")
	if err != nil {
		t.Fatalf("ParseChoice error: %v", err)
	}
	if c.Prompt != "a" || c.Target != "x" {
		t.Errorf("choice = %+v, want {a x}", c)
	}
}

func TestParseChoiceArrowInsidePrompt(t *testing.T) {
	c, err := ParseChoice("+ [go -> left] -> left_path")
	if err != nil {
		t.Fatalf("ParseChoice error: %v", err)
	}
	if c.Prompt != "go -> left" || c.Target != "left_path" {
		t.Errorf("choice = %+v", c)
	}
}

func TestParseChoiceErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"+ no brackets -> x", errMissingPrompt},
		{"+ [never closed -> x", errUnclosedPrompt},
		{"+ [ok]", errMissingTarget},
		{"+ [ok] ->   ", errMissingTarget},
	}

	for _, tc := range tests {
		_, err := ParseChoice(tc.input)
		if !errors.Is(err, tc.want) {
			t.Errorf("ParseChoice(%q) error = %v, want %v", tc.input, err, tc.want)
		}
	}
}

func TestLabelName(t *testing.T) {
	tests := map[string]string{
		"=== hello":   "hello",
		"===hello":    "hello",
		"=== hello  ": "hello",
		"=====  two ": "two",
		"===":         "",
		"=== a b":     "a b",
	}
	for in, want := range tests {
		if got := LabelName(in); got != want {
			t.Errorf("LabelName(%q) = %q, want %q", in, got, want)
		}
	}
}
