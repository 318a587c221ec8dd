package bytecode

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble returns a human-readable listing of code. When labels is
// non-nil, label names are printed before the instructions they mark and
// next to the jumps that target them.
func Disassemble(code string, labels map[string]int) (string, error) {
	instrs, err := Decode(code)
	if err != nil {
		return "", err
	}

	byOffset := make(map[int][]string)
	for name, off := range labels {
		byOffset[off] = append(byOffset[off], name)
	}
	for _, names := range byOffset {
		sort.Strings(names)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("; parley bytecode: %d bytes, %d instructions\n", len(code), len(instrs)))

	for _, in := range instrs {
		for _, name := range byOffset[in.Offset] {
			sb.WriteString(fmt.Sprintf("%s:\n", name))
		}

		switch in.Op {
		case OpPrint:
			sb.WriteString(fmt.Sprintf("%05d  %-8s %q\n", in.Offset, in.Op, in.Text))
		case OpQuestion:
			sb.WriteString(fmt.Sprintf("%05d  %s\n", in.Offset, in.Op))
			for i, c := range in.Choices {
				sb.WriteString(fmt.Sprintf("         [%d] %q -> %05d", i, c.Prompt, c.Target))
				if names := byOffset[c.Target]; len(names) > 0 {
					sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(names, ", ")))
				}
				sb.WriteString("\n")
			}
		default:
			sb.WriteString(fmt.Sprintf("%05d  %s\n", in.Offset, in.Op))
		}
	}

	for _, name := range byOffset[len(code)] {
		sb.WriteString(fmt.Sprintf("%s:\n", name))
	}
	if len(byOffset[len(code)]) > 0 {
		sb.WriteString(fmt.Sprintf("%05d  <end of code>\n", len(code)))
	}

	return sb.String(), nil
}
