package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Choice is one option of a QUESTION instruction.
type Choice struct {
	Prompt    string
	Target    int // absolute offset the choice jumps to
	JumpField int // offset of the 5-digit jump field
}

// Instruction is one decoded token of a stream.
type Instruction struct {
	Op      Opcode
	Offset  int    // offset of the tag byte
	Text    string // PRINT only
	Choices []Choice
}

// DecodeError reports malformed bytecode at an offset.
type DecodeError struct {
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bytecode: offset %d: %s", e.Offset, e.Msg)
}

// Decode splits a stream into instructions. Prose and prompts must not
// contain the separator characters for the stream to decode unambiguously.
func Decode(code string) ([]Instruction, error) {
	var instrs []Instruction
	if code == "" {
		return instrs, nil
	}

	pos := 0
	for {
		end := strings.IndexByte(code[pos:], InstrSep)
		if end < 0 {
			end = len(code)
		} else {
			end += pos
		}

		instr, err := decodeInstruction(code[pos:end], pos)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)

		if end == len(code) {
			return instrs, nil
		}
		pos = end + 1
		// A separator may close the stream when a label or truncation
		// follows the last instruction.
		if pos == len(code) {
			return instrs, nil
		}
	}
}

func decodeInstruction(tok string, offset int) (Instruction, error) {
	if len(tok) < 2 || tok[1] != FieldSep {
		return Instruction{}, &DecodeError{Offset: offset, Msg: fmt.Sprintf("malformed instruction %q", tok)}
	}

	instr := Instruction{Op: Opcode(tok[0]), Offset: offset}
	body := tok[2:]

	switch instr.Op {
	case OpPrint:
		instr.Text = body

	case OpEnd:
		if body != "" {
			return Instruction{}, &DecodeError{Offset: offset, Msg: "END takes no operand"}
		}

	case OpQuestion:
		choices, err := decodeChoices(body, offset+2)
		if err != nil {
			return Instruction{}, err
		}
		instr.Choices = choices

	default:
		return Instruction{}, &DecodeError{Offset: offset, Msg: fmt.Sprintf("unknown opcode %q", tok[0])}
	}

	return instr, nil
}

func decodeChoices(body string, offset int) ([]Choice, error) {
	fields := strings.Split(body, string(FieldSep))
	if len(fields)%2 != 0 {
		return nil, &DecodeError{Offset: offset, Msg: "question has a prompt without a jump"}
	}

	var choices []Choice
	pos := offset
	for i := 0; i < len(fields); i += 2 {
		prompt, jump := fields[i], fields[i+1]
		jumpAt := pos + len(prompt) + 1

		if len(jump) != JumpWidth {
			return nil, &DecodeError{Offset: jumpAt, Msg: fmt.Sprintf("jump field %q is not %d digits", jump, JumpWidth)}
		}
		target, err := strconv.Atoi(jump)
		if err != nil || target < 0 {
			return nil, &DecodeError{Offset: jumpAt, Msg: fmt.Sprintf("jump field %q is not decimal", jump)}
		}

		choices = append(choices, Choice{Prompt: prompt, Target: target, JumpField: jumpAt})
		pos = jumpAt + JumpWidth + 1
	}
	return choices, nil
}

// Verify decodes code and checks that every jump lands on the start of an
// instruction or on the end of the stream.
func Verify(code string) error {
	instrs, err := Decode(code)
	if err != nil {
		return err
	}

	starts := make(map[int]bool, len(instrs)+1)
	for _, in := range instrs {
		starts[in.Offset] = true
	}
	starts[len(code)] = true

	for _, in := range instrs {
		for _, c := range in.Choices {
			if !starts[c.Target] {
				return &DecodeError{
					Offset: c.JumpField,
					Msg:    fmt.Sprintf("jump to %05d does not start an instruction", c.Target),
				}
			}
		}
	}
	return nil
}
