package bytecode

import "fmt"

// Opcode is the tag byte that starts every instruction in a stream.
type Opcode byte

const (
	OpPrint    Opcode = 'P' // P;<text>
	OpQuestion Opcode = 'Q' // Q;<prompt>;<jump>[;<prompt>;<jump>...]
	OpEnd      Opcode = 'E' // E;
)

// Separators between instructions and between the fields of a question.
const (
	InstrSep = '|'
	FieldSep = ';'
)

// JumpWidth is the number of decimal digits in a jump field.
const JumpWidth = 5

var opcodeNames = map[Opcode]string{
	OpPrint:    "PRINT",
	OpQuestion: "QUESTION",
	OpEnd:      "END",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%q)", byte(op))
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}
