// Package bytecode reads the textual stream produced by the parley compiler.
//
// A stream is a sequence of instructions separated by '|':
//
//   - P;<text>                      print a line of prose
//   - Q;<prompt>;<jump>[;<prompt>;<jump>...]  offer a set of choices
//   - E;                            end of the dialogue
//
// Every <jump> is exactly five decimal digits and holds an absolute byte
// offset into the same stream. A valid jump lands either on the tag byte of
// an instruction or on the end of the stream. A stream may end with a single
// '|' when a label was declared after its last instruction.
//
// The package decodes streams into instructions, verifies jump targets, and
// prints disassembly listings. Executing a stream is the job of a player
// and is not part of this package.
package bytecode
