package codegen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
)

// ValidationError is a problem found in generated Go source.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

// CodeValidator checks generated Go source in memory.
type CodeValidator struct {
	filename string
}

// NewCodeValidator creates a validator for the given filename (used in error messages).
func NewCodeValidator(filename string) *CodeValidator {
	return &CodeValidator{filename: filename}
}

// Validate parses and type-checks source. Generated files import nothing,
// so no importer is configured.
func (cv *CodeValidator) Validate(source string) []ValidationError {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, cv.filename, source, parser.AllErrors)
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) {
			out := make([]ValidationError, 0, len(list))
			for _, e := range list {
				out = append(out, ValidationError{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Msg})
			}
			return out
		}
		return []ValidationError{{Message: err.Error()}}
	}

	var out []ValidationError
	conf := types.Config{
		Error: func(err error) {
			if te, ok := err.(types.Error); ok {
				pos := fset.Position(te.Pos)
				out = append(out, ValidationError{Line: pos.Line, Column: pos.Column, Message: te.Msg})
			}
		},
	}
	conf.Check(file.Name.Name, fset, []*ast.File{file}, nil)
	return out
}
