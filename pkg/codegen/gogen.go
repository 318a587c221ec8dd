// Package codegen generates Go source that embeds compiled dialogue, so a
// game can ship scripts inside its binary.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chazu/parley/artifact"
	"github.com/dave/jennifer/jen"
)

// GenerateGo renders a Go file in package pkg declaring
//
//	const <Name>Bytecode = "..."
//	var <Name>Labels = map[string]int{...}
//
// for the artifact. name must be an exported Go identifier.
func GenerateGo(pkg, name string, a *artifact.Artifact) ([]byte, error) {
	if !isExportedIdent(name) {
		return nil, fmt.Errorf("codegen: %q is not an exported Go identifier", name)
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by parley. DO NOT EDIT.")
	if a.Name != "" {
		f.HeaderComment(fmt.Sprintf("source: %s (sha256 %s)", a.Name, a.HashHex()))
	}

	f.Comment(fmt.Sprintf("%sBytecode is the compiled dialogue stream.", name))
	f.Const().Id(name + "Bytecode").Op("=").Lit(a.Code)
	f.Line()

	f.Comment(fmt.Sprintf("%sLabels maps label names to offsets in %sBytecode.", name, name))
	f.Var().Id(name + "Labels").Op("=").Map(jen.String()).Int().Values(jen.DictFunc(func(d jen.Dict) {
		for label, off := range a.Labels {
			d[jen.Lit(label)] = jen.Lit(off)
		}
	}))

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("codegen: render %s: %w", name, err)
	}

	if errs := NewCodeValidator(strings.ToLower(name) + ".go").Validate(buf.String()); len(errs) > 0 {
		return nil, fmt.Errorf("codegen: generated code for %s is invalid: %s", name, errs[0].Message)
	}
	return buf.Bytes(), nil
}

func isExportedIdent(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for _, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
