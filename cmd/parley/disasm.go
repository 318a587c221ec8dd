package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/parley/artifact"
	"github.com/chazu/parley/compiler"
	"github.com/chazu/parley/pkg/bytecode"
)

// handleDisasmCommand processes the `parley disasm` subcommand. A .cbor
// argument is read as an artifact; anything else is compiled first.
func handleDisasmCommand(args []string) {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	loose := fs.Bool("loose", false, "Treat any '=' line as a label and any '-' line as END")
	fs.Parse(args)
	configureLogging(*verbose)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: parley disasm [-loose] file")
		os.Exit(2)
	}
	path := fs.Arg(0)

	a, err := loadArtifact(path, compiler.Options{Loose: *loose})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	listing, err := bytecode.Disassemble(a.Code, a.Labels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(listing)
}

func loadArtifact(path string, opts compiler.Options) (*artifact.Artifact, error) {
	if filepath.Ext(path) != ".cbor" {
		return compileFile(path, opts)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return artifact.Unmarshal(data)
}
