// parley compiles branching dialogue scripts into flat bytecode.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/parley/artifact"
	"github.com/chazu/parley/compiler"
	"github.com/chazu/parley/manifest"
	"github.com/chazu/parley/pkg/codegen"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("parley.cli")

func main() {
	if len(os.Args) > 1 {
		args := os.Args[2:]
		switch os.Args[1] {
		case "build":
			handleBuildCommand(args)
			return
		case "disasm":
			handleDisasmCommand(args)
			return
		case "serve":
			handleServeCommand(args)
			return
		case "lsp":
			handleLSPCommand(args)
			return
		}
	}

	verbose := flag.Bool("v", false, "Verbose output")
	output := flag.String("o", "", "Output file (default: stdout)")
	format := flag.String("format", manifest.FormatText, "Output format: text, cbor or go")
	pkg := flag.String("package", "dialogue", "Go package name (with -format go)")
	strict := flag.Bool("strict", false, "Reject unrecognized lines and duplicate labels")
	loose := flag.Bool("loose", false, "Treat any '=' line as a label and any '-' line as END")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: parley [options] file\n")
		fmt.Fprintf(os.Stderr, "       parley build | disasm | serve | lsp [options]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles a dialogue script to bytecode.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  parley intro.ink                      # Print bytecode\n")
		fmt.Fprintf(os.Stderr, "  parley -o intro.cbor -format cbor intro.ink\n")
		fmt.Fprintf(os.Stderr, "  parley -format go -o intro.go intro.ink\n")
		fmt.Fprintf(os.Stderr, "\nSubcommands:\n")
		fmt.Fprintf(os.Stderr, "  parley build              # Build the project in ./parley.toml\n")
		fmt.Fprintf(os.Stderr, "  parley disasm intro.ink   # Print a disassembly listing\n")
		fmt.Fprintf(os.Stderr, "  parley serve -port 4568   # Start the compile server\n")
		fmt.Fprintf(os.Stderr, "  parley lsp                # Start the language server on stdio\n")
	}
	flag.Parse()
	configureLogging(*verbose)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	opts := compiler.Options{Loose: *loose}
	if *strict {
		opts.Unclassified = compiler.UnclassifiedError
		opts.DuplicateLabels = compiler.DuplicateReject
	}

	a, err := compileFile(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := encode(a, *format, *pkg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *output == "" {
		os.Stdout.Write(data)
		if *format == manifest.FormatText {
			fmt.Println()
		}
		return
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Wrote %s (%d bytes of bytecode)\n", *output, len(a.Code))
	}
}

// configureLogging shows warnings by default and everything with -v.
func configureLogging(verbose bool) {
	if verbose {
		commonlog.Configure(2, nil)
	} else {
		commonlog.Configure(-1, nil)
	}
}

// compileFile reads and compiles one script.
func compileFile(path string, opts compiler.Options) (*artifact.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := string(data)

	p, err := compiler.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Truncated {
		log.Warning("output stops at unrecognized line", "file", path, "line", p.StopLine)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return artifact.FromProgram(name, source, p), nil
}

func encode(a *artifact.Artifact, format, pkg string) ([]byte, error) {
	switch format {
	case manifest.FormatText:
		return []byte(a.Code), nil
	case manifest.FormatCBOR:
		return artifact.Marshal(a)
	case manifest.FormatGo:
		if !manifest.IsValidPackageName(pkg) {
			return nil, fmt.Errorf("invalid package name %q", pkg)
		}
		return codegen.GenerateGo(pkg, manifest.ToPascalCase(a.Name), a)
	}
	return nil, fmt.Errorf("unknown format %q (want text, cbor or go)", format)
}
