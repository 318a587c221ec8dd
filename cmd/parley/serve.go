package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/parley/compiler"
	"github.com/chazu/parley/manifest"
	"github.com/chazu/parley/server"
)

// handleServeCommand starts the compile server. Compile options come from
// the nearest parley.toml when there is one.
func handleServeCommand(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	port := fs.Int("port", 4568, "Listen port")
	fs.Parse(args)
	configureLogging(*verbose)

	srv := server.New(server.WithCompileOptions(projectOptions()))
	defer srv.Stop()
	if err := srv.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// handleLSPCommand runs the language server on stdio.
func handleLSPCommand(args []string) {
	fs := flag.NewFlagSet("lsp", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Parse(args)
	configureLogging(*verbose)

	if err := server.NewLSP(projectOptions()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "LSP error: %v\n", err)
		os.Exit(1)
	}
}

func projectOptions() compiler.Options {
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		log.Warning("ignoring manifest", "error", err)
		return compiler.Options{}
	}
	if m == nil {
		return compiler.Options{}
	}
	opts, err := m.Options()
	if err != nil {
		log.Warning("ignoring manifest", "error", err)
		return compiler.Options{}
	}
	return opts
}
