package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/parley/build"
	"github.com/chazu/parley/manifest"
	"github.com/chazu/parley/store"
)

// handleBuildCommand processes the `parley build` subcommand.
// Usage:
//
//	parley build              # build the project found from .
//	parley build -no-cache    # ignore the artifact cache
func handleBuildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	noCache := fs.Bool("no-cache", false, "Compile every script even if cached")
	fs.Parse(args)
	configureLogging(*verbose)

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Error: no %s found\n", manifest.FileName)
		os.Exit(1)
	}

	var cache *store.Store
	if path := m.CachePath(); path != "" && !*noCache {
		cache, err = store.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache disabled: %v\n", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	report, err := build.Project(m, cache)
	if report != nil {
		for _, f := range report.Files {
			switch {
			case f.Err != nil:
				fmt.Fprintf(os.Stderr, "FAIL  %s: %v\n", f.Name, f.Err)
			case *verbose:
				note := ""
				if f.Cached {
					note = " (cached)"
				}
				if f.Truncated {
					note += " (truncated)"
				}
				fmt.Printf("ok    %s -> %s%s\n", f.Name, f.Output, note)
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Built %d scripts for %s\n", len(report.Files), m.Project.Name)
	}
}
