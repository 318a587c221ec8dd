// Package build compiles every script of a parley project.
package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chazu/parley/artifact"
	"github.com/chazu/parley/compiler"
	"github.com/chazu/parley/manifest"
	"github.com/chazu/parley/pkg/codegen"
	"github.com/chazu/parley/store"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("parley.build")

// FileResult is the outcome of building one script.
type FileResult struct {
	Name      string // script name relative to its source dir
	Source    string // absolute source path
	Output    string // written output path, empty on failure
	Cached    bool   // compile was skipped on a cache hit
	Truncated bool
	Err       error
}

// Report summarizes a project build.
type Report struct {
	Files []FileResult
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Project compiles every script found under the manifest's source dirs and
// writes the outputs in the configured format. cache may be nil. A failing
// script does not stop the build; the returned error lists all failures.
func Project(m *manifest.Manifest, cache *store.Store) (*Report, error) {
	opts, err := m.Options()
	if err != nil {
		return nil, err
	}

	scripts, err := findScripts(m)
	if err != nil {
		return nil, err
	}

	outDir := m.OutputDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	b := &builder{m: m, opts: opts, tag: optionsTag(opts), cache: cache, outDir: outDir}
	report := &Report{}
	for _, s := range scripts {
		res := b.buildFile(s)
		if res.Err != nil {
			log.Error("build failed", "script", res.Name, "error", res.Err)
		} else {
			log.Info("built", "script", res.Name, "output", res.Output, "cached", res.Cached)
		}
		report.Files = append(report.Files, res)
	}

	if failed := report.Failed(); len(failed) > 0 {
		errs := make([]error, 0, len(failed))
		for _, f := range failed {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, f.Err))
		}
		return report, fmt.Errorf("%d of %d scripts failed: %w", len(failed), len(report.Files), errors.Join(errs...))
	}
	return report, nil
}

type script struct {
	name string
	path string
}

// findScripts walks the source dirs for files with the configured
// extension, sorted by name. Missing source dirs are skipped.
func findScripts(m *manifest.Manifest) ([]script, error) {
	seen := make(map[string]string)
	var scripts []script

	for _, dir := range m.SourceDirPaths() {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			log.Warning("source dir does not exist", "dir", dir)
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != m.Source.Ext {
				return nil
			}
			name := manifest.ScriptName(dir, path)
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("script %s defined by both %s and %s", name, prev, path)
			}
			seen[name] = path
			scripts = append(scripts, script{name: name, path: path})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].name < scripts[j].name })
	return scripts, nil
}

type builder struct {
	m      *manifest.Manifest
	opts   compiler.Options
	tag    string
	cache  *store.Store
	outDir string
}

func (b *builder) buildFile(s script) FileResult {
	res := FileResult{Name: s.name, Source: s.path}

	data, err := os.ReadFile(s.path)
	if err != nil {
		res.Err = err
		return res
	}
	source := string(data)

	a, cached := b.lookup(source)
	if a == nil {
		p, err := compiler.Compile(source, b.opts)
		if err != nil {
			res.Err = err
			return res
		}
		a = artifact.FromProgram(s.name, source, p)
		a.Options = b.tag
		if b.cache != nil {
			if err := b.cache.Put(a); err != nil {
				log.Warning("cache write failed", "script", s.name, "error", err)
			}
		}
	}
	a.Name = s.name
	res.Cached = cached
	res.Truncated = a.Truncated

	out, err := b.write(s.name, a)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out
	return res
}

func (b *builder) lookup(source string) (*artifact.Artifact, bool) {
	if b.cache == nil {
		return nil, false
	}
	a, err := b.cache.Get(artifact.HashSource(source))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warning("cache read failed", "error", err)
		}
		return nil, false
	}
	if a.Options != b.tag {
		return nil, false
	}
	return a, true
}

// write stores the artifact under the output dir and returns the path.
func (b *builder) write(name string, a *artifact.Artifact) (string, error) {
	var (
		path string
		data []byte
		err  error
	)

	switch b.m.Output.Format {
	case manifest.FormatText:
		path = filepath.Join(b.outDir, filepath.FromSlash(name)+".pbc")
		data = []byte(a.Code)
	case manifest.FormatCBOR:
		path = filepath.Join(b.outDir, filepath.FromSlash(name)+".cbor")
		data, err = artifact.Marshal(a)
	case manifest.FormatGo:
		path = filepath.Join(b.outDir, strings.ReplaceAll(name, "/", "_")+".go")
		data, err = codegen.GenerateGo(b.m.Output.Package, manifest.ToPascalCase(name), a)
	default:
		err = fmt.Errorf("unknown output format %q", b.m.Output.Format)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// optionsTag identifies the compile options an artifact was built with.
func optionsTag(o compiler.Options) string {
	return fmt.Sprintf("loose=%t unclassified=%d duplicate=%d", o.Loose, o.Unclassified, o.DuplicateLabels)
}
