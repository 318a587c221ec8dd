// Package manifest handles parley.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chazu/parley/compiler"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "parley.toml"

// Output formats.
const (
	FormatText = "text"
	FormatCBOR = "cbor"
	FormatGo   = "go"
)

// Manifest represents a parley.toml project configuration.
type Manifest struct {
	Project Project       `toml:"project"`
	Source  Source        `toml:"source"`
	Compile CompileConfig `toml:"compile"`
	Output  OutputConfig  `toml:"output"`
	Cache   CacheConfig   `toml:"cache"`

	// Dir is the directory containing the parley.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures script locations.
type Source struct {
	Dirs []string `toml:"dirs"`
	Ext  string   `toml:"ext"`
}

// CompileConfig mirrors compiler.Options in manifest form.
type CompileConfig struct {
	Loose           bool   `toml:"loose"`
	Unclassified    string `toml:"unclassified"`
	DuplicateLabels string `toml:"duplicate-labels"`
}

// OutputConfig configures build output.
type OutputConfig struct {
	Dir     string `toml:"dir"`
	Format  string `toml:"format"`
	Package string `toml:"package"`
}

// CacheConfig configures the artifact cache. An empty path disables it.
type CacheConfig struct {
	Path *string `toml:"path"`
}

const defaultCachePath = ".parley/cache.db"

// Load parses a parley.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if len(m.Source.Dirs) == 0 {
		m.Source.Dirs = []string{"scripts"}
	}
	if m.Source.Ext == "" {
		m.Source.Ext = ".ink"
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "build"
	}
	if m.Output.Format == "" {
		m.Output.Format = FormatText
	}
	if m.Output.Package == "" {
		m.Output.Package = "dialogue"
	}
	if m.Cache.Path == nil {
		p := defaultCachePath
		m.Cache.Path = &p
	}
}

func (m *Manifest) validate() error {
	switch m.Output.Format {
	case FormatText, FormatCBOR, FormatGo:
	default:
		return fmt.Errorf("unknown output format %q (want text, cbor or go)", m.Output.Format)
	}
	if m.Output.Format == FormatGo && !IsValidPackageName(m.Output.Package) {
		return fmt.Errorf("invalid output package name %q", m.Output.Package)
	}
	_, err := m.Options()
	return err
}

// FindAndLoad walks up from startDir to find a parley.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Options converts the [compile] table to compiler options.
func (m *Manifest) Options() (compiler.Options, error) {
	unclassified, err := compiler.ParseUnclassifiedPolicy(m.Compile.Unclassified)
	if err != nil {
		return compiler.Options{}, err
	}
	dup, err := compiler.ParseDuplicatePolicy(m.Compile.DuplicateLabels)
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{
		Loose:           m.Compile.Loose,
		Unclassified:    unclassified,
		DuplicateLabels: dup,
	}, nil
}

// SourceDirPaths returns absolute paths for the configured source directories.
func (m *Manifest) SourceDirPaths() []string {
	var paths []string
	for _, d := range m.Source.Dirs {
		paths = append(paths, m.resolve(d))
	}
	return paths
}

// OutputDir returns the absolute build output directory.
func (m *Manifest) OutputDir() string {
	return m.resolve(m.Output.Dir)
}

// CachePath returns the absolute cache database path, or "" when caching
// is disabled.
func (m *Manifest) CachePath() string {
	if m.Cache.Path == nil || *m.Cache.Path == "" {
		return ""
	}
	return m.resolve(*m.Cache.Path)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
