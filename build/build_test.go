package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/parley/artifact"
	"github.com/chazu/parley/manifest"
	"github.com/chazu/parley/store"
)

// project writes a parley.toml and the given scripts into a temp dir and
// loads the manifest.
func project(t *testing.T, toml string, scripts map[string]string) *manifest.Manifest {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	for name, src := range scripts {
		path := filepath.Join(dir, "scripts", filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}
	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestProjectText(t *testing.T) {
	m := project(t, "[project]\nname = \"vn\"\n", map[string]string{
		"intro.ink":      "Hello\n+ [Go] -> go\n=== go\n-> END",
		"act1/scene.ink": "Scene one",
		"notes.txt":      "ignored",
	})

	report, err := Project(m, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(report.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(report.Files))
	}
	if report.Files[0].Name != "act1/scene" || report.Files[1].Name != "intro" {
		t.Errorf("names = %q, %q; want sorted act1/scene, intro", report.Files[0].Name, report.Files[1].Name)
	}

	intro := filepath.Join(m.OutputDir(), "intro.pbc")
	if got := readFile(t, intro); got != "P;Hello|Q;Go;00019|E;" {
		t.Errorf("intro.pbc = %q", got)
	}
	scene := filepath.Join(m.OutputDir(), "act1", "scene.pbc")
	if got := readFile(t, scene); got != "P;Scene one" {
		t.Errorf("scene.pbc = %q", got)
	}
}

func TestProjectCBOR(t *testing.T) {
	m := project(t, "[output]\nformat = \"cbor\"\n", map[string]string{
		"intro.ink": "Hello\n-> END",
	})

	if _, err := Project(m, nil); err != nil {
		t.Fatalf("Project: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(m.OutputDir(), "intro.cbor"))
	if err != nil {
		t.Fatal(err)
	}
	a, err := artifact.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a.Name != "intro" || a.Code != "P;Hello|E;" {
		t.Errorf("artifact = %q %q", a.Name, a.Code)
	}
}

func TestProjectGo(t *testing.T) {
	m := project(t, "[output]\nformat = \"go\"\npackage = \"lines\"\n", map[string]string{
		"act1/my-scene.ink": "Hello",
	})

	if _, err := Project(m, nil); err != nil {
		t.Fatalf("Project: %v", err)
	}
	code := readFile(t, filepath.Join(m.OutputDir(), "act1_my-scene.go"))
	for _, want := range []string{"package lines", "const Act1MySceneBytecode = \"P;Hello\""} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q:\n%s", want, code)
		}
	}
}

func TestProjectCollectsFailures(t *testing.T) {
	m := project(t, "", map[string]string{
		"bad.ink":  "+ [go] -> nowhere",
		"good.ink": "Fine",
	})

	report, err := Project(m, nil)
	if err == nil {
		t.Fatal("expected build error")
	}
	if !strings.Contains(err.Error(), "1 of 2 scripts failed") || !strings.Contains(err.Error(), "nowhere") {
		t.Errorf("err = %v", err)
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "bad" {
		t.Errorf("Failed() = %+v", failed)
	}
	if _, statErr := os.Stat(filepath.Join(m.OutputDir(), "good.pbc")); statErr != nil {
		t.Errorf("good script not written: %v", statErr)
	}
}

func TestProjectStrictFromManifest(t *testing.T) {
	m := project(t, "[compile]\nunclassified = \"error\"\n", map[string]string{
		"intro.ink": "Hello\n*bullet",
	})
	if _, err := Project(m, nil); err == nil {
		t.Error("expected unclassified line to fail the build")
	}
}

func TestProjectUsesCache(t *testing.T) {
	m := project(t, "", map[string]string{
		"intro.ink": "Hello\n-> END",
	})
	cache, err := store.Open(m.CachePath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer cache.Close()

	report, err := Project(m, cache)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	if report.Files[0].Cached {
		t.Error("first build reported a cache hit")
	}

	report, err = Project(m, cache)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !report.Files[0].Cached {
		t.Error("second build missed the cache")
	}
	if got := readFile(t, filepath.Join(m.OutputDir(), "intro.pbc")); got != "P;Hello|E;" {
		t.Errorf("intro.pbc = %q", got)
	}
}

func TestProjectCacheKeyedByOptions(t *testing.T) {
	m := project(t, "", map[string]string{
		"intro.ink": "Hello\n= mark\n-> END",
	})
	cache, err := store.Open(m.CachePath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer cache.Close()

	m.Compile.Loose = true
	if _, err := Project(m, cache); err != nil {
		t.Fatalf("loose build: %v", err)
	}

	m.Compile.Loose = false
	if _, err := Project(m, cache); err == nil {
		t.Error("strict build reused the loose artifact")
	}
}
