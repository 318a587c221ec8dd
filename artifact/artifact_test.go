package artifact

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/parley/compiler"
)

const script = "Hi\n+ [Yes] -> yes\n+ [No] -> no\n=== yes\nGood\n-> END\n=== no\n-> END"

func compileCode(source string) (string, error) {
	p, err := compiler.Compile(source, compiler.Options{})
	if err != nil {
		return "", err
	}
	return p.Code, nil
}

func TestFromProgram(t *testing.T) {
	p := compiler.MustCompile(script)
	a := FromProgram("intro", script, p)

	if a.Version != Version {
		t.Errorf("Version = %d, want %d", a.Version, Version)
	}
	if a.Code != p.Code {
		t.Errorf("Code = %q, want %q", a.Code, p.Code)
	}
	if a.Labels["yes"] != 26 || a.Labels["no"] != 36 {
		t.Errorf("Labels = %v", a.Labels)
	}
	if len(a.Branches["yes"]) != 1 || a.Branches["yes"][0] != 11 {
		t.Errorf("Branches[yes] = %v, want [11]", a.Branches["yes"])
	}
	if a.SourceHash != HashSource(script) {
		t.Error("SourceHash mismatch")
	}
}

func TestArtifact_CBORRoundTrip(t *testing.T) {
	a := FromProgram("intro", script, compiler.MustCompile(script))

	data, err := Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Name != a.Name {
		t.Errorf("Name: got %q, want %q", got.Name, a.Name)
	}
	if got.Code != a.Code {
		t.Errorf("Code: got %q, want %q", got.Code, a.Code)
	}
	if got.SourceHash != a.SourceHash {
		t.Error("SourceHash mismatch")
	}
	if len(got.Labels) != 2 || got.Labels["no"] != 36 {
		t.Errorf("Labels = %v", got.Labels)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a := FromProgram("intro", script, compiler.MustCompile(script))
	b := FromProgram("intro", script, compiler.MustCompile(script))

	da, err := Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	db, err := Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Error("equal artifacts encoded differently")
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestUnmarshalWrongVersion(t *testing.T) {
	data, err := Marshal(&Artifact{Version: 99, Name: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	_, err = Unmarshal(data)
	if err == nil || !strings.Contains(err.Error(), "unsupported version 99") {
		t.Errorf("err = %v, want unsupported version", err)
	}
}

func TestVerify(t *testing.T) {
	a := FromProgram("intro", script, compiler.MustCompile(script))
	if err := Verify(a, script, compileCode); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestVerifyHashMismatch(t *testing.T) {
	a := FromProgram("intro", script, compiler.MustCompile(script))
	err := Verify(a, script+"\nMore", compileCode)
	if err == nil || !strings.Contains(err.Error(), "hash mismatch") {
		t.Errorf("err = %v, want hash mismatch", err)
	}
}

func TestVerifyTamperedCode(t *testing.T) {
	a := FromProgram("intro", script, compiler.MustCompile(script))
	a.Code = strings.Replace(a.Code, "Good", "Evil", 1)
	if err := Verify(a, script, compileCode); err == nil {
		t.Error("expected error for tampered code")
	}
}

func TestVerifyCompileFailure(t *testing.T) {
	src := "+ [go] -> nowhere"
	a := &Artifact{Version: Version, Name: "broken", SourceHash: HashSource(src)}

	err := Verify(a, src, compileCode)
	var unresolved *compiler.UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Errorf("err = %v, want *UnresolvedReferenceError", err)
	}
}

func TestHashHex(t *testing.T) {
	a := &Artifact{SourceHash: HashSource("")}
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := a.HashHex(); got != want {
		t.Errorf("HashHex() = %q, want %q", got, want)
	}
}
