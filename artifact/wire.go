package artifact

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("artifact: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes an Artifact to canonical CBOR. Equal artifacts always
// encode to equal bytes.
func Marshal(a *Artifact) ([]byte, error) {
	return cborEncMode.Marshal(a)
}

// Unmarshal deserializes an Artifact from CBOR bytes.
func Unmarshal(data []byte) (*Artifact, error) {
	var a Artifact
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifact: unmarshal: %w", err)
	}
	if a.Version != Version {
		return nil, fmt.Errorf("artifact: unsupported version %d", a.Version)
	}
	return &a, nil
}

// Verify checks an artifact against its source. The source must hash to
// the declared hash, and compiling it must reproduce the artifact's code.
//
// The compile function is injected so callers choose the compile options.
func Verify(a *Artifact, source string, compile func(source string) (string, error)) error {
	if computed := HashSource(source); computed != a.SourceHash {
		return fmt.Errorf("artifact: hash mismatch: declared %x, computed %x", a.SourceHash, computed)
	}
	code, err := compile(source)
	if err != nil {
		return fmt.Errorf("artifact: compile failed: %w", err)
	}
	if code != a.Code {
		return fmt.Errorf("artifact: %s: code does not match recompiled source", a.Name)
	}
	return nil
}
