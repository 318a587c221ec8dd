// Package artifact packages compiled dialogue for storage and distribution.
// An artifact carries the bytecode together with the hash of the source it
// was compiled from, so a receiver can recompile and check it.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/chazu/parley/compiler"
)

// Version is the artifact format version written by this package.
const Version = 1

// Artifact is a compiled script.
type Artifact struct {
	Version    int              `cbor:"1,keyasint"`
	Name       string           `cbor:"2,keyasint"`
	SourceHash [32]byte         `cbor:"3,keyasint"`
	Code       string           `cbor:"4,keyasint"`
	Labels     map[string]int   `cbor:"5,keyasint,omitempty"`
	Branches   map[string][]int `cbor:"6,keyasint,omitempty"` // label -> placeholder offsets
	Truncated  bool             `cbor:"7,keyasint,omitempty"`
	Options    string           `cbor:"8,keyasint,omitempty"` // compile options used, see build
}

// HashSource returns the content hash of a script's source text.
func HashSource(source string) [32]byte {
	return sha256.Sum256([]byte(source))
}

// FromProgram builds an artifact from a compiled program.
func FromProgram(name, source string, p *compiler.Program) *Artifact {
	return &Artifact{
		Version:    Version,
		Name:       name,
		SourceHash: HashSource(source),
		Code:       p.Code,
		Labels:     p.Symbols.Map(),
		Branches:   p.Branches.Map(),
		Truncated:  p.Truncated,
	}
}

// HashHex returns the source hash as a lowercase hex string.
func (a *Artifact) HashHex() string {
	return hex.EncodeToString(a.SourceHash[:])
}
