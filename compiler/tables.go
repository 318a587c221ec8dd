package compiler

import "sort"

// ---------------------------------------------------------------------------
// Symbol and branch tables
// ---------------------------------------------------------------------------

// SymbolTable maps label names to their byte offset in the output stream.
type SymbolTable struct {
	offsets map[string]int
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{offsets: make(map[string]int)}
}

// Define binds name to offset, replacing any earlier binding.
// Returns true if the name was already defined.
func (t *SymbolTable) Define(name string, offset int) bool {
	_, existed := t.offsets[name]
	t.offsets[name] = offset
	return existed
}

// Lookup returns the offset bound to name.
func (t *SymbolTable) Lookup(name string) (int, bool) {
	offset, ok := t.offsets[name]
	return offset, ok
}

// Len returns the number of defined labels.
func (t *SymbolTable) Len() int {
	return len(t.offsets)
}

// Names returns all label names in sorted order.
func (t *SymbolTable) Names() []string {
	return sortedKeys(t.offsets)
}

// Map returns a copy of the table.
func (t *SymbolTable) Map() map[string]int {
	m := make(map[string]int, len(t.offsets))
	for name, offset := range t.offsets {
		m[name] = offset
	}
	return m
}

// BranchTable maps label names to the placeholder offsets that jump to them,
// in emission order.
type BranchTable struct {
	refs map[string][]int
}

// NewBranchTable creates an empty branch table.
func NewBranchTable() *BranchTable {
	return &BranchTable{refs: make(map[string][]int)}
}

// Add records a placeholder at offset that must be patched with name's address.
func (t *BranchTable) Add(name string, offset int) {
	t.refs[name] = append(t.refs[name], offset)
}

// Offsets returns the placeholder offsets recorded for name.
func (t *BranchTable) Offsets(name string) []int {
	return t.refs[name]
}

// Len returns the number of distinct target names.
func (t *BranchTable) Len() int {
	return len(t.refs)
}

// Names returns all target names in sorted order.
func (t *BranchTable) Names() []string {
	return sortedKeys(t.refs)
}

// Map returns a copy of the table.
func (t *BranchTable) Map() map[string][]int {
	m := make(map[string][]int, len(t.refs))
	for name, offsets := range t.refs {
		m[name] = append([]int(nil), offsets...)
	}
	return m
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
