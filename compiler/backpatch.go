package compiler

// Backpatch runs pass 2: every placeholder is overwritten with the offset of
// the label it targets. All unresolved targets are reported together.
// Patching an already patched stream rewrites the same bytes.
func (e *Emitter) Backpatch() error {
	names := e.branches.Names()

	var unresolved []UnresolvedRef
	for _, name := range names {
		if _, ok := e.symbols.Lookup(name); !ok {
			offsets := append([]int(nil), e.branches.Offsets(name)...)
			unresolved = append(unresolved, UnresolvedRef{Name: name, Offsets: offsets})
		}
	}
	if len(unresolved) > 0 {
		return &UnresolvedReferenceError{Refs: unresolved}
	}

	for _, name := range names {
		target, _ := e.symbols.Lookup(name)
		if target >= maxJumpOffset {
			return &PlaceholderOverflowError{Name: name, Offset: target}
		}
		for _, offset := range e.branches.Offsets(name) {
			if err := e.stream.PatchJump(offset, target); err != nil {
				return err
			}
		}
		e.log.Debug("patched jumps", "label", name, "target", target,
			"count", len(e.branches.Offsets(name)))
	}
	return nil
}
