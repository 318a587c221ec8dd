package compiler

import "testing"

func TestSymbolTableDefine(t *testing.T) {
	st := NewSymbolTable()
	if st.Define("a", 3) {
		t.Error("first Define reported an existing entry")
	}
	if !st.Define("a", 7) {
		t.Error("second Define did not report the existing entry")
	}
	if off, ok := st.Lookup("a"); !ok || off != 7 {
		t.Errorf("Lookup(a) = %d, %v; want 7, true", off, ok)
	}
	if _, ok := st.Lookup("b"); ok {
		t.Error("Lookup(b) found an undefined label")
	}
}

func TestSymbolTableNamesSorted(t *testing.T) {
	st := NewSymbolTable()
	st.Define("zeta", 1)
	st.Define("alpha", 2)
	st.Define("mid", 3)
	names := st.Names()
	if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Errorf("Names() = %v", names)
	}
}

func TestSymbolTableMapIsCopy(t *testing.T) {
	st := NewSymbolTable()
	st.Define("a", 1)
	m := st.Map()
	m["a"] = 99
	if off, _ := st.Lookup("a"); off != 1 {
		t.Errorf("table changed through Map(): a = %d", off)
	}
}

func TestBranchTableOrder(t *testing.T) {
	bt := NewBranchTable()
	bt.Add("x", 10)
	bt.Add("y", 4)
	bt.Add("x", 30)

	offs := bt.Offsets("x")
	if len(offs) != 2 || offs[0] != 10 || offs[1] != 30 {
		t.Errorf("Offsets(x) = %v, want [10 30]", offs)
	}
	if bt.Len() != 2 {
		t.Errorf("Len() = %d, want 2", bt.Len())
	}
	if bt.Offsets("missing") != nil {
		t.Error("Offsets(missing) should be nil")
	}

	m := bt.Map()
	m["x"][0] = -1
	if bt.Offsets("x")[0] != 10 {
		t.Error("table changed through Map()")
	}
}
