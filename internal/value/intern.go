package value

// Table is the per-VM string intern table: the sole owner of canonical
// String storage (see DESIGN.md "cyclic ownership" entry — stacks, the
// constant pool, and globals hold non-owning handles into it). Two
// occurrences of the same character sequence always resolve to the same
// *String, so Value equality for strings can be a pointer compare.
type Table struct {
	heap    *Heap
	strings map[string]*String
}

// NewTable creates an intern table backed by heap. Every object it mints
// is tracked on heap's live list; Heap.Release empties that list but leaves
// the table's own map as it is.
func NewTable(heap *Heap) *Table {
	return &Table{heap: heap, strings: make(map[string]*String)}
}

// Intern returns the canonical *String for chars, creating it on first
// sight. Called by the compiler for literals/identifiers and by the VM for
// ADD-driven concatenation results.
func (t *Table) Intern(chars string) *String {
	if s, ok := t.strings[chars]; ok {
		return s
	}
	s := &String{Chars: chars}
	t.heap.track(s)
	t.strings[chars] = s
	return s
}

// Concat builds the concatenation of a and b, then interns and returns it.
func (t *Table) Concat(a, b string) *String {
	return t.Intern(a + b)
}
