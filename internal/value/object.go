package value

// ObjKind tags the concrete heap object type. String is the only variant
// today; the tag exists so a future object kind doesn't need an interface
// type switch to be added everywhere that already switches on ObjKind.
type ObjKind uint8

const (
	ObjString ObjKind = iota
)

// Object is the polymorphic heap entity base. next threads live objects
// into the VM's administrative list for sweep-style bookkeeping; it is a
// weak link, not an ownership edge (see DESIGN.md heap-object-model entry).
type Object interface {
	Kind() ObjKind
	String() string
	setNext(Object)
	getNext() Object
}

type objHeader struct {
	next Object
}

func (h *objHeader) setNext(o Object) { h.next = o }
func (h *objHeader) getNext() Object  { return h.next }

// String is the sole concrete Object variant: an immutable, interned
// character sequence.
type String struct {
	objHeader
	Chars string
}

func (s *String) Kind() ObjKind { return ObjString }
func (s *String) String() string { return s.Chars }
func (s *String) Len() int       { return len(s.Chars) }

// Heap owns every live object for one VM instance and threads them through
// the intrusive "next" link so a future collector can walk live objects
// without a separate registry. Dropping the Heap releases everything it
// threaded, so each heap object is freed exactly once at VM teardown.
type Heap struct {
	head Object
}

func (h *Heap) track(o Object) Object {
	o.setNext(h.head)
	h.head = o
	return o
}

// Release empties the live list by dropping its head, so Walk visits
// nothing afterwards. It does not touch an intern table built on this heap.
// There is no finalizer protocol to run: the only object kind (String) owns
// no further resources.
func (h *Heap) Release() {
	h.head = nil
}

// Walk visits every live object, oldest-tracked last. Exposed for tests
// that want to assert on heap occupancy without exporting the list shape.
func (h *Heap) Walk(fn func(Object)) {
	for o := h.head; o != nil; o = o.getNext() {
		fn(o)
	}
}
