package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternReturnsCanonicalHandle(t *testing.T) {
	heap := &Heap{}
	table := NewTable(heap)

	a := table.Intern("same")
	b := table.Intern("same")
	assert.Same(t, a, b, "interning the same content twice returns the identical object")

	c := table.Intern("different")
	assert.NotSame(t, a, c)
}

func TestConcatInterns(t *testing.T) {
	heap := &Heap{}
	table := NewTable(heap)

	result := table.Concat("foo", "bar")
	require.Equal(t, "foobar", result.Chars)

	direct := table.Intern("foobar")
	assert.Same(t, direct, result, "concat result is interned like any other string")
}

func TestHeapReleaseDropsLiveList(t *testing.T) {
	heap := &Heap{}
	table := NewTable(heap)
	table.Intern("a")
	table.Intern("b")

	count := 0
	heap.Walk(func(Object) { count++ })
	assert.Equal(t, 2, count)

	heap.Release()
	count = 0
	heap.Walk(func(Object) { count++ })
	assert.Equal(t, 0, count)
}
