package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFalsey(t *testing.T) {
	assert.True(t, Nil.IsFalsey())
	assert.True(t, Bool(false).IsFalsey())
	assert.False(t, Bool(true).IsFalsey())
	assert.False(t, Number(0).IsFalsey(), "Number(0) is truthy")

	heap := &Heap{}
	table := NewTable(heap)
	empty := FromObject(table.Intern(""))
	assert.False(t, empty.IsFalsey(), "empty string is truthy")
}

func TestEqualsReflexive(t *testing.T) {
	assert.True(t, Equals(Nil, Nil))
	assert.True(t, Equals(Bool(true), Bool(true)))
	assert.True(t, Equals(Number(1), Number(1)))
	assert.False(t, Equals(Number(1), Number(2)))
	assert.False(t, Equals(Bool(true), Nil), "different kinds never equal")
}

func TestEqualsNaN(t *testing.T) {
	nan := Number(math.NaN())
	assert.False(t, Equals(nan, nan), "NaN != NaN per IEEE-754")
}

func TestInternedStringEquality(t *testing.T) {
	heap := &Heap{}
	table := NewTable(heap)
	a := FromObject(table.Intern("hello"))
	b := FromObject(table.Intern("hello"))
	assert.True(t, Equals(a, b), "two interns of the same content are the same handle")
}

func TestPrintFormatsBareStrings(t *testing.T) {
	heap := &Heap{}
	table := NewTable(heap)
	s := FromObject(table.Intern("hi"))
	assert.Equal(t, "hi", Print(s))
	assert.Equal(t, `"hi"`, DebugPrint(s))
	assert.Equal(t, "nil", Print(Nil))
	assert.Equal(t, "true", Print(Bool(true)))
}
