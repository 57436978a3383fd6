// Package value implements Lox's tagged Value union and its one heap
// object kind (interned strings).
package value

import (
	"math"
	"strconv"
)

// Kind tags the variant carried by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObject
)

// Value is a cheap-to-copy tagged union: {Nil, Bool, Number, Object}.
// Only one of the payload fields is meaningful, selected by Kind.
type Value struct {
	kind Kind
	b    bool
	n    float64
	obj  Object
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// FromObject wraps a heap object handle in a Value.
func FromObject(o Object) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNil() bool   { return v.kind == KindNil }
func (v Value) IsBool() bool  { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool projects to bool; panics if the Value isn't a Bool (caller must
// type-check via Kind/IsBool first — mirrors the book's AS_BOOL macro).
func (v Value) AsBool() bool {
	if v.kind != KindBool {
		panic("value: AsBool on non-bool Value")
	}
	return v.b
}

// AsNumber projects to float64.
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		panic("value: AsNumber on non-number Value")
	}
	return v.n
}

// AsObject projects to the heap object handle.
func (v Value) AsObject() Object {
	if v.kind != KindObject {
		panic("value: AsObject on non-object Value")
	}
	return v.obj
}

// IsString reports whether v holds a *String object.
func (v Value) IsString() bool {
	_, ok := v.obj.(*String)
	return v.kind == KindObject && ok
}

// AsString projects to the underlying Go string; panics if not a string.
func (v Value) AsString() string {
	s, ok := v.obj.(*String)
	if !ok {
		panic("value: AsString on non-string Value")
	}
	return s.Chars
}

// IsFalsey: Nil and Bool(false) are falsey, everything else (including
// Number(0) and the empty string) is truthy.
func (v Value) IsFalsey() bool {
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return !v.b
	default:
		return false
	}
}

// Equals is structural equality per variant. Strings compare by identity
// (interning makes pointer equality sufficient); NaN follows IEEE-754
// (NaN != NaN) per the Open Questions decision recorded in DESIGN.md.
func Equals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindObject:
		as, aok := a.obj.(*String)
		bs, bok := b.obj.(*String)
		if aok && bok {
			return as == bs // interned: identity implies content equality
		}
		return a.obj == b.obj
	}
	return false
}

// Print formats v for PRINT statement output: bare (unquoted) strings,
// default float formatting, nil/true/false literals.
func Print(v Value) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.n)
	case KindObject:
		return v.obj.String()
	}
	return "<invalid value>"
}

// DebugPrint formats v the way the disassembler does: strings are quoted so
// they're distinguishable from bare identifiers in tool output.
func DebugPrint(v Value) string {
	if s, ok := v.obj.(*String); ok && v.kind == KindObject {
		return strconv.Quote(s.Chars)
	}
	return Print(v)
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "nan"
	}
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
