// Package constant represents folded compile-time values.
//
// A Value is a small tagged union. The zero Value is NotAConstant, so an
// unresolved slot and a non-constant expression read the same.
package constant

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	NotAConstant Kind = iota
	Int
	Bool
	String
	// EnumOrdinal stores ordinal+1 so that ordinal 0 never reads as an
	// empty dispatch slot.
	EnumOrdinal
)

func (k Kind) String() string {
	switch k {
	case NotAConstant:
		return "not-a-constant"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	case EnumOrdinal:
		return "enum-ordinal"
	default:
		return "unknown"
	}
}

// Value is an immutable folded constant.
type Value struct {
	kind Kind
	i    int64
	s    string
}

// Unknown is the NotAConstant value.
var Unknown = Value{}

// MakeInt returns an integral constant. Char, byte, short, int and long
// constants all fold to Int.
func MakeInt(v int64) Value { return Value{kind: Int, i: v} }

// MakeBool returns a boolean constant.
func MakeBool(v bool) Value {
	if v {
		return Value{kind: Bool, i: 1}
	}
	return Value{kind: Bool}
}

// MakeString returns a string constant.
func MakeString(s string) Value { return Value{kind: String, s: s} }

// MakeEnumOrdinal encodes the zero-based ordinal of an enum constant.
func MakeEnumOrdinal(ordinal int) Value {
	return Value{kind: EnumOrdinal, i: int64(ordinal) + 1}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsConstant reports whether v holds a value.
func (v Value) IsConstant() bool { return v.kind != NotAConstant }

// Int64 returns the integral payload. For EnumOrdinal this is the encoded
// ordinal+1, which is the dispatch key.
func (v Value) Int64() int64 { return v.i }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.kind == Bool && v.i != 0 }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// Ordinal decodes an EnumOrdinal value; it returns -1 for other kinds.
func (v Value) Ordinal() int {
	if v.kind != EnumOrdinal {
		return -1
	}
	return int(v.i - 1)
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.i == o.i && v.s == o.s
}

func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Bool:
		return strconv.FormatBool(v.Bool())
	case String:
		return strconv.Quote(v.s)
	case EnumOrdinal:
		return fmt.Sprintf("ordinal#%d", v.i)
	default:
		return "<not a constant>"
	}
}
