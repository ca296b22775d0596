package checker

import (
	"strings"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// Kind classifies a Type
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindVoid
	KindNull
	KindString
	KindBoxed
	KindEnum
	KindClass
)

// Type represents a type in the Java subset
type Type struct {
	Name   string
	Kind   Kind
	Boxes  *Type             // primitive wrapped by a box type
	Enum   *EnumInfo         // non-nil if Kind == KindEnum
	Fields map[string]*Field // declared fields, enum constants included
	Supers []*Type           // superclass and interfaces, declaration order

	decl  ast.TypeDecl
	diags *diagnostic.Diagnostics // diagnostics of the declaring unit
}

// EnumInfo holds the constants of an enum type
type EnumInfo struct {
	Constants []*Field // declaration order
}

// String returns the type name
func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	return t.Name
}

// IsPrimitive reports whether t is a primitive type
func (t *Type) IsPrimitive() bool {
	return t != nil && t.Kind >= KindBoolean && t.Kind <= KindDouble
}

// IsReference reports whether t is a reference type, null included
func (t *Type) IsReference() bool {
	return t != nil && t.Kind >= KindNull
}

// IsEnum reports whether t is an enum type
func (t *Type) IsEnum() bool {
	return t != nil && t.Kind == KindEnum
}

// foldState tracks lazy constant computation of a field
type foldState int

const (
	foldPending foldState = iota
	foldActive
	foldDone
)

// Field is a field binding. Enum constants are fields whose Index is their
// ordinal; other fields of an enum are numbered after the constants.
type Field struct {
	Name           string
	Type           *Type
	Owner          *Type
	Static         bool
	Final          bool
	IsEnumConstant bool
	Index          int // declaration index within Owner

	decl  *ast.FieldDecl
	state foldState
	value constant.Value
}

// Ordinal returns the zero-based ordinal of an enum constant, or -1.
func (f *Field) Ordinal() int {
	if !f.IsEnumConstant {
		return -1
	}
	return f.Index
}

// Builtin types
var (
	TypeBoolean = &Type{Name: "boolean", Kind: KindBoolean}
	TypeByte    = &Type{Name: "byte", Kind: KindByte}
	TypeShort   = &Type{Name: "short", Kind: KindShort}
	TypeChar    = &Type{Name: "char", Kind: KindChar}
	TypeInt     = &Type{Name: "int", Kind: KindInt}
	TypeLong    = &Type{Name: "long", Kind: KindLong}
	TypeFloat   = &Type{Name: "float", Kind: KindFloat}
	TypeDouble  = &Type{Name: "double", Kind: KindDouble}
	TypeVoid    = &Type{Name: "void", Kind: KindVoid}
	TypeNull    = &Type{Name: "null", Kind: KindNull}
	TypeString  = &Type{Name: "String", Kind: KindString}
	TypeObject  = &Type{Name: "Object", Kind: KindClass}

	TypeBoxedBoolean = &Type{Name: "Boolean", Kind: KindBoxed, Boxes: TypeBoolean}
	TypeBoxedByte    = &Type{Name: "Byte", Kind: KindBoxed, Boxes: TypeByte}
	TypeBoxedShort   = &Type{Name: "Short", Kind: KindBoxed, Boxes: TypeShort}
	TypeBoxedChar    = &Type{Name: "Character", Kind: KindBoxed, Boxes: TypeChar}
	TypeBoxedInt     = &Type{Name: "Integer", Kind: KindBoxed, Boxes: TypeInt}
	TypeBoxedLong    = &Type{Name: "Long", Kind: KindBoxed, Boxes: TypeLong}
	TypeBoxedFloat   = &Type{Name: "Float", Kind: KindBoxed, Boxes: TypeFloat}
	TypeBoxedDouble  = &Type{Name: "Double", Kind: KindBoxed, Boxes: TypeDouble}
)

var builtinTypes = map[string]*Type{
	"boolean":   TypeBoolean,
	"byte":      TypeByte,
	"short":     TypeShort,
	"char":      TypeChar,
	"int":       TypeInt,
	"long":      TypeLong,
	"float":     TypeFloat,
	"double":    TypeDouble,
	"String":    TypeString,
	"Object":    TypeObject,
	"Boolean":   TypeBoxedBoolean,
	"Byte":      TypeBoxedByte,
	"Short":     TypeBoxedShort,
	"Character": TypeBoxedChar,
	"Integer":   TypeBoxedInt,
	"Long":      TypeBoxedLong,
	"Float":     TypeBoxedFloat,
	"Double":    TypeBoxedDouble,
}

// boxOf maps a primitive to its box type
var boxOf = map[*Type]*Type{
	TypeBoolean: TypeBoxedBoolean,
	TypeByte:    TypeBoxedByte,
	TypeShort:   TypeBoxedShort,
	TypeChar:    TypeBoxedChar,
	TypeInt:     TypeBoxedInt,
	TypeLong:    TypeBoxedLong,
	TypeFloat:   TypeBoxedFloat,
	TypeDouble:  TypeBoxedDouble,
}

// LookupBuiltin returns the predefined type for name, accepting a
// java.lang. prefix for reference types.
func LookupBuiltin(name string) *Type {
	if t, ok := builtinTypes[name]; ok {
		return t
	}
	if rest, ok := strings.CutPrefix(name, "java.lang."); ok {
		if t, ok := builtinTypes[rest]; ok && !t.IsPrimitive() {
			return t
		}
	}
	return nil
}

// Unbox returns the primitive wrapped by a box type, or t itself
func Unbox(t *Type) *Type {
	if t != nil && t.Kind == KindBoxed {
		return t.Boxes
	}
	return t
}

// Box returns the box type of a primitive, or nil
func Box(t *Type) *Type {
	return boxOf[t]
}

// wideningTargets lists the primitive widening conversions
var wideningTargets = map[Kind][]Kind{
	KindByte:  {KindShort, KindInt, KindLong, KindFloat, KindDouble},
	KindShort: {KindInt, KindLong, KindFloat, KindDouble},
	KindChar:  {KindInt, KindLong, KindFloat, KindDouble},
	KindInt:   {KindLong, KindFloat, KindDouble},
	KindLong:  {KindFloat, KindDouble},
	KindFloat: {KindDouble},
}

func widens(from, to Kind) bool {
	for _, k := range wideningTargets[from] {
		if k == to {
			return true
		}
	}
	return false
}

// IsCompatibleWith reports whether a value of type t can be assigned to
// target by identity, primitive widening or reference widening. Boxing is
// not considered.
func (t *Type) IsCompatibleWith(target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t == target {
		return true
	}
	if t.IsPrimitive() && target.IsPrimitive() {
		return widens(t.Kind, target.Kind)
	}
	if !t.IsReference() || !target.IsReference() {
		return false
	}
	if t.Kind == KindNull {
		return target.Kind != KindNull
	}
	if target == TypeObject {
		return true
	}
	for _, s := range t.Supers {
		if s.IsCompatibleWith(target) {
			return true
		}
	}
	return false
}

// IsBoxingCompatibleWith reports whether t converts to target through boxing
// or unboxing, optionally followed by widening.
func (t *Type) IsBoxingCompatibleWith(target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t.IsPrimitive() && target.IsReference() {
		box := Box(t)
		return box != nil && box.IsCompatibleWith(target)
	}
	if t.Kind == KindBoxed && target.IsPrimitive() {
		return t.Boxes.IsCompatibleWith(target)
	}
	return false
}

// widensToInt reports whether kind widens to int or is int
func widensToInt(k Kind) bool {
	switch k {
	case KindByte, KindShort, KindChar, KindInt:
		return true
	}
	return false
}

// constantRange is the value range of the integral types a constant int can
// be narrowed to
var constantRange = map[Kind][2]int64{
	KindByte:  {-128, 127},
	KindShort: {-32768, 32767},
	KindChar:  {0, 65535},
	KindInt:   {-2147483648, 2147483647},
}

// ConstantAssignable reports whether the constant value of type from can be
// assigned to target by constant narrowing: identical types, or an int-sized
// constant whose value fits the byte, short, char or int target.
func ConstantAssignable(value constant.Value, from, target *Type) bool {
	if !value.IsConstant() || from == nil || target == nil {
		return false
	}
	if from == target {
		return true
	}
	if !widensToInt(from.Kind) {
		return false
	}
	r, ok := constantRange[target.Kind]
	if !ok || value.Kind() != constant.Int {
		return false
	}
	v := value.Int64()
	return v >= r[0] && v <= r[1]
}

// BoxingAssignable extends IsBoxingCompatibleWith with narrowing followed by
// boxing of constants into Byte, Short and Character.
func BoxingAssignable(value constant.Value, from, target *Type) bool {
	if from.IsBoxingCompatibleWith(target) {
		return true
	}
	if from == nil || !from.IsPrimitive() {
		return false
	}
	switch target {
	case TypeBoxedByte, TypeBoxedShort, TypeBoxedChar:
		return ConstantAssignable(value, from, target.Boxes)
	}
	return false
}

// Assignable reports whether an expression of type from with the given
// folded value may initialize or be assigned to a variable of type target.
func Assignable(value constant.Value, from, target *Type) bool {
	return ConstantAssignable(value, from, target) ||
		from.IsCompatibleWith(target) ||
		BoxingAssignable(value, from, target)
}

// isNumeric reports whether t is numeric after unboxing
func isNumeric(t *Type) bool {
	t = Unbox(t)
	return t != nil && t.Kind >= KindByte && t.Kind <= KindDouble
}

// isIntegral reports whether t is an integral type after unboxing
func isIntegral(t *Type) bool {
	t = Unbox(t)
	return t != nil && t.Kind >= KindByte && t.Kind <= KindLong
}

// isBoolean reports whether t is boolean after unboxing
func isBoolean(t *Type) bool {
	return Unbox(t) == TypeBoolean
}

// unaryPromotion applies unary numeric promotion
func unaryPromotion(t *Type) *Type {
	t = Unbox(t)
	switch t.Kind {
	case KindByte, KindShort, KindChar:
		return TypeInt
	}
	return t
}

// binaryPromotion applies binary numeric promotion
func binaryPromotion(a, b *Type) *Type {
	a, b = Unbox(a), Unbox(b)
	switch {
	case a.Kind == KindDouble || b.Kind == KindDouble:
		return TypeDouble
	case a.Kind == KindFloat || b.Kind == KindFloat:
		return TypeFloat
	case a.Kind == KindLong || b.Kind == KindLong:
		return TypeLong
	default:
		return TypeInt
	}
}

// isSwitchable reports whether a selector of type t is permitted
func isSwitchable(t *Type) bool {
	switch Unbox(t).Kind {
	case KindChar, KindByte, KindShort, KindInt:
		return true
	}
	return t.Kind == KindString || t.Kind == KindEnum
}

// isConstantType reports whether a variable of type t can hold a constant
func isConstantType(t *Type) bool {
	return t != nil && (t.IsPrimitive() || t.Kind == KindString)
}
