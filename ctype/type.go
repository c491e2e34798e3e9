// Package ctype implements the small algebraic type system of the
// compiled language: integers, characters, pointers, arrays and
// function signatures.
package ctype

// Kind is the tag of a Type.
type Kind int

// The kinds of type the compiler understands.
const (
	Int Kind = iota
	Char
	Pointer
	Array
	Function
)

// Type is a tagged value describing the shape of an expression or
// declaration. Types are value-copyable: Copy produces an independent
// shallow copy so that declarator suffixes accumulating on top of a
// shared base type (e.g. "int a, *b;") never alias one another.
type Type struct {
	Kind Kind

	// Base is the pointee (Pointer) or element type (Array).
	Base *Type

	// Name is set while parsing a declarator; it names the declared
	// variable or function, not the type itself.
	Name string

	// Return and Params describe a Function type.
	Return *Type
	Params []*Type

	Size     int // in bytes
	ArrayLen int // element count, for Array
}

// Singletons for the two integer types. Never mutate these directly -
// take a Copy first if a declarator name needs to be attached.
var (
	TypeInt  = &Type{Kind: Int, Size: 8}
	TypeChar = &Type{Kind: Char, Size: 1}
)

// IsInteger reports whether t is Int or Char.
func IsInteger(t *Type) bool {
	return t.Kind == Int || t.Kind == Char
}

// PointerTo constructs a pointer to base.
func PointerTo(base *Type) *Type {
	return &Type{Kind: Pointer, Base: base, Size: 8}
}

// ArrayOf constructs an array of length elements of base.
func ArrayOf(base *Type, length int) *Type {
	return &Type{Kind: Array, Base: base, Size: base.Size * length, ArrayLen: length}
}

// FunctionType constructs a function type returning ret; Params is
// filled in separately once the parameter list has been parsed.
func FunctionType(ret *Type) *Type {
	return &Type{Kind: Function, Return: ret}
}

// Copy returns an independent shallow copy of t: a new Type header
// pointing at the same Base/Return/Params, suitable for attaching a
// fresh declarator Name without disturbing the original.
func Copy(t *Type) *Type {
	cp := *t
	return &cp
}

// HasBase reports whether t is a Pointer or Array - i.e. whether it
// carries a Base link. This is the tie-breaker pointer arithmetic uses
// to decide which operand of "+"/"-" is the pointer.
func HasBase(t *Type) bool {
	return t.Base != nil
}
