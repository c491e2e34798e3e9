package ctype

import "testing"

func TestIsInteger(t *testing.T) {
	if !IsInteger(TypeInt) || !IsInteger(TypeChar) {
		t.Fatalf("expected Int and Char to be integer types")
	}
	if IsInteger(PointerTo(TypeInt)) {
		t.Fatalf("expected a pointer not to be an integer type")
	}
}

func TestPointerTo(t *testing.T) {
	p := PointerTo(TypeInt)
	if p.Kind != Pointer || p.Base != TypeInt || p.Size != 8 {
		t.Fatalf("unexpected pointer type: %+v", p)
	}
}

func TestArrayOf(t *testing.T) {
	a := ArrayOf(TypeChar, 10)
	if a.Kind != Array || a.ArrayLen != 10 || a.Size != 10 {
		t.Fatalf("unexpected array type: %+v", a)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	cp := Copy(TypeInt)
	cp.Name = "x"
	if TypeInt.Name == "x" {
		t.Fatalf("Copy must not let writes to the copy leak back into the singleton")
	}
}

func TestHasBase(t *testing.T) {
	if HasBase(TypeInt) {
		t.Fatalf("Int has no base")
	}
	if !HasBase(PointerTo(TypeInt)) {
		t.Fatalf("a pointer has a base")
	}
	if !HasBase(ArrayOf(TypeInt, 3)) {
		t.Fatalf("an array has a base")
	}
}

func TestFunctionType(t *testing.T) {
	fn := FunctionType(TypeInt)
	fn.Params = []*Type{TypeInt, TypeChar}
	if fn.Kind != Function || fn.Return != TypeInt || len(fn.Params) != 2 {
		t.Fatalf("unexpected function type: %+v", fn)
	}
}
