package ast

import (
	"testing"

	"github.com/Zheaoli/nadeshiko/ctype"
)

func TestInvalidSentinelsAreZeroValues(t *testing.T) {
	var n NodeID
	var o ObjID
	if n != InvalidNode || o != InvalidObj {
		t.Fatalf("expected the zero values of NodeID/ObjID to be the sentinels")
	}
}

func TestNewArenaReservesIndexZero(t *testing.T) {
	a := NewArena()
	first := a.NewNode(Number, Token{})
	if first == InvalidNode {
		t.Fatalf("expected the first real node to not collide with the sentinel")
	}
}

func TestNewBinaryWiresOperands(t *testing.T) {
	a := NewArena()
	left := a.NewNumber(1, Token{})
	right := a.NewNumber(2, Token{})
	sum := a.NewBinary(Add, left, right, Token{})

	n := a.Node(sum)
	if n.Kind != Add || n.Left != left || n.Right != right {
		t.Fatalf("unexpected binary node: %+v", n)
	}
}

func TestNewObjAndNewVarNode(t *testing.T) {
	a := NewArena()
	obj := a.NewObj("x", ctype.TypeInt, true)
	v := a.NewVarNode(obj, Token{})

	if a.Node(v).Kind != Variable || a.Node(v).Var != obj {
		t.Fatalf("expected a Variable node referencing the new Obj")
	}
	if a.Obj(obj).Name != "x" || !a.Obj(obj).IsLocal {
		t.Fatalf("unexpected obj: %+v", a.Obj(obj))
	}
}
