// Package ast holds the typed AST and symbol table that the parser
// builds and the type annotator and code generator consume.
//
// Nodes and symbols are never freed individually: they live in a
// single Arena addressed by small integer IDs for the lifetime of one
// compilation unit, rather than as garbage-collected pointer chains.
package ast

import (
	"github.com/Zheaoli/nadeshiko/ctype"
	"github.com/Zheaoli/nadeshiko/token"
)

// NodeKind is the tag of an AST Node.
type NodeKind int

// The kinds of AST node the parser produces.
const (
	Number NodeKind = iota
	Variable
	Add
	Sub
	Mul
	Div
	Equal
	NotEqual
	Less
	LessEqual
	Assign
	Neg
	Addr
	Deref
	Return
	ExpressionStmt
	Block
	If
	ForStmt
	FunctionCall
	StmtExpression // GNU "({ ... })" extension
)

// NodeID addresses a Node within an Arena. The zero value, InvalidNode,
// never refers to a real node - Arena reserves index 0 for it, so a
// zero-valued NodeID field behaves like a nil pointer would.
type NodeID int32

// InvalidNode is the "no node here" sentinel, analogous to a nil
// pointer in the linked-node formulation this design is derived from.
const InvalidNode NodeID = 0

// ObjID addresses an Obj (symbol) within an Arena. Zero value is
// InvalidObj, the "no symbol" sentinel.
type ObjID int32

// InvalidObj is the "no symbol" sentinel.
const InvalidObj ObjID = 0

// Node is one AST node. Only the fields relevant to Kind are
// meaningful; the rest hold their zero value.
type Node struct {
	Kind NodeKind
	Next NodeID // next statement in a Block's body

	Left  NodeID
	Right NodeID

	Value int64 // Number literal value
	Var   ObjID // Variable reference

	Body NodeID // Block / StmtExpression body (head of a Next chain)

	Condition NodeID // If / ForStmt
	Then      NodeID // If / ForStmt
	Else      NodeID // If
	Init      NodeID // ForStmt
	Inc       NodeID // ForStmt

	FuncName string
	Args     []NodeID // FunctionCall, at most 6

	Token Token
	Type  *ctype.Type // set by the annotator; nil for pure statements
}

// Token is a thin alias so ast doesn't need to import token in every
// signature that only touches a diagnostic location.
type Token = token.Token

// Obj is a symbol: a variable or a function. Both share this one
// record, distinguished by IsFunction/IsLocal.
type Obj struct {
	Name   string
	Type   *ctype.Type
	Offset int // stack-frame offset, locals only; negative, multiple of Type.Size

	IsLocal    bool
	IsFunction bool

	InitData []byte // decoded bytes, for string-literal globals

	// Function-only fields.
	Body      NodeID
	Params    []ObjID
	Locals    []ObjID // all locals in declaration order
	StackSize int     // rounded up to 16
}

// Arena owns every Node and Obj created while compiling one
// translation unit. Index 0 of each slice is a reserved sentinel so
// that the zero value of NodeID/ObjID means "nothing here".
type Arena struct {
	nodes []Node
	objs  []Obj
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{
		nodes: make([]Node, 1),
		objs:  make([]Obj, 1),
	}
}

// NewNode allocates a fresh node of the given kind, stamped with the
// token that produced it, and returns its ID.
func (a *Arena) NewNode(kind NodeKind, tok Token) NodeID {
	a.nodes = append(a.nodes, Node{Kind: kind, Token: tok})
	return NodeID(len(a.nodes) - 1)
}

// Node dereferences id. Calling it with InvalidNode panics, same as
// dereferencing a nil pointer would - callers must check against
// InvalidNode first when a field may legitimately be absent.
func (a *Arena) Node(id NodeID) *Node {
	return &a.nodes[id]
}

// NewObj allocates a fresh symbol and returns its ID.
func (a *Arena) NewObj(name string, typ *ctype.Type, isLocal bool) ObjID {
	a.objs = append(a.objs, Obj{Name: name, Type: typ, IsLocal: isLocal})
	return ObjID(len(a.objs) - 1)
}

// Obj dereferences id.
func (a *Arena) Obj(id ObjID) *Obj {
	return &a.objs[id]
}

// NewBinary allocates a binary-operator node.
func (a *Arena) NewBinary(kind NodeKind, left, right NodeID, tok Token) NodeID {
	id := a.NewNode(kind, tok)
	n := a.Node(id)
	n.Left, n.Right = left, right
	return id
}

// NewUnary allocates a unary-operator (or single-child statement) node.
func (a *Arena) NewUnary(kind NodeKind, left NodeID, tok Token) NodeID {
	id := a.NewNode(kind, tok)
	a.Node(id).Left = left
	return id
}

// NewNumber allocates a Number literal node.
func (a *Arena) NewNumber(value int64, tok Token) NodeID {
	id := a.NewNode(Number, tok)
	a.Node(id).Value = value
	return id
}

// NewVarNode allocates a Variable reference node for obj.
func (a *Arena) NewVarNode(obj ObjID, tok Token) NodeID {
	id := a.NewNode(Variable, tok)
	a.Node(id).Var = obj
	return id
}
