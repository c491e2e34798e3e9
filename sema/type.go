// Package sema assigns a static type to every expression node of an
// already-parsed AST: array-to-pointer decay on Addr, pointer
// dereference rules, and the handful of type-driven errors that don't
// show up until a name's declared type is known.
package sema

import (
	"github.com/Zheaoli/nadeshiko/ast"
	"github.com/Zheaoli/nadeshiko/ctype"
	"github.com/Zheaoli/nadeshiko/diag"
)

// AddType is a post-order walk that sets node.Type if it isn't already
// set. It is idempotent - running it twice over the same node is a
// no-op the second time - so it is safe to call both inline, while the
// parser is still building the tree (pointer-arithmetic scaling and
// sizeof need an operand's type immediately), and again as a final
// pass over every function body.
func AddType(src string, a *ast.Arena, id ast.NodeID) error {
	if id == ast.InvalidNode {
		return nil
	}
	n := a.Node(id)
	if n.Type != nil {
		return nil
	}

	for _, child := range []ast.NodeID{n.Left, n.Right, n.Condition, n.Then, n.Else, n.Init, n.Inc} {
		if err := AddType(src, a, child); err != nil {
			return err
		}
	}
	for cur := n.Body; cur != ast.InvalidNode; cur = a.Node(cur).Next {
		if err := AddType(src, a, cur); err != nil {
			return err
		}
	}
	for _, arg := range n.Args {
		if err := AddType(src, a, arg); err != nil {
			return err
		}
	}

	switch n.Kind {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Neg:
		n.Type = a.Node(n.Left).Type
	case ast.Assign:
		left := a.Node(n.Left)
		if left.Type.Kind == ctype.Array {
			return diag.New(diag.Semantic, src, n.Token.Offset, "invalid array assignment")
		}
		n.Type = left.Type
	case ast.Equal, ast.NotEqual, ast.Less, ast.LessEqual, ast.Number, ast.FunctionCall:
		n.Type = ctype.TypeInt
	case ast.Variable:
		n.Type = a.Obj(n.Var).Type
	case ast.Addr:
		left := a.Node(n.Left)
		if left.Type.Kind == ctype.Array {
			n.Type = ctype.PointerTo(left.Type.Base)
		} else {
			n.Type = ctype.PointerTo(left.Type)
		}
	case ast.Deref:
		left := a.Node(n.Left)
		if !ctype.HasBase(left.Type) {
			return diag.New(diag.Semantic, src, n.Token.Offset, "invalid pointer dereference")
		}
		n.Type = left.Type.Base
	case ast.StmtExpression:
		if n.Body == ast.InvalidNode {
			return diag.New(diag.Semantic, src, n.Token.Offset, "stmt expr is not a valid expression")
		}
		last := n.Body
		for a.Node(last).Next != ast.InvalidNode {
			last = a.Node(last).Next
		}
		lastNode := a.Node(last)
		if lastNode.Kind != ast.ExpressionStmt {
			return diag.New(diag.Semantic, src, n.Token.Offset, "stmt expr is not a valid expression")
		}
		n.Type = a.Node(lastNode.Left).Type
	default:
		// If, ForStmt, Block, Return, ExpressionStmt carry no type of
		// their own - only their children needed annotating.
	}
	return nil
}

// Program annotates every function body and the remaining unannotated
// nodes of a fully parsed translation unit. Nodes the parser already
// annotated inline (pointer-arithmetic operands, sizeof operands) are
// skipped by AddType's own idempotence check.
func Program(src string, a *ast.Arena, functions []ast.ObjID) error {
	for _, id := range functions {
		fn := a.Obj(id)
		if err := AddType(src, a, fn.Body); err != nil {
			return err
		}
	}
	return nil
}
