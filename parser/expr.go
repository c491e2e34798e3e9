package parser

import (
	"github.com/Zheaoli/nadeshiko/ast"
	"github.com/Zheaoli/nadeshiko/ctype"
	"github.com/Zheaoli/nadeshiko/sema"
	"github.com/Zheaoli/nadeshiko/token"
)

const maxCallArgs = 6

func (p *Parser) expr() (ast.NodeID, error) {
	return p.assign()
}

// assign is right-associative: "a = b = c" parses as "a = (b = c)".
func (p *Parser) assign() (ast.NodeID, error) {
	left, err := p.equality()
	if err != nil {
		return ast.InvalidNode, err
	}
	if !p.is("=") {
		return left, nil
	}
	tok := p.next()
	right, err := p.assign()
	if err != nil {
		return ast.InvalidNode, err
	}
	return p.arena.NewBinary(ast.Assign, left, right, tok), nil
}

func (p *Parser) equality() (ast.NodeID, error) {
	left, err := p.relational()
	if err != nil {
		return ast.InvalidNode, err
	}
	for {
		switch {
		case p.is("=="):
			tok := p.next()
			right, err := p.relational()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.Equal, left, right, tok)
		case p.is("!="):
			tok := p.next()
			right, err := p.relational()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.NotEqual, left, right, tok)
		default:
			return left, nil
		}
	}
}

// relational stores "<"/"<=" directly; ">"/">=" are rewritten to their
// mirror image with the operands swapped.
func (p *Parser) relational() (ast.NodeID, error) {
	left, err := p.add()
	if err != nil {
		return ast.InvalidNode, err
	}
	for {
		switch {
		case p.is("<"):
			tok := p.next()
			right, err := p.add()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.Less, left, right, tok)
		case p.is(">"):
			tok := p.next()
			right, err := p.add()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.Less, right, left, tok)
		case p.is("<="):
			tok := p.next()
			right, err := p.add()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.LessEqual, left, right, tok)
		case p.is(">="):
			tok := p.next()
			right, err := p.add()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.LessEqual, right, left, tok)
		default:
			return left, nil
		}
	}
}

func (p *Parser) add() (ast.NodeID, error) {
	left, err := p.mul()
	if err != nil {
		return ast.InvalidNode, err
	}
	for {
		switch {
		case p.is("+"):
			tok := p.next()
			right, err := p.mul()
			if err != nil {
				return ast.InvalidNode, err
			}
			left, err = p.newAdd(left, right, tok)
			if err != nil {
				return ast.InvalidNode, err
			}
		case p.is("-"):
			tok := p.next()
			right, err := p.mul()
			if err != nil {
				return ast.InvalidNode, err
			}
			left, err = p.newSub(left, right, tok)
			if err != nil {
				return ast.InvalidNode, err
			}
		default:
			return left, nil
		}
	}
}

func (p *Parser) mul() (ast.NodeID, error) {
	left, err := p.unary()
	if err != nil {
		return ast.InvalidNode, err
	}
	for {
		switch {
		case p.is("*"):
			tok := p.next()
			right, err := p.unary()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.Mul, left, right, tok)
		case p.is("/"):
			tok := p.next()
			right, err := p.unary()
			if err != nil {
				return ast.InvalidNode, err
			}
			left = p.arena.NewBinary(ast.Div, left, right, tok)
		default:
			return left, nil
		}
	}
}

// unary parses ("+" | "-" | "&" | "*") unary | postfix. Unary "+" is a
// no-op: it parses its operand and returns it unchanged.
func (p *Parser) unary() (ast.NodeID, error) {
	tok := p.peek()
	switch {
	case tok.Is("+"):
		p.next()
		return p.unary()
	case tok.Is("-"):
		p.next()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidNode, err
		}
		return p.arena.NewUnary(ast.Neg, operand, tok), nil
	case tok.Is("&"):
		p.next()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidNode, err
		}
		return p.arena.NewUnary(ast.Addr, operand, tok), nil
	case tok.Is("*"):
		p.next()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidNode, err
		}
		return p.arena.NewUnary(ast.Deref, operand, tok), nil
	default:
		return p.postfix()
	}
}

// postfix parses primary ("[" expr "]")*; "a[b]" is sugar for
// "*(a + b)".
func (p *Parser) postfix() (ast.NodeID, error) {
	node, err := p.primary()
	if err != nil {
		return ast.InvalidNode, err
	}
	for p.is("[") {
		tok := p.next()
		index, err := p.expr()
		if err != nil {
			return ast.InvalidNode, err
		}
		if _, err := p.expect("]"); err != nil {
			return ast.InvalidNode, err
		}
		sum, err := p.newAdd(node, index, tok)
		if err != nil {
			return ast.InvalidNode, err
		}
		node = p.arena.NewUnary(ast.Deref, sum, tok)
	}
	return node, nil
}

// primary parses "(" ("{" compound | expr) ")", "sizeof" unary,
// number/string literals, and identifiers (plain or as a call).
func (p *Parser) primary() (ast.NodeID, error) {
	tok := p.peek()

	if tok.Is("(") {
		p.next()
		if p.is("{") {
			p.next()
			block, err := p.compoundStmt()
			if err != nil {
				return ast.InvalidNode, err
			}
			if _, err := p.expect(")"); err != nil {
				return ast.InvalidNode, err
			}
			stmtExpr := p.arena.NewNode(ast.StmtExpression, tok)
			p.arena.Node(stmtExpr).Body = p.arena.Node(block).Body
			return stmtExpr, nil
		}
		inner, err := p.expr()
		if err != nil {
			return ast.InvalidNode, err
		}
		if _, err := p.expect(")"); err != nil {
			return ast.InvalidNode, err
		}
		return inner, nil
	}

	if tok.Is("sizeof") {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidNode, err
		}
		if err := sema.AddType(p.src, p.arena, operand); err != nil {
			return ast.InvalidNode, err
		}
		size := p.arena.Node(operand).Type.Size
		return p.arena.NewNumber(int64(size), tok), nil
	}

	if tok.Kind == token.Number {
		p.next()
		return p.arena.NewNumber(tok.Value, tok), nil
	}

	if tok.Kind == token.String {
		p.next()
		obj := p.newAnonGlobal(tok.StrType)
		p.arena.Obj(obj).InitData = tok.StrValue
		return p.arena.NewVarNode(obj, tok), nil
	}

	if tok.Kind == token.Identifier {
		p.next()
		if p.is("(") {
			return p.funcCall(tok)
		}
		obj, ok := p.scope.Lookup(tok.Lit)
		if !ok {
			return ast.InvalidNode, p.errorf(tok, "undefined variable")
		}
		return p.arena.NewVarNode(obj, tok), nil
	}

	return ast.InvalidNode, p.errorf(tok, "expected an expression")
}

// funcCall parses the "(" args? ")" that follows a called identifier;
// tok is that identifier's own token, already consumed.
func (p *Parser) funcCall(tok token.Token) (ast.NodeID, error) {
	if _, err := p.expect("("); err != nil {
		return ast.InvalidNode, err
	}
	var args []ast.NodeID
	for !p.is(")") {
		if len(args) > 0 {
			if _, err := p.expect(","); err != nil {
				return ast.InvalidNode, err
			}
		}
		arg, err := p.assign()
		if err != nil {
			return ast.InvalidNode, err
		}
		args = append(args, arg)
		if len(args) > maxCallArgs {
			return ast.InvalidNode, p.errorf(p.peek(), "too many arguments")
		}
	}
	if _, err := p.expect(")"); err != nil {
		return ast.InvalidNode, err
	}

	id := p.arena.NewNode(ast.FunctionCall, tok)
	n := p.arena.Node(id)
	n.FuncName = tok.Lit
	n.Args = args
	return id, nil
}

// newAdd scales an integer operand of a pointer "+" by the pointee
// size, normalizing "int + pointer" to "pointer + int" first.
// "pointer + pointer" is rejected.
func (p *Parser) newAdd(left, right ast.NodeID, tok token.Token) (ast.NodeID, error) {
	if err := sema.AddType(p.src, p.arena, left); err != nil {
		return ast.InvalidNode, err
	}
	if err := sema.AddType(p.src, p.arena, right); err != nil {
		return ast.InvalidNode, err
	}
	lt, rt := p.arena.Node(left).Type, p.arena.Node(right).Type

	if ctype.IsInteger(lt) && ctype.IsInteger(rt) {
		return p.arena.NewBinary(ast.Add, left, right, tok), nil
	}
	if ctype.HasBase(lt) && ctype.HasBase(rt) {
		return ast.InvalidNode, p.errorf(tok, "pointer + pointer")
	}
	if !ctype.HasBase(lt) && ctype.HasBase(rt) {
		left, right = right, left
		lt = p.arena.Node(left).Type
	}
	scale := p.arena.NewNumber(int64(lt.Base.Size), tok)
	scaled := p.arena.NewBinary(ast.Mul, right, scale, tok)
	return p.arena.NewBinary(ast.Add, left, scaled, tok), nil
}

// newSub handles "pointer - int" (scaled, result stays a pointer) and
// "pointer - pointer" (scaled back down, result is an Int holding the
// element distance). Anything else - including "int - pointer" - is
// rejected.
func (p *Parser) newSub(left, right ast.NodeID, tok token.Token) (ast.NodeID, error) {
	if err := sema.AddType(p.src, p.arena, left); err != nil {
		return ast.InvalidNode, err
	}
	if err := sema.AddType(p.src, p.arena, right); err != nil {
		return ast.InvalidNode, err
	}
	lt, rt := p.arena.Node(left).Type, p.arena.Node(right).Type

	if ctype.IsInteger(lt) && ctype.IsInteger(rt) {
		return p.arena.NewBinary(ast.Sub, left, right, tok), nil
	}
	if ctype.HasBase(lt) && ctype.IsInteger(rt) {
		scale := p.arena.NewNumber(int64(lt.Base.Size), tok)
		scaled := p.arena.NewBinary(ast.Mul, right, scale, tok)
		if err := sema.AddType(p.src, p.arena, scaled); err != nil {
			return ast.InvalidNode, err
		}
		sub := p.arena.NewBinary(ast.Sub, left, scaled, tok)
		p.arena.Node(sub).Type = lt
		return sub, nil
	}
	if ctype.HasBase(lt) && ctype.HasBase(rt) {
		sub := p.arena.NewBinary(ast.Sub, left, right, tok)
		p.arena.Node(sub).Type = ctype.TypeInt
		scale := p.arena.NewNumber(int64(lt.Base.Size), tok)
		return p.arena.NewBinary(ast.Div, sub, scale, tok), nil
	}
	return ast.InvalidNode, p.errorf(tok, "pointer - pointer")
}
