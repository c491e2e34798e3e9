package parser

import (
	"github.com/Zheaoli/nadeshiko/ast"
	"github.com/Zheaoli/nadeshiko/sema"
)

// isTypeName reports whether the upcoming token starts a declspec, used
// to distinguish a local declaration from an ordinary statement at the
// top of a compound statement.
func (p *Parser) isTypeName() bool {
	return p.is("int") || p.is("char")
}

// compoundStmt parses the body of a "{" ... "}" block, assuming the
// opening brace has already been consumed. It pushes and pops its own
// scope and returns a Block node whose Body is the linked list of
// statements/declarations it parsed.
func (p *Parser) compoundStmt() (ast.NodeID, error) {
	headTok := p.peek()
	p.scope.Enter()

	var head, tail ast.NodeID
	for !p.is("}") {
		var (
			stmt ast.NodeID
			err  error
		)
		if p.isTypeName() {
			stmt, err = p.declaration()
		} else {
			stmt, err = p.stmt()
		}
		if err != nil {
			p.scope.Leave()
			return ast.InvalidNode, err
		}
		if err := sema.AddType(p.src, p.arena, stmt); err != nil {
			p.scope.Leave()
			return ast.InvalidNode, err
		}
		if head == ast.InvalidNode {
			head = stmt
		} else {
			p.arena.Node(tail).Next = stmt
		}
		tail = stmt
	}
	p.scope.Leave()
	p.next() // "}"

	block := p.arena.NewNode(ast.Block, headTok)
	p.arena.Node(block).Body = head
	return block, nil
}

// stmt parses one statement.
func (p *Parser) stmt() (ast.NodeID, error) {
	tok := p.peek()

	switch {
	case tok.Is("return"):
		p.next()
		value, err := p.expr()
		if err != nil {
			return ast.InvalidNode, err
		}
		if _, err := p.expect(";"); err != nil {
			return ast.InvalidNode, err
		}
		return p.arena.NewUnary(ast.Return, value, tok), nil

	case tok.Is("if"):
		p.next()
		if _, err := p.expect("("); err != nil {
			return ast.InvalidNode, err
		}
		cond, err := p.expr()
		if err != nil {
			return ast.InvalidNode, err
		}
		if _, err := p.expect(")"); err != nil {
			return ast.InvalidNode, err
		}
		then, err := p.stmt()
		if err != nil {
			return ast.InvalidNode, err
		}
		id := p.arena.NewNode(ast.If, tok)
		n := p.arena.Node(id)
		n.Condition, n.Then = cond, then
		if p.is("else") {
			p.next()
			els, err := p.stmt()
			if err != nil {
				return ast.InvalidNode, err
			}
			p.arena.Node(id).Else = els
		}
		return id, nil

	case tok.Is("while"):
		p.next()
		if _, err := p.expect("("); err != nil {
			return ast.InvalidNode, err
		}
		cond, err := p.expr()
		if err != nil {
			return ast.InvalidNode, err
		}
		if _, err := p.expect(")"); err != nil {
			return ast.InvalidNode, err
		}
		then, err := p.stmt()
		if err != nil {
			return ast.InvalidNode, err
		}
		id := p.arena.NewNode(ast.ForStmt, tok)
		n := p.arena.Node(id)
		n.Condition, n.Then = cond, then
		return id, nil

	case tok.Is("for"):
		p.next()
		if _, err := p.expect("("); err != nil {
			return ast.InvalidNode, err
		}
		id := p.arena.NewNode(ast.ForStmt, tok)

		init, err := p.exprStmt()
		if err != nil {
			return ast.InvalidNode, err
		}
		p.arena.Node(id).Init = init

		if !p.is(";") {
			cond, err := p.expr()
			if err != nil {
				return ast.InvalidNode, err
			}
			p.arena.Node(id).Condition = cond
		}
		if _, err := p.expect(";"); err != nil {
			return ast.InvalidNode, err
		}

		if !p.is(")") {
			inc, err := p.expr()
			if err != nil {
				return ast.InvalidNode, err
			}
			p.arena.Node(id).Inc = inc
		}
		if _, err := p.expect(")"); err != nil {
			return ast.InvalidNode, err
		}

		then, err := p.stmt()
		if err != nil {
			return ast.InvalidNode, err
		}
		p.arena.Node(id).Then = then
		return id, nil

	case tok.Is("{"):
		p.next()
		return p.compoundStmt()

	default:
		return p.exprStmt()
	}
}

// exprStmt parses ";" | expr ";" - a no-op statement is represented as
// an empty Block node so that, e.g., a for-loop with an omitted init
// clause still has a valid NodeID to hold.
func (p *Parser) exprStmt() (ast.NodeID, error) {
	tok := p.peek()
	if p.is(";") {
		p.next()
		return p.arena.NewNode(ast.Block, tok), nil
	}
	e, err := p.expr()
	if err != nil {
		return ast.InvalidNode, err
	}
	if _, err := p.expect(";"); err != nil {
		return ast.InvalidNode, err
	}
	return p.arena.NewUnary(ast.ExpressionStmt, e, tok), nil
}

// declaration parses one comma-separated run of local declarators,
// each with an optional "= assign" initializer, and collapses them
// into a single Block node holding one ExpressionStmt per initializer
// (declarators with no initializer contribute nothing to the body).
func (p *Parser) declaration() (ast.NodeID, error) {
	headTok := p.peek()
	base, err := p.declSpec()
	if err != nil {
		return ast.InvalidNode, err
	}

	var head, tail ast.NodeID
	first := true
	for !p.is(";") {
		if !first {
			if _, err := p.expect(","); err != nil {
				return ast.InvalidNode, err
			}
		}
		first = false

		typ, err := p.declarator(base)
		if err != nil {
			return ast.InvalidNode, err
		}
		obj := p.newLocalVar(typ.Name, typ)

		if !p.is("=") {
			continue
		}
		varTok := p.peek()
		left := p.arena.NewVarNode(obj, varTok)
		p.next() // "="
		right, err := p.assign()
		if err != nil {
			return ast.InvalidNode, err
		}
		assignTok := p.peek()
		assignNode := p.arena.NewBinary(ast.Assign, left, right, assignTok)
		stmt := p.arena.NewUnary(ast.ExpressionStmt, assignNode, assignTok)

		if head == ast.InvalidNode {
			head = stmt
		} else {
			p.arena.Node(tail).Next = stmt
		}
		tail = stmt
	}
	p.next() // ";"

	block := p.arena.NewNode(ast.Block, headTok)
	p.arena.Node(block).Body = head
	return block, nil
}
