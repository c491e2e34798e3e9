// Package parser is a hand-written recursive-descent parser, with one
// token of look-ahead, that turns a token stream into a typed AST of
// top-level objects (functions and globals) with nested scopes and a
// per-function locals table.
package parser

import (
	"fmt"

	"github.com/Zheaoli/nadeshiko/ast"
	"github.com/Zheaoli/nadeshiko/ctype"
	"github.com/Zheaoli/nadeshiko/diag"
	"github.com/Zheaoli/nadeshiko/token"
)

// Result is everything the parser produces from one translation unit.
type Result struct {
	Arena     *ast.Arena
	Functions []ast.ObjID
	Globals   []ast.ObjID
}

// Parser holds the parse-time state: the token cursor, the AST/symbol
// arena, the current scope chain, and the locals table of whichever
// function is currently being parsed.
type Parser struct {
	src  string
	toks []token.Token
	pos  int // index of the next unconsumed token - the look-ahead cursor

	arena *ast.Arena
	scope *ast.Scope

	globalObjs []ast.ObjID
	localObjs  []ast.ObjID // reset per function

	anonCount int // counter backing ".L..<n>" anonymous string globals
}

// Parse tokenizes nothing itself - tokens is assumed already lexed -
// and returns the parsed functions and globals, in source order within
// each group.
func Parse(tokens []token.Token, src string) (*Result, error) {
	p := &Parser{
		src:   src,
		toks:  tokens,
		arena: ast.NewArena(),
		scope: ast.NewScope(),
	}

	for p.peek().Kind != token.EOF {
		basicType, err := p.declSpec()
		if err != nil {
			return nil, err
		}

		isFn, err := p.isFunction()
		if err != nil {
			return nil, err
		}
		if isFn {
			if _, err := p.function(basicType); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.globalVariable(basicType); err != nil {
			return nil, err
		}
	}

	var functions, globals []ast.ObjID
	for _, id := range p.globalObjs {
		obj := p.arena.Obj(id)
		if obj.IsFunction {
			functions = append(functions, id)
		} else {
			globals = append(globals, id)
		}
	}

	return &Result{Arena: p.arena, Functions: functions, Globals: globals}, nil
}

// --- token cursor -----------------------------------------------------

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) next() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) is(lit string) bool {
	return p.peek().Is(lit)
}

// expect consumes the next token and errors unless its literal is lit.
func (p *Parser) expect(lit string) (token.Token, error) {
	tok := p.peek()
	if !tok.Is(lit) {
		return tok, p.errorf(tok, "expected '%s'", lit)
	}
	return p.next(), nil
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	return diag.New(diag.Parse, p.src, tok.Offset, fmt.Sprintf(format, args...))
}

// --- declarations -------------------------------------------------------

// declSpec parses "int" | "char".
func (p *Parser) declSpec() (*ctype.Type, error) {
	tok := p.peek()
	switch {
	case tok.Is("char"):
		p.next()
		return ctype.TypeChar, nil
	case tok.Is("int"):
		p.next()
		return ctype.TypeInt, nil
	default:
		return nil, p.errorf(tok, "expected type")
	}
}

// declarator parses "*"* identifier type-suffix, starting from an
// independent copy of base so that comma-separated declarators never
// alias one another's Type.Name.
func (p *Parser) declarator(base *ctype.Type) (*ctype.Type, error) {
	typ := ctype.Copy(base)
	for p.is("*") {
		p.next()
		typ = ctype.PointerTo(typ)
	}

	tok := p.peek()
	if tok.Kind != token.Identifier {
		return nil, p.errorf(tok, "expected identifier")
	}
	p.next()

	typ, err := p.typeSuffix(typ)
	if err != nil {
		return nil, err
	}
	typ.Name = tok.Lit
	return typ, nil
}

// typeSuffix parses "(" params? ")" | "[" number "]" type-suffix | ε.
func (p *Parser) typeSuffix(base *ctype.Type) (*ctype.Type, error) {
	if p.is("(") {
		p.next()
		return p.funcParams(base)
	}
	if p.is("[") {
		p.next()
		tok := p.peek()
		if tok.Kind != token.Number {
			return nil, p.errorf(tok, "expected number")
		}
		p.next()
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		elem, err := p.typeSuffix(base)
		if err != nil {
			return nil, err
		}
		return ctype.ArrayOf(elem, int(tok.Value)), nil
	}
	return base, nil
}

// funcParams parses a parameter list (the parser has already consumed
// the opening paren) and wraps it into a Function type.
func (p *Parser) funcParams(ret *ctype.Type) (*ctype.Type, error) {
	var params []*ctype.Type
	for !p.is(")") {
		if len(params) > 0 {
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
		paramBase, err := p.declSpec()
		if err != nil {
			return nil, err
		}
		paramType, err := p.declarator(paramBase)
		if err != nil {
			return nil, err
		}
		params = append(params, ctype.Copy(paramType))
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	fn := ctype.FunctionType(ret)
	fn.Params = params
	return fn, nil
}

// isFunction peeks ahead (restoring the cursor afterwards) to decide
// whether the declarator about to be parsed names a function or a
// global variable.
func (p *Parser) isFunction() (bool, error) {
	if p.is(";") {
		return false, nil
	}
	saved := p.pos
	typ, err := p.declarator(&ctype.Type{})
	p.pos = saved
	if err != nil {
		return false, err
	}
	return typ.Kind == ctype.Function, nil
}

// function parses a complete function definition: the declarator (name
// + signature), then its parameter scope and compound-statement body.
func (p *Parser) function(basicType *ctype.Type) (ast.ObjID, error) {
	typ, err := p.declarator(basicType)
	if err != nil {
		return ast.InvalidObj, err
	}

	fnObj := p.newGlobalVar(typ.Name, typ)
	p.arena.Obj(fnObj).IsFunction = true

	p.localObjs = nil
	p.scope.Enter()
	p.createParamLocalVars(typ.Params)
	p.arena.Obj(fnObj).Params = append([]ast.ObjID(nil), p.localObjs...)

	if _, err := p.expect("{"); err != nil {
		return ast.InvalidObj, err
	}
	body, err := p.compoundStmt()
	if err != nil {
		return ast.InvalidObj, err
	}
	p.scope.Leave()

	obj := p.arena.Obj(fnObj)
	obj.Body = body
	obj.Locals = append([]ast.ObjID(nil), p.localObjs...)
	return fnObj, nil
}

// globalVariable parses one comma-separated run of global declarators.
func (p *Parser) globalVariable(basicType *ctype.Type) error {
	first := true
	for !p.is(";") {
		if !first {
			if _, err := p.expect(","); err != nil {
				return err
			}
		}
		first = false
		typ, err := p.declarator(basicType)
		if err != nil {
			return err
		}
		p.newGlobalVar(typ.Name, typ)
	}
	p.next() // ";"
	return nil
}

// createParamLocalVars flattens a parameter-type list (including any
// nested function-pointer parameter lists) into locals, in declaration
// order - mirroring the recursive flattening the reference
// implementation performs.
func (p *Parser) createParamLocalVars(params []*ctype.Type) {
	for _, param := range params {
		p.createParamLocalVars(param.Params)
		p.newLocalVar(param.Name, param)
	}
}

// --- symbol creation ------------------------------------------------------

func (p *Parser) newLocalVar(name string, typ *ctype.Type) ast.ObjID {
	id := p.arena.NewObj(name, typ, true)
	p.localObjs = append(p.localObjs, id)
	p.scope.Declare(name, id)
	return id
}

func (p *Parser) newGlobalVar(name string, typ *ctype.Type) ast.ObjID {
	id := p.arena.NewObj(name, typ, false)
	p.globalObjs = append(p.globalObjs, id)
	p.scope.DeclareGlobal(name, id)
	return id
}

func (p *Parser) newAnonGlobal(typ *ctype.Type) ast.ObjID {
	name := p.anonName()
	return p.newGlobalVar(name, typ)
}

func (p *Parser) anonName() string {
	name := fmt.Sprintf(".L..%d", p.anonCount)
	p.anonCount++
	return name
}
