// Package compiler wires the four core phases - lexer, parser,
// annotator, code generator - into the single linear pipeline that
// turns one translation unit's source text into assembly text.
package compiler

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Zheaoli/nadeshiko/ast"
	"github.com/Zheaoli/nadeshiko/codegen"
	"github.com/Zheaoli/nadeshiko/lexer"
	"github.com/Zheaoli/nadeshiko/parser"
	"github.com/Zheaoli/nadeshiko/sema"
)

// Compiler holds our object-state.
type Compiler struct {
	// debug holds a flag asking the code generator to emit its
	// debug markers (a comment banner per function, a breakpoint at
	// main's entry).
	debug bool

	// logger receives one Debug event per phase when set; it is
	// zerolog.Nop() by default, so nothing is logged unless the
	// caller opts in via SetLogger.
	logger zerolog.Logger

	// source holds the source text we're compiling.
	source string

	// arena holds the AST/symbol table built by Parse, kept around so
	// Compile's phases can keep passing it by reference.
	arena *ast.Arena

	// functions and globals are the top-level objects Parse produced,
	// partitioned in source order.
	functions []ast.ObjID
	globals   []ast.ObjID
}

// New creates a new compiler, given the source text in the constructor.
func New(source string) *Compiler {
	return &Compiler{source: source, logger: zerolog.Nop()}
}

// SetDebug changes the debug-flag: when set, Compile asks codegen to
// emit its debug markers in the generated assembly.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// SetLogger installs a logger that receives one Debug event per
// compile phase. Callers that don't want phase tracing simply never
// call this - the zero-value Compiler logs nothing.
func (c *Compiler) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// Compile converts the input translation unit into AT&T-syntax x86-64
// assembly text. Every phase either produces a full value or returns
// an error immediately - there is no recovery.
func (c *Compiler) Compile() (string, error) {
	logger := c.logger

	logger.Debug().Msg("tokenizing")
	tokens, err := lexer.Tokenize(c.source)
	if err != nil {
		return "", errors.Wrap(err, "lexing failed")
	}

	logger.Debug().Int("tokens", len(tokens)).Msg("parsing")
	result, err := parser.Parse(tokens, c.source)
	if err != nil {
		return "", errors.Wrap(err, "parsing failed")
	}
	c.arena = result.Arena
	c.functions = result.Functions
	c.globals = result.Globals

	logger.Debug().Int("functions", len(c.functions)).Int("globals", len(c.globals)).Msg("annotating types")
	if err := sema.Program(c.source, c.arena, c.functions); err != nil {
		return "", errors.Wrap(err, "type annotation failed")
	}

	logger.Debug().Msg("generating assembly")
	out, err := codegen.Generate(c.source, c.arena, c.functions, c.globals, c.debug)
	if err != nil {
		return "", errors.Wrap(err, "code generation failed")
	}

	return out, nil
}
