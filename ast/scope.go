package ast

import "github.com/Zheaoli/nadeshiko/stack"

// Frame is one level of the scope chain: a name to symbol mapping for
// everything declared directly inside one pair of braces (or, for the
// outermost frame, the whole translation unit).
type Frame struct {
	vars map[string]ObjID
}

func newFrame() *Frame {
	return &Frame{vars: make(map[string]ObjID)}
}

// Scope is the parser's stack of scope frames. The top-level frame -
// pushed once, by NewScope, and never popped - holds globals and
// function names; every "{" pushes a fresh frame, every matching "}"
// pops it.
type Scope struct {
	frames *stack.Stack[*Frame]
}

// NewScope returns a scope with its top-level (global) frame already
// pushed.
func NewScope() *Scope {
	s := &Scope{frames: stack.New[*Frame]()}
	s.frames.Push(newFrame())
	return s
}

// Enter pushes a fresh, empty frame - call on every "{".
func (s *Scope) Enter() {
	s.frames.Push(newFrame())
}

// Leave pops the innermost frame - call on every matching "}".
// Leaving the top-level frame is a programmer error.
func (s *Scope) Leave() {
	if s.frames.Len() <= 1 {
		panic("ast: unbalanced scope: Leave() would pop the top-level frame")
	}
	s.frames.Pop()
}

// Declare binds name to obj in the innermost frame.
func (s *Scope) Declare(name string, obj ObjID) {
	top, err := s.frames.Peek()
	if err != nil {
		panic("ast: Declare() with no scope frame pushed")
	}
	top.vars[name] = obj
}

// DeclareGlobal binds name to obj in the bottom (translation-unit)
// frame regardless of how deeply nested the parser currently is -
// used for function and global-variable names, which are always
// visible at file scope no matter where in the grammar they're named.
func (s *Scope) DeclareGlobal(name string, obj ObjID) {
	frames := s.frames.All()
	frames[0].vars[name] = obj
}

// Lookup resolves name by walking the scope chain innermost-outward,
// returning the first hit. The second return value is false on a miss.
func (s *Scope) Lookup(name string) (ObjID, bool) {
	frames := s.frames.All()
	for i := len(frames) - 1; i >= 0; i-- {
		if obj, ok := frames[i].vars[name]; ok {
			return obj, true
		}
	}
	return InvalidObj, false
}

// Depth returns the number of frames currently pushed - 1 means only
// the top-level (global) frame is live.
func (s *Scope) Depth() int {
	return s.frames.Len()
}
