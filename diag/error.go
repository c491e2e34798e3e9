package diag

// Kind classifies a compiler diagnostic into one of the four buckets
// described by the error-handling design: lex, parse and semantic
// errors are all user-facing and fatal; Internal marks an invariant a
// correct program should never trip - a compiler bug, not a user one.
type Kind int

const (
	Lex Kind = iota
	Parse
	Semantic
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Semantic:
		return "semantic error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// Error is a fatal compiler diagnostic: a kind, the source text it
// refers to, a byte offset into that text, and a message. Its Error()
// method renders via Format, so every diagnostic in the compiler - no
// matter which phase raised it - prints in the same
// "<source line>\n     ^ <message>" shape.
type Error struct {
	Kind    Kind
	Source  string
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + Format(e.Source, e.Offset, e.Message)
}

// New constructs an Error of the given kind.
func New(kind Kind, source string, offset int, message string) *Error {
	return &Error{Kind: kind, Source: source, Offset: offset, Message: message}
}
