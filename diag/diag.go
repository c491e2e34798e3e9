// Package diag renders compiler diagnostics as a source line followed
// by a caret pointing at the offending column, the shape every lexer,
// parser and semantic error in this compiler uses to report failure.
//
// Format is a pure function of its three arguments; it has no
// dependency on the rest of the pipeline so it can be exercised (and
// fuzzed, informally, across boundary offsets) in complete isolation.
package diag

import "strings"

// Format renders source + offset + message into the two-line
// "<source line>\n     ^ <message>" shape used throughout the compiler.
//
// offset is a byte offset into source as a whole, not into the
// returned line; Format locates the line containing it and re-bases
// the caret accordingly.
func Format(source string, offset int, message string) string {
	line, col := lineAndColumn(source, offset)

	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col))
	b.WriteByte('^')
	b.WriteByte(' ')
	b.WriteString(message)
	b.WriteByte('\n')
	return b.String()
}

// lineAndColumn returns the full text of the line containing offset,
// and offset's column within that line (0-based, byte-counted).
func lineAndColumn(source string, offset int) (string, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}

	start := strings.LastIndexByte(source[:offset], '\n') + 1

	end := strings.IndexByte(source[offset:], '\n')
	if end == -1 {
		end = len(source)
	} else {
		end += offset
	}

	return source[start:end], offset - start
}
