package diag

import (
	"strings"
	"testing"
)

func TestFormatMiddleOfLine(t *testing.T) {
	src := "int main() {\n  retrun 1;\n}\n"
	offset := strings.Index(src, "retrun")
	out := Format(src, offset, "unexpected token")

	lines := strings.Split(out, "\n")
	if lines[0] != "  retrun 1;" {
		t.Fatalf("unexpected source line: %q", lines[0])
	}
	if lines[1] != "  ^ unexpected token" {
		t.Fatalf("unexpected caret line: %q", lines[1])
	}
}

func TestFormatStartOfLine(t *testing.T) {
	src := "abc\n"
	out := Format(src, 0, "invalid token")
	want := "abc\n^ invalid token\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestFormatEndOfSource(t *testing.T) {
	src := "int x"
	out := Format(src, len(src), "expected ;")
	lines := strings.Split(out, "\n")
	if lines[0] != "int x" {
		t.Fatalf("unexpected source line: %q", lines[0])
	}
	if lines[1] != "     ^ expected ;" {
		t.Fatalf("unexpected caret line: %q", lines[1])
	}
}

func TestFormatSingleLineSource(t *testing.T) {
	src := "1 +"
	out := Format(src, 2, "expected an expression")
	want := "1 +\n  ^ expected an expression\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
