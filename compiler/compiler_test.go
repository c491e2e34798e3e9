package compiler

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// We try to compile several bogus programs and expect every one of
// them to fail.
func TestBogusInput(t *testing.T) {
	tests := []string{
		// missing return type
		"main(){ return 0; }",

		// unterminated string
		`int main(){ char *s = "abc; return 0; }`,

		// undefined variable
		"int main(){ return x; }",

		// invalid token
		"int main(){ return 1 $ 2; }",

		// assignment to an array
		"int main(){ int a[3]; int b[3]; a = b; return 0; }",
	}

	for _, test := range tests {
		c := New(test)
		if _, err := c.Compile(); err == nil {
			t.Errorf("expected an error compiling %q, got none", test)
		}
	}
}

// Test some valid programs compile without error and produce the
// fixed section layout the output format requires.
func TestValidPrograms(t *testing.T) {
	tests := []string{
		"int main(){ return 0; }",
		"int main(){ return 3+5-2; }",
		"int main(){ int a=3; int b=4; return a*b+2; }",
		"int main(){ int i=0; int s=0; for(i=1;i<=10;i=i+1) s=s+i; return s; }",
		"int add(int x,int y){ return x+y; } int main(){ return add(3, add(4,5)); }",
		`int main(){ char *s="abc"; return s[0] + s[1] + s[2]; }`,
	}

	for _, test := range tests {
		c := New(test)
		out, err := c.Compile()
		if err != nil {
			t.Fatalf("unexpected error compiling %q: %s", test, err)
		}
		if !strings.Contains(out, ".global main") {
			t.Errorf("expected output for %q to export main, got:\n%s", test, out)
		}
		if !strings.Contains(out, ".L.return.main:") {
			t.Errorf("expected output for %q to contain main's return label, got:\n%s", test, out)
		}
	}
}

// Scenario 5 from the end-to-end table: pointer/array interplay.
func TestPointerArithmetic(t *testing.T) {
	src := "int main(){ int a[3]; a[0]=1; a[1]=2; a[2]=4; int *p=a; return *(p+2) + a[1]; }"
	c := New(src)
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, "imul") {
		t.Errorf("expected pointer-arithmetic scaling to emit an imul, got:\n%s", out)
	}
}

// Scenario 7's string literal must end up in the .data section as one
// .byte per payload character, plus a trailing NUL.
func TestStringLiteralData(t *testing.T) {
	src := `int main(){ char *s="abc"; return s[0]; }`
	c := New(src)
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, want := range []string{".byte 97", ".byte 98", ".byte 99", ".byte 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDebugAddsMarkersWithoutBreakingSections(t *testing.T) {
	src := "int main(){ return 42; }"
	quiet := New(src)
	quietOut, err := quiet.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	loud := New(src)
	loud.SetDebug(true)
	loudOut, err := loud.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if quietOut == loudOut {
		t.Fatalf("expected SetDebug to add debug markers to the emitted assembly")
	}
	if !strings.Contains(loudOut, "int3") || !strings.Contains(loudOut, "# function: main") {
		t.Fatalf("expected SetDebug output to contain a breakpoint and a function banner, got:\n%s", loudOut)
	}
	if !strings.Contains(loudOut, ".L.return.main:") {
		t.Fatalf("expected SetDebug output to still contain the normal return label, got:\n%s", loudOut)
	}
}

func TestSetLoggerDoesNotChangeOutput(t *testing.T) {
	src := "int main(){ return 7; }"

	quiet := New(src)
	quietOut, err := quiet.Compile()
	require.NoError(t, err)

	var buf strings.Builder
	traced := New(src)
	traced.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	tracedOut, err := traced.Compile()
	require.NoError(t, err)

	require.Equal(t, quietOut, tracedOut, "SetLogger must only affect logging, not the emitted assembly")
	require.NotEmpty(t, buf.String(), "expected phase-tracing events to be written to the installed logger")
}
