package lexer

import (
	"strings"
	"testing"

	"github.com/logsurgeon/logsurgeon/schema"
)

const mixedLogSchemaDoc = `
timestamp:
  - '\d{4}-\d{2}-\d{2}'
variables:
  id: '\d+'
delimiters: ' '
`

// TestTimestampVariableMixedLogTokenStream tokenizes a two-line log mixing
// timestamps, an unmatched word, an unmatched key=value run, and plain
// text, checked at the raw token-stream level (LogEvent grouping belongs
// to the logparser package).
// Input: "2024-01-02 hello id=42\n2024-01-03 bye\n".
func TestTimestampVariableMixedLogTokenStream(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader("2024-01-02 hello id=42\n2024-01-03 bye\n"))

	type want struct {
		typ    TokenType
		lexeme string
	}
	expected := []want{
		{Timestamp, "2024-01-02"},
		{Whitespace, " "},
		{StaticText, "hello"},
		{Whitespace, " "},
		{StaticText, "id=42"},
		{Newline, "\n"},
		{Timestamp, "2024-01-03"},
		{Whitespace, " "},
		{StaticText, "bye"},
		{Newline, "\n"},
	}

	for i, w := range expected {
		tok, err := lx.GetNextToken()
		if err != nil {
			t.Fatalf("token %d: GetNextToken failed: %v", i, err)
		}
		if tok == nil {
			t.Fatalf("token %d: got EOF, want %s[%q]", i, w.typ, w.lexeme)
		}
		if tok.Type != w.typ || string(tok.Lexeme) != w.lexeme {
			t.Errorf("token %d: got %s[%q], want %s[%q]", i, tok.Type, tok.Lexeme, w.typ, w.lexeme)
		}
	}

	tok, err := lx.GetNextToken()
	if err != nil {
		t.Fatalf("final GetNextToken failed: %v", err)
	}
	if tok != nil {
		t.Fatalf("expected EOF after the expected tokens, got %v", tok)
	}
}

// TestTimestampVariablePatternIndices checks that the leading Timestamp
// token carries its declared pattern index (the schema declares exactly
// one timestamp pattern, so the index is 0).
func TestTimestampVariablePatternIndices(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader("2024-01-02 hello id=42\n"))

	tok, err := lx.GetNextToken()
	if err != nil || tok == nil {
		t.Fatalf("GetNextToken failed: %v, %v", tok, err)
	}
	if tok.Type != Timestamp || tok.PatternIndex != 0 {
		t.Errorf("got %v, want Timestamp(0)", tok)
	}
}

// TestByteRoundTrip checks the invariant that concatenating every emitted
// lexeme reproduces the input exactly, byte for byte.
func TestByteRoundTrip(t *testing.T) {
	const input = "2024-01-02 hello id=42\n2024-01-03 bye\nnum=007 trailing\n"
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader(input))

	var rebuilt strings.Builder
	newlines := 0
	for {
		tok, err := lx.GetNextToken()
		if err != nil {
			t.Fatalf("GetNextToken failed: %v", err)
		}
		if tok == nil {
			break
		}
		rebuilt.Write(tok.Lexeme)
		if tok.Type == Newline {
			newlines++
		}
	}
	if rebuilt.String() != input {
		t.Errorf("round-trip mismatch:\n got  %q\n want %q", rebuilt.String(), input)
	}
	wantNewlines := strings.Count(input, "\n")
	if newlines != wantNewlines {
		t.Errorf("newline token count = %d, want %d", newlines, wantNewlines)
	}
}

// TestVariableMatchInsideUnmatchedRun ensures a pattern that could start
// matching partway through an already-failing run does not split it: once
// the first byte of a lexeme can't start any pattern, the entire run up to
// the next delimiter is one StaticText token (e.g. "id=42").
func TestVariableMatchInsideUnmatchedRun(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader("id=42\n"))

	tok, err := lx.GetNextToken()
	if err != nil || tok == nil {
		t.Fatalf("GetNextToken failed: %v, %v", tok, err)
	}
	if tok.Type != StaticText || string(tok.Lexeme) != "id=42" {
		t.Errorf("got %v, want StaticText[\"id=42\"]", tok)
	}
}

// TestTrailingUnmatchedByteAfterPattern checks that a pattern match which
// stops short of the next delimiter yields a second, separate token for
// the remaining unmatched bytes rather than absorbing them.
func TestTrailingUnmatchedByteAfterPattern(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader("2024-01-02X \n"))

	tok1, err := lx.GetNextToken()
	if err != nil || tok1 == nil {
		t.Fatalf("GetNextToken failed: %v, %v", tok1, err)
	}
	if tok1.Type != Timestamp || string(tok1.Lexeme) != "2024-01-02" {
		t.Fatalf("got %v, want Timestamp[\"2024-01-02\"]", tok1)
	}
	tok2, err := lx.GetNextToken()
	if err != nil || tok2 == nil {
		t.Fatalf("GetNextToken failed: %v, %v", tok2, err)
	}
	if tok2.Type != StaticText || string(tok2.Lexeme) != "X" {
		t.Errorf("got %v, want StaticText[\"X\"]", tok2)
	}
}

// TestEmptyInputYieldsEOF checks GetNextToken on an empty stream returns
// (nil, nil), not an error.
func TestEmptyInputYieldsEOF(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader(""))
	tok, err := lx.GetNextToken()
	if err != nil || tok != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", tok, err)
	}
}

// TestNonASCIIByteRejected exercises the hard-error path for any byte above
// the ASCII range.
func TestNonASCIIByteRejected(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	lx := New(cfg)
	lx.SetInputStream(strings.NewReader("caf\xc3\xa9\n"))
	for i := 0; i < 10; i++ {
		tok, err := lx.GetNextToken()
		if err != nil {
			return
		}
		if tok == nil {
			t.Fatal("reached EOF without hitting the non-ASCII error")
		}
	}
	t.Fatal("expected a NonASCIICharacterError before 10 tokens")
}
