package logparser

import (
	"strings"
	"testing"

	"github.com/logsurgeon/logsurgeon/lexer"
	"github.com/logsurgeon/logsurgeon/schema"
)

const mixedLogSchemaDoc = `
timestamp:
  - '\d{4}-\d{2}-\d{2}'
variables:
  id: '\d+'
delimiters: ' '
`

// TestTimestampVariableMixedLogEndToEnd checks a two-line log mixing
// timestamps, an unmatched word, and an unmatched key=value run splits
// into two LogEvents: one per line, from
// "2024-01-02 hello id=42\n2024-01-03 bye\n".
func TestTimestampVariableMixedLogEndToEnd(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	p := New(cfg)
	p.SetInputStream(strings.NewReader("2024-01-02 hello id=42\n2024-01-03 bye\n"))

	ev1, err := p.ParseNextLogEvent()
	if err != nil {
		t.Fatalf("event 1: %v", err)
	}
	if ev1 == nil {
		t.Fatal("event 1: got nil, want an event")
	}
	wantLexemes1 := []string{"2024-01-02", " ", "hello", " ", "id=42", "\n"}
	checkLexemes(t, "event 1", ev1.Tokens, wantLexemes1)
	if !ev1.HasTimestamp {
		t.Error("event 1: HasTimestamp = false, want true")
	}
	if ev1.LineRange != [2]int{1, 1} {
		t.Errorf("event 1: LineRange = %v, want (1,1)", ev1.LineRange)
	}

	ev2, err := p.ParseNextLogEvent()
	if err != nil {
		t.Fatalf("event 2: %v", err)
	}
	if ev2 == nil {
		t.Fatal("event 2: got nil, want an event")
	}
	wantLexemes2 := []string{"2024-01-03", " ", "bye", "\n"}
	checkLexemes(t, "event 2", ev2.Tokens, wantLexemes2)
	if ev2.LineRange != [2]int{2, 2} {
		t.Errorf("event 2: LineRange = %v, want (2,2)", ev2.LineRange)
	}

	ev3, err := p.ParseNextLogEvent()
	if err != nil {
		t.Fatalf("after last event: %v", err)
	}
	if ev3 != nil {
		t.Fatalf("got a third event %v, want nil", ev3)
	}
}

// TestEmptyStreamYieldsNoEvent checks that an input with no tokens at all
// returns (nil, nil) rather than a LogParserInternalError.
func TestEmptyStreamYieldsNoEvent(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	p := New(cfg)
	p.SetInputStream(strings.NewReader(""))
	ev, err := p.ParseNextLogEvent()
	if err != nil || ev != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", ev, err)
	}
}

// TestNoLeadingTimestamp checks an event whose buffer never saw a
// Timestamp token reports HasTimestamp = false.
func TestNoLeadingTimestamp(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	p := New(cfg)
	p.SetInputStream(strings.NewReader("hello world\n"))
	ev, err := p.ParseNextLogEvent()
	if err != nil {
		t.Fatalf("ParseNextLogEvent failed: %v", err)
	}
	if ev == nil {
		t.Fatal("got nil, want an event")
	}
	if ev.HasTimestamp {
		t.Error("HasTimestamp = true, want false")
	}
	if ev.TimestampToken() != nil {
		t.Error("TimestampToken() non-nil for a timestamp-less event")
	}
}

// TestLineRangeInvariant checks that every token's line falls within the
// event's line range, across a multi-line message.
func TestLineRangeInvariant(t *testing.T) {
	cfg, err := schema.ParseFromString(mixedLogSchemaDoc)
	if err != nil {
		t.Fatalf("ParseFromString failed: %v", err)
	}
	p := New(cfg)
	p.SetInputStream(strings.NewReader("2024-01-02 first\nsecond\nthird\n2024-01-03 next\n"))

	ev, err := p.ParseNextLogEvent()
	if err != nil || ev == nil {
		t.Fatalf("ParseNextLogEvent failed: %v, %v", ev, err)
	}
	if ev.LineRange[0] > ev.LineRange[1] {
		t.Fatalf("LineRange = %v, want first <= last", ev.LineRange)
	}
	for _, tok := range ev.Tokens {
		if tok.Line < ev.LineRange[0] || tok.Line > ev.LineRange[1] {
			t.Errorf("token %v has line %d outside range %v", tok, tok.Line, ev.LineRange)
		}
	}
}

func checkLexemes(t *testing.T, label string, tokens []lexer.Token, want []string) {
	t.Helper()
	if len(tokens) != len(want) {
		t.Fatalf("%s: got %d tokens, want %d (%v)", label, len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if string(tokens[i].Lexeme) != w {
			t.Errorf("%s: token %d lexeme = %q, want %q", label, i, tokens[i].Lexeme, w)
		}
	}
}
