// Package logparser groups a lexer's token stream into LogEvents, chunking
// on timestamp boundaries.
package logparser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logsurgeon/logsurgeon/errs"
	"github.com/logsurgeon/logsurgeon/lexer"
	"github.com/logsurgeon/logsurgeon/schema"
)

// LogEvent is the maximal run of tokens whose only Timestamp token, if any,
// is the first one.
type LogEvent struct {
	Tokens       []lexer.Token
	LineRange    [2]int
	HasTimestamp bool
	Schema       *schema.Config
}

// TimestampToken returns the event's leading timestamp token, or nil if the
// event has none.
func (e *LogEvent) TimestampToken() *lexer.Token {
	if !e.HasTimestamp {
		return nil
	}
	return &e.Tokens[0]
}

// MessageTokens returns the tokens after the leading timestamp, if any:
// every token belonging to the event's message body.
func (e *LogEvent) MessageTokens() []lexer.Token {
	if e.HasTimestamp {
		return e.Tokens[1:]
	}
	return e.Tokens
}

// String renders a debug form: the timestamp token (or "NONE"), then the
// message tokens grouped per line.
func (e *LogEvent) String() string {
	var b strings.Builder
	if e.HasTimestamp {
		fmt.Fprintf(&b, "%s\n", e.Tokens[0].String())
	} else {
		b.WriteString("NONE\n")
	}

	lines := map[int][]lexer.Token{}
	var order []int
	for _, tok := range e.MessageTokens() {
		if _, seen := lines[tok.Line]; !seen {
			order = append(order, tok.Line)
		}
		lines[tok.Line] = append(lines[tok.Line], tok)
	}
	for _, line := range order {
		fmt.Fprintf(&b, "  line %d:", line)
		for _, tok := range lines[line] {
			fmt.Fprintf(&b, " %s", tok.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// LogParser consumes a Lexer's token stream and buffers it into LogEvents.
// A LogParser is built once per schema.Config and reattached to successive
// input streams via SetInputStream/SetInputFile.
type LogParser struct {
	schema *schema.Config
	lexer  *lexer.Lexer
	buffer []lexer.Token
	closer io.Closer
}

// New builds a LogParser over cfg, constructing its own Lexer from it.
func New(cfg *schema.Config) *LogParser {
	return &LogParser{schema: cfg, lexer: lexer.New(cfg)}
}

// SetInputFile opens path and attaches it as the lexer's input source. The
// file is closed the moment ParseNextLogEvent first reaches end of stream,
// or immediately if the parser is pointed at a different input before
// then; the caller never needs to close it directly.
func (p *LogParser) SetInputFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &errs.IOError{Err: err}
	}
	p.SetInputStream(f)
	p.closer = f
	return nil
}

// SetInputStream attaches r as the input source, discarding any buffered
// tokens from a previous stream and closing it if it was opened via
// SetInputFile.
func (p *LogParser) SetInputStream(r io.Reader) {
	p.closeCurrent()
	p.lexer.SetInputStream(r)
	p.buffer = nil
}

// closeCurrent closes the file opened by a prior SetInputFile call, if
// any, and clears it so it is never closed twice.
func (p *LogParser) closeCurrent() {
	if p.closer != nil {
		p.closer.Close()
		p.closer = nil
	}
}

// ParseNextLogEvent returns the next LogEvent, or (nil, nil) at end of
// stream. Tokens accumulate in an internal buffer until a second
// Timestamp token arrives (or the stream ends), at which point the
// buffer is emitted as one event.
func (p *LogParser) ParseNextLogEvent() (*LogEvent, error) {
	for {
		tok, err := p.lexer.GetNextToken()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return p.flush()
		}
		if tok.Type == lexer.Timestamp {
			if len(p.buffer) == 0 {
				p.buffer = append(p.buffer, *tok)
				continue
			}
			event, err := p.buildEvent(p.buffer)
			if err != nil {
				return nil, err
			}
			p.buffer = []lexer.Token{*tok}
			return event, nil
		}
		p.buffer = append(p.buffer, *tok)
	}
}

// flush emits the remaining buffered tokens as a final event, or (nil, nil)
// if the buffer is empty; end of stream with no buffered tokens is not an
// error. Called once the lexer reports end of stream, so it also closes
// any file opened via SetInputFile.
func (p *LogParser) flush() (*LogEvent, error) {
	p.closeCurrent()
	if len(p.buffer) == 0 {
		return nil, nil
	}
	event, err := p.buildEvent(p.buffer)
	if err != nil {
		return nil, err
	}
	p.buffer = nil
	return event, nil
}

// buildEvent constructs a LogEvent from a non-empty token buffer. An empty
// buffer reaching here is an internal invariant violation, guarded against
// by every caller.
func (p *LogParser) buildEvent(tokens []lexer.Token) (*LogEvent, error) {
	if len(tokens) == 0 {
		return nil, &errs.LogParserInternalError{Reason: "buildEvent called with an empty token buffer"}
	}
	owned := make([]lexer.Token, len(tokens))
	copy(owned, tokens)
	return &LogEvent{
		Tokens:       owned,
		LineRange:    [2]int{owned[0].Line, owned[len(owned)-1].Line},
		HasTimestamp: owned[0].Type == lexer.Timestamp,
		Schema:       p.schema,
	}, nil
}
