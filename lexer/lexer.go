// Package lexer implements the streaming, multi-pattern tokenizer: it
// fuses every schema pattern into one NFA and runs subset construction
// over the input one byte at a time, emitting delimiter-bounded tokens
// classified by longest match.
package lexer

import (
	"bufio"
	"io"

	"github.com/logsurgeon/logsurgeon/errs"
	"github.com/logsurgeon/logsurgeon/nfa"
	"github.com/logsurgeon/logsurgeon/schema"
)

// Lexer streams bytes from an attached input source and emits a sequence
// of Tokens. A Lexer is built once per schema.Config (the fused NFA is
// compiled once in New) and reattached to successive input streams via
// SetInputStream.
type Lexer struct {
	schema   *schema.Config
	fused    *nfa.NFA
	tags     []patternTag
	acceptOf map[nfa.StateID]int

	r    *bufio.Reader
	line int
}

// New builds a Lexer for cfg, fusing its timestamp and variable pattern
// NFAs into a single automaton. cfg is read-only from this point on and
// may be shared by many Lexers.
func New(cfg *schema.Config) *Lexer {
	fused, tags, acceptOf := fuseSchema(cfg)
	return &Lexer{schema: cfg, fused: fused, tags: tags, acceptOf: acceptOf}
}

// SetInputStream attaches r as the byte source, resetting the line
// counter to 1 and discarding any in-flight simulation state.
func (lx *Lexer) SetInputStream(r io.Reader) {
	// A generous buffer so a single lexeme (an unbounded variable match,
	// e.g. `\w+`) can be peeked in one pass without hitting
	// bufio.ErrBufferFull before a delimiter or a dead NFA state ends it.
	lx.r = bufio.NewReaderSize(r, 64*1024)
	lx.line = 1
}

// GetNextToken returns the next token, or (nil, nil) when the stream is
// exhausted. It is safe to call repeatedly past end of stream.
func (lx *Lexer) GetNextToken() (*Token, error) {
	head, err := lx.peek(1)
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return nil, nil
	}
	c := head[0]
	if c > 127 {
		return nil, &errs.NonASCIICharacterError{Byte: c, Context: "input stream"}
	}
	if lx.schema.HasDelimiter(c) {
		lx.discard(1)
		line := lx.line
		if c == '\n' {
			lx.line++
			return &Token{Type: Newline, Lexeme: []byte{c}, Line: line}, nil
		}
		return &Token{Type: Whitespace, Lexeme: []byte{c}, Line: line}, nil
	}
	return lx.scanLexeme(c)
}

// scanLexeme implements tokenization protocol rules 2-6: it runs subset
// construction forward, one peeked byte at a time, tracking the longest
// prefix at which some pattern's accept state is in the active set, and
// only commits (discards from the stream) the bytes belonging to that
// best match, never the extra lookahead spent searching for a longer one.
func (lx *Lexer) scanLexeme(first byte) (*Token, error) {
	startLine := lx.line
	active := nfa.EpsilonClosure(lx.fused, []nfa.StateID{lx.fused.Start})

	n := 0
	bestLen, bestTag, haveBest := 0, 0, false
	for {
		window, err := lx.peek(n + 1)
		if err != nil {
			return nil, err
		}
		if len(window) <= n {
			break // end of stream
		}
		c := window[n]
		if c > 127 {
			return nil, &errs.NonASCIICharacterError{Byte: c, Context: "input stream"}
		}
		if lx.schema.HasDelimiter(c) {
			break
		}
		next := nfa.EpsilonClosure(lx.fused, nfa.Step(lx.fused, active, c))
		if len(next) == 0 {
			break
		}
		active = next
		n++
		if tag, ok := bestAcceptAt(active, lx.acceptOf); ok {
			bestLen, bestTag, haveBest = n, tag, true
		}
	}

	if n == 0 {
		// No pattern's NFA could even take a step on `first`: nothing
		// matches starting here. Rather than emit a one-byte token (which
		// would fragment an unrecognized run like "id=42" into five
		// StaticText tokens), swallow forward to the next delimiter or
		// end of stream and emit the whole run as one StaticText token,
		// so an unrecognized run like "id=42" or "hello" comes out as a
		// single StaticText token instead of fragmenting byte by byte.
		// This also guarantees forward progress: at least one byte is
		// always consumed, so the scan never loops on a zero-length
		// match.
		consumed := 1
		for {
			window, err := lx.peek(consumed + 1)
			if err != nil {
				return nil, err
			}
			if len(window) <= consumed {
				break
			}
			c := window[consumed]
			if c > 127 {
				return nil, &errs.NonASCIICharacterError{Byte: c, Context: "input stream"}
			}
			if lx.schema.HasDelimiter(c) {
				break
			}
			consumed++
		}
		window, err := lx.peek(consumed)
		if err != nil {
			return nil, err
		}
		lexeme := append([]byte(nil), window[:consumed]...)
		lx.discard(consumed)
		return &Token{Type: StaticText, Lexeme: lexeme, Line: startLine}, nil
	}

	if !haveBest {
		window, err := lx.peek(n)
		if err != nil {
			return nil, err
		}
		lexeme := append([]byte(nil), window[:n]...)
		lx.discard(n)
		return &Token{Type: StaticText, Lexeme: lexeme, Line: startLine}, nil
	}

	window, err := lx.peek(bestLen)
	if err != nil {
		return nil, err
	}
	lexeme := append([]byte(nil), window[:bestLen]...)
	lx.discard(bestLen)

	pt := lx.tags[bestTag]
	tokenType := Variable
	if pt.kind == kindTimestamp {
		tokenType = Timestamp
	}
	return &Token{Type: tokenType, PatternIndex: pt.index, Lexeme: lexeme, Line: startLine}, nil
}

// peek returns up to n bytes without consuming them. A short read (fewer
// than n bytes, nil error) signals end of stream reached within the
// window; io.EOF and bufio.ErrBufferFull are not propagated, so a lexeme
// longer than the reader's buffer ends at the buffer size. Any other
// error is propagated.
func (lx *Lexer) peek(n int) ([]byte, error) {
	b, err := lx.r.Peek(n)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, &errs.IOError{Err: err}
	}
	return b, nil
}

// discard consumes n bytes previously returned by peek.
func (lx *Lexer) discard(n int) {
	if _, err := lx.r.Discard(n); err != nil {
		panic("lexer: discard failed after a successful peek: " + err.Error())
	}
}
