// Package regexparser translates a restricted regex source string directly
// into an ast.Node tree.
//
// It does not delegate to the standard library's regexp/syntax: that
// package resolves negated classes and Perl shorthands (\D, \S, \W, [^...])
// into explicit rune ranges during parsing, erasing exactly the
// distinctions this module's AST needs to preserve (a PerlClass's identity,
// a Bracketed's negation flag) so that the NFA builder can reject them with
// a precise error instead of silently compiling the wrong language. A
// hand-rolled recursive-descent parser keeps that information intact.
package regexparser

import (
	"fmt"

	"github.com/logsurgeon/logsurgeon/ast"
	"github.com/logsurgeon/logsurgeon/errs"
)

// Parse parses pattern into an AST. It returns a *errs.NonASCIICharacterError
// for any byte above 127, and a *errs.RegexSyntaxError for malformed syntax
// (unbalanced parens/brackets, a dangling quantifier, an invalid escape, an
// invalid repetition bound). Unsupported-but-well-formed constructs
// (negation, non-greedy repetition, non-capturing groups) are NOT rejected
// here: they parse into their corresponding AST node and are rejected later,
// when the NFA builder attempts to compile that node.
func Parse(pattern string) (ast.Node, error) {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] > 127 {
			return nil, &errs.NonASCIICharacterError{Byte: pattern[i], Context: "regex pattern"}
		}
	}
	p := &parser{src: pattern, pos: 0}
	n, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, &errs.RegexSyntaxError{Pattern: pattern, Err: fmt.Errorf("unexpected %q at position %d", p.src[p.pos], p.pos)}
	}
	return n, nil
}

type parser struct {
	src       string
	pos       int
	nextGroup int // next 1-based capture-group index to assign
}

func (p *parser) errf(format string, args ...any) error {
	return &errs.RegexSyntaxError{Pattern: p.src, Err: fmt.Errorf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	return c
}

// parseAlternation := concat ('|' concat)*
func (p *parser) parseAlternation() (ast.Node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	children := []ast.Node{first}
	for !p.eof() && p.peek() == '|' {
		p.advance()
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return ast.Alternation{Children: children}, nil
}

// parseConcat := repetition*, stopping at '|', ')', or end of input.
func (p *parser) parseConcat() (ast.Node, error) {
	var children []ast.Node
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		n, err := p.parseRepetition()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	switch len(children) {
	case 0:
		return ast.Concat{Children: nil}, nil
	case 1:
		return children[0], nil
	default:
		return ast.Concat{Children: children}, nil
	}
}

// parseRepetition := atom quantifier?
func (p *parser) parseRepetition() (ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return atom, nil
	}
	var kind ast.RepetitionKind
	min, max := 0, 0
	switch p.peek() {
	case '?':
		p.advance()
		kind, min, max = ast.ZeroOrOne, 0, 1
	case '*':
		p.advance()
		kind, min = ast.ZeroOrMore, 0
	case '+':
		p.advance()
		kind, min = ast.OneOrMore, 1
	case '{':
		k, lo, hi, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		kind, min, max = k, lo, hi
	default:
		return atom, nil
	}
	greedy := true
	if !p.eof() && p.peek() == '?' {
		p.advance()
		greedy = false
	}
	return ast.Repetition{Inner: atom, Greedy: greedy, Kind: kind, Min: min, Max: max}, nil
}

// parseBound parses a `{n}`, `{n,}`, or `{n,m}` quantifier, '{' already
// pending at p.pos.
func (p *parser) parseBound() (ast.RepetitionKind, int, int, error) {
	start := p.pos
	p.advance() // '{'
	n, ok := p.parseInt()
	if !ok {
		p.pos = start
		return 0, 0, 0, p.errf("invalid repetition bound at position %d", start)
	}
	if p.eof() {
		return 0, 0, 0, p.errf("unterminated repetition bound")
	}
	if p.peek() == '}' {
		p.advance()
		return ast.Exactly, n, n, nil
	}
	if p.peek() != ',' {
		return 0, 0, 0, p.errf("malformed repetition bound")
	}
	p.advance() // ','
	if !p.eof() && p.peek() == '}' {
		p.advance()
		return ast.AtLeast, n, 0, nil
	}
	m, ok := p.parseInt()
	if !ok || p.eof() || p.peek() != '}' {
		return 0, 0, 0, p.errf("malformed repetition bound")
	}
	p.advance() // '}'
	if m < n {
		return 0, 0, 0, p.errf("repetition bound max %d less than min %d", m, n)
	}
	return ast.Bounded, n, m, nil
}

func (p *parser) parseInt() (int, bool) {
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	if p.pos == start {
		return 0, false
	}
	n := 0
	for _, c := range []byte(p.src[start:p.pos]) {
		n = n*10 + int(c-'0')
	}
	return n, true
}

// parseAtom := literal | '.' | perl-escape | '(' group ')' | '[' bracket ']'
func (p *parser) parseAtom() (ast.Node, error) {
	if p.eof() {
		return nil, p.errf("unexpected end of pattern")
	}
	switch c := p.peek(); c {
	case '.':
		p.advance()
		return ast.Dot{}, nil
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseBracket()
	case '\\':
		p.advance()
		return p.parseEscape()
	case '*', '+', '?':
		return nil, p.errf("dangling quantifier %q at position %d", c, p.pos)
	default:
		p.advance()
		return ast.Literal{Char: c}, nil
	}
}

// parseEscape parses the escape sequence following a consumed backslash.
func (p *parser) parseEscape() (ast.Node, error) {
	if p.eof() {
		return nil, p.errf("dangling backslash at end of pattern")
	}
	c := p.advance()
	switch c {
	case 'd':
		return ast.PerlClass{Kind: ast.PerlDigit}, nil
	case 's':
		return ast.PerlClass{Kind: ast.PerlSpace}, nil
	case 'w':
		return ast.PerlClass{Kind: ast.PerlWord}, nil
	case 'D', 'S', 'W':
		// Parses successfully; rejected with NegationNotSupportedError at
		// NFA-build time. Encoded as a Bracketed{Negated: true} wrapping
		// the matching unnegated class, since PerlClass itself carries no
		// negation flag in this AST.
		kind := map[byte]ast.PerlKind{'D': ast.PerlDigit, 'S': ast.PerlSpace, 'W': ast.PerlWord}[c]
		return ast.Bracketed{Negated: true, Set: ast.ClassPerl{Kind: kind}}, nil
	case 't':
		return ast.Literal{Char: '\t'}, nil
	case 'n':
		return ast.Literal{Char: '\n'}, nil
	case 'r':
		return ast.Literal{Char: '\r'}, nil
	default:
		// Any other escaped character, including metacharacters
		// (\. \\ \( \) \[ \] \{ \} \* \+ \? \|), is a literal.
		return ast.Literal{Char: c}, nil
	}
}

// parseGroup parses a `(...)` or `(?:...)` group.
func (p *parser) parseGroup() (ast.Node, error) {
	p.advance() // '('
	kind := ast.CaptureIndex
	nonCapturing := false
	if !p.eof() && p.peek() == '?' {
		// Only the non-capturing spelling `(?:...)` is recognized; any
		// other `(?...)` form is an unsupported group kind.
		save := p.pos
		p.advance() // '?'
		if !p.eof() && p.peek() == ':' {
			p.advance()
			nonCapturing = true
		} else {
			p.pos = save
			return nil, p.errf("unsupported group syntax at position %d", save)
		}
	}
	var index int
	if !nonCapturing {
		p.nextGroup++
		index = p.nextGroup
	}
	inner, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.eof() || p.peek() != ')' {
		return nil, p.errf("unbalanced parenthesis")
	}
	p.advance() // ')'
	if nonCapturing {
		// Rejected as an unsupported group kind at NFA-build time.
		return ast.Group{Kind: ast.GroupKind(255), Index: 0, Inner: inner}, nil
	}
	return ast.Group{Kind: kind, Index: index, Inner: inner}, nil
}

// parseBracket parses a `[...]` bracket expression, consuming the leading
// and trailing brackets. It supports nesting, e.g. `[a-c3-9[A-X]]`.
func (p *parser) parseBracket() (ast.Node, error) {
	p.advance() // '['
	b, err := p.parseBracketBody()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// parseBracketBody parses the content of a bracket expression up to (and
// consuming) its closing ']', with '[' already consumed.
func (p *parser) parseBracketBody() (ast.Bracketed, error) {
	negated := false
	if !p.eof() && p.peek() == '^' {
		p.advance()
		negated = true
	}
	var items []ast.ClassSetItem
	first := true
	for {
		if p.eof() {
			return ast.Bracketed{}, p.errf("unterminated bracket expression")
		}
		if p.peek() == ']' && !first {
			p.advance()
			break
		}
		first = false
		item, err := p.parseClassSetItem()
		if err != nil {
			return ast.Bracketed{}, err
		}
		items = append(items, item)
	}
	var set ast.ClassSetItem
	switch len(items) {
	case 0:
		return ast.Bracketed{}, p.errf("empty bracket expression")
	case 1:
		set = items[0]
	default:
		set = ast.ClassUnion{Items: items}
	}
	return ast.Bracketed{Negated: negated, Set: set}, nil
}

// parseClassSetItem parses one element of a bracket expression: a nested
// bracket, a Perl escape, a character range, or a single literal.
func (p *parser) parseClassSetItem() (ast.ClassSetItem, error) {
	if p.peek() == '[' {
		p.advance()
		inner, err := p.parseBracketBody()
		if err != nil {
			return nil, err
		}
		return ast.ClassBracketed{Inner: inner}, nil
	}
	if p.peek() == '\\' {
		p.advance()
		if p.eof() {
			return nil, p.errf("dangling backslash in bracket expression")
		}
		c := p.advance()
		switch c {
		case 'd':
			return ast.ClassPerl{Kind: ast.PerlDigit}, nil
		case 's':
			return ast.ClassPerl{Kind: ast.PerlSpace}, nil
		case 'w':
			return ast.ClassPerl{Kind: ast.PerlWord}, nil
		case 'D', 'S', 'W':
			// Encoded as a negated nested bracket wrapping the matching
			// unnegated class, so the NFA builder rejects it with
			// NegationNotSupportedError just like a top-level \D.
			kind := map[byte]ast.PerlKind{'D': ast.PerlDigit, 'S': ast.PerlSpace, 'W': ast.PerlWord}[c]
			return ast.ClassBracketed{Inner: ast.Bracketed{Negated: true, Set: ast.ClassPerl{Kind: kind}}}, nil
		default:
			return ast.ClassLiteral{Char: c}, nil
		}
	}
	lo := p.advance()
	if !p.eof() && p.peek() == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
		p.advance() // '-'
		hi := p.advance()
		if hi < lo {
			return nil, p.errf("invalid class range %q-%q", lo, hi)
		}
		return ast.ClassRange{Start: lo, End: hi}, nil
	}
	return ast.ClassLiteral{Char: lo}, nil
}
