package nfa

import (
	"github.com/logsurgeon/logsurgeon/alphabet"
	"github.com/logsurgeon/logsurgeon/ast"
	"github.com/logsurgeon/logsurgeon/errs"
	"github.com/logsurgeon/logsurgeon/regexparser"
)

// Builder extends an NFA's state/edge arena one AST fragment at a time.
// It never rewrites an edge already added: every call either reuses an
// existing (start, end) pair as fragment endpoints or allocates fresh
// states strictly after the current high-water mark.
type Builder struct {
	nfa     *NFA
	pattern string // the source pattern, for error messages only
}

// NewBuilder returns a Builder wrapping a freshly-allocated NFA with its
// start (0) and accept (1) states already in place.
func NewBuilder(pattern string) *Builder {
	return &Builder{nfa: New(), pattern: pattern}
}

// NFA returns the automaton built so far.
func (b *Builder) NFA() *NFA { return b.nfa }

// Compile parses pattern and compiles it into a complete NFA running from
// state 0 to state 1. It is the composition of regexparser.Parse and
// AddAST that every single-pattern caller wants.
func Compile(pattern string) (*NFA, error) {
	root, err := regexparser.Parse(pattern)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(pattern)
	if err := b.AddAST(root, b.nfa.Start, b.nfa.Accept); err != nil {
		return nil, err
	}
	return b.nfa, nil
}

// AddAST extends the NFA so that the language accepted while stepping
// from start to end equals the language of node.
func (b *Builder) AddAST(node ast.Node, start, end StateID) error {
	switch n := node.(type) {
	case ast.Literal:
		b.nfa.AddEdge(start, end, alphabet.OneHot(n.Char), -1)
		return nil

	case ast.Dot:
		b.nfa.AddEdge(start, end, alphabet.Dot, -1)
		return nil

	case ast.PerlClass:
		label, err := b.perlLabel(n.Kind)
		if err != nil {
			return err
		}
		b.nfa.AddEdge(start, end, label, -1)
		return nil

	case ast.Concat:
		return b.addConcat(n.Children, start, end)

	case ast.Alternation:
		return b.addAlternation(n.Children, start, end)

	case ast.Group:
		if n.Kind != ast.CaptureIndex {
			return &errs.UnsupportedGroupKindError{Pattern: b.pattern}
		}
		return b.AddAST(n.Inner, start, end)

	case ast.Bracketed:
		if n.Negated {
			return &errs.NegationNotSupportedError{Pattern: b.pattern}
		}
		return b.addClassSetItem(n.Set, start, end)

	case ast.Repetition:
		return b.addRepetition(n, start, end)

	default:
		return &errs.UnsupportedASTNodeError{Pattern: b.pattern, Node: nodeName(node)}
	}
}

func (b *Builder) perlLabel(kind ast.PerlKind) (alphabet.Label, error) {
	switch kind {
	case ast.PerlDigit:
		return alphabet.Digit, nil
	case ast.PerlSpace:
		return alphabet.Space, nil
	case ast.PerlWord:
		return alphabet.Word, nil
	default:
		return alphabet.Label{}, &errs.UnsupportedClassSetTypeError{Pattern: b.pattern}
	}
}

// addConcat implements Concat([a0...an-1]): s0 = start, intermediate
// states s1..sn-1 are allocated left to right, the final child recurses
// into end directly.
func (b *Builder) addConcat(children []ast.Node, start, end StateID) error {
	if len(children) == 0 {
		b.nfa.AddEpsilon(start, end)
		return nil
	}
	cur := start
	for i := 0; i < len(children)-1; i++ {
		next := b.nfa.NewState()
		if err := b.AddAST(children[i], cur, next); err != nil {
			return err
		}
		cur = next
	}
	return b.AddAST(children[len(children)-1], cur, end)
}

// addAlternation implements Alternation([a0...an-1]): each branch gets its
// own fresh (bi, ei) pair wired start->bi and ei->end.
func (b *Builder) addAlternation(children []ast.Node, start, end StateID) error {
	for _, child := range children {
		bi := b.nfa.NewState()
		ei := b.nfa.NewState()
		b.nfa.AddEpsilon(start, bi)
		b.nfa.AddEpsilon(ei, end)
		if err := b.AddAST(child, bi, ei); err != nil {
			return err
		}
	}
	return nil
}

// addRepetition implements the range-bound-state construction: a single
// state R anchors the min-chain from start and the optional
// max-chain toward end, giving cyclic epsilon-closures their one
// self-loop or bounded branch rather than duplicating `inner` once per
// construction site.
func (b *Builder) addRepetition(rep ast.Repetition, start, end StateID) error {
	if !rep.Greedy {
		return &errs.NonGreedyRepetitionNotSupportedError{Pattern: b.pattern}
	}
	min, max, hasMax := lowerRepetitionBounds(rep)

	r := b.nfa.NewState()
	if min == 0 {
		b.nfa.AddEpsilon(start, r)
	} else {
		cur := start
		for i := 0; i < min; i++ {
			next := r
			if i != min-1 {
				next = b.nfa.NewState()
			}
			if err := b.AddAST(rep.Inner, cur, next); err != nil {
				return err
			}
			cur = next
		}
	}
	b.nfa.AddEpsilon(r, end)

	if !hasMax {
		return b.AddAST(rep.Inner, r, r)
	}
	if max > min {
		cur := r
		for i := 0; i < max-min; i++ {
			next := b.nfa.NewState()
			if err := b.AddAST(rep.Inner, cur, next); err != nil {
				return err
			}
			b.nfa.AddEpsilon(next, end)
			cur = next
		}
	}
	return nil
}

// lowerRepetitionBounds maps a Repetition's Kind/Min/Max into a
// (min, max, hasMax) triple: ZeroOrOne -> (0,1,true),
// ZeroOrMore -> (0,_,false), OneOrMore -> (1,_,false), Exactly(n) ->
// (n,n,true), AtLeast(n) -> (n,_,false), Bounded(a,b) -> (a,b,true).
func lowerRepetitionBounds(rep ast.Repetition) (min, max int, hasMax bool) {
	switch rep.Kind {
	case ast.ZeroOrOne:
		return 0, 1, true
	case ast.ZeroOrMore:
		return 0, 0, false
	case ast.OneOrMore:
		return 1, 0, false
	case ast.Exactly:
		return rep.Min, rep.Min, true
	case ast.AtLeast:
		return rep.Min, 0, false
	case ast.Bounded:
		return rep.Min, rep.Max, true
	default:
		return 0, 0, false
	}
}

// addClassSetItem implements the ClassSetItem dispatch used both for a
// Bracketed's direct Set and recursively for nested/unioned items.
func (b *Builder) addClassSetItem(item ast.ClassSetItem, start, end StateID) error {
	switch it := item.(type) {
	case ast.ClassLiteral:
		b.nfa.AddEdge(start, end, alphabet.OneHot(it.Char), -1)
		return nil

	case ast.ClassRange:
		b.nfa.AddEdge(start, end, alphabet.RangeLabel(it.Start, it.End), -1)
		return nil

	case ast.ClassPerl:
		label, err := b.perlLabel(it.Kind)
		if err != nil {
			return err
		}
		b.nfa.AddEdge(start, end, label, -1)
		return nil

	case ast.ClassBracketed:
		if it.Inner.Negated {
			return &errs.NegationNotSupportedError{Pattern: b.pattern}
		}
		return b.addClassSetItem(it.Inner.Set, start, end)

	case ast.ClassUnion:
		return b.addClassUnion(it.Items, start, end)

	default:
		return &errs.UnsupportedBracketedKindError{Pattern: b.pattern}
	}
}

// addClassUnion wires every bracket-expression item directly between the
// same (start, end) pair: one parallel edge (or recursed fragment) per
// item, so the NFA can take any one of them. A Union is iterated in
// source order and each item's fragment is added directly, not chained
// through fresh intermediate states the way a multi-child Concat of
// distinct symbols does. This is what makes a bracket expression match
// any single character in the class. It only coincides with true
// alternation because every supported ClassSetItem is a single-character
// language, each one independently bridging start to end.
func (b *Builder) addClassUnion(items []ast.ClassSetItem, start, end StateID) error {
	if len(items) == 0 {
		b.nfa.AddEpsilon(start, end)
		return nil
	}
	for _, item := range items {
		if err := b.addClassSetItem(item, start, end); err != nil {
			return err
		}
	}
	return nil
}

func nodeName(n ast.Node) string {
	switch n.(type) {
	case ast.Literal:
		return "Literal"
	case ast.Dot:
		return "Dot"
	case ast.PerlClass:
		return "PerlClass"
	case ast.Concat:
		return "Concat"
	case ast.Alternation:
		return "Alternation"
	case ast.Group:
		return "Group"
	case ast.Bracketed:
		return "Bracketed"
	case ast.Repetition:
		return "Repetition"
	default:
		return "unknown"
	}
}
