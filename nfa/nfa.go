// Package nfa builds Thompson-style nondeterministic finite automata from
// the restricted regex AST. States live in a dense arena indexed by
// StateID, with edges held in a slice indexed by state rather than a
// heap-of-nodes with back-pointers, so that fragments built during
// compilation only ever allocate new states at the end of that sequence,
// and subset construction can work directly off state indices.
package nfa

import "github.com/logsurgeon/logsurgeon/alphabet"

// StateID indexes into an NFA's dense state arena.
type StateID int

// Edge is one outgoing transition: consume a character matching Label (or,
// if Label is alphabet.Epsilon, consume nothing) and move to To. Tag is
// reserved for pattern identity: -1 until the lexer fuses several
// single-pattern NFAs into one, at which point every edge whose To is that
// pattern's accept state is re-tagged with the pattern's index.
type Edge struct {
	To    StateID
	Label alphabet.Label
	Tag   int16
}

// NFA is a Thompson automaton: a dense state arena plus each state's
// ordered outgoing edge list.
type NFA struct {
	Start       StateID
	Accept      StateID
	transitions [][]Edge
}

// New returns an NFA with exactly two states already allocated: Start (0)
// and Accept (1), both with no outgoing edges. A single-pattern
// compilation always begins from this fixed (start, accept) pair and only
// ever adds states after it.
func New() *NFA {
	return &NFA{
		Start:       0,
		Accept:      1,
		transitions: make([][]Edge, 2),
	}
}

// NewFused returns an NFA with a single state (0) that has no inherent
// "accept" of its own. The lexer's fuse step uses it purely as the
// synthetic super-start, tracking which states are accepting via a side
// table rather than the Accept field.
func NewFused() *NFA {
	return &NFA{
		Start:       0,
		Accept:      0,
		transitions: make([][]Edge, 1),
	}
}

// NumStates returns the number of states currently allocated.
func (n *NFA) NumStates() int { return len(n.transitions) }

// NewState allocates and returns a fresh state with no outgoing edges.
func (n *NFA) NewState() StateID {
	id := StateID(len(n.transitions))
	n.transitions = append(n.transitions, nil)
	return id
}

// AddEdge appends an outgoing edge from `from`.
func (n *NFA) AddEdge(from, to StateID, label alphabet.Label, tag int16) {
	n.transitions[from] = append(n.transitions[from], Edge{To: to, Label: label, Tag: tag})
}

// AddEpsilon is a convenience wrapper for AddEdge with an epsilon label and
// no tag.
func (n *NFA) AddEpsilon(from, to StateID) {
	n.AddEdge(from, to, alphabet.Epsilon, -1)
}

// Edges returns the outgoing edges of state s, in construction order.
func (n *NFA) Edges(s StateID) []Edge { return n.transitions[s] }
