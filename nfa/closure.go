package nfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/logsurgeon/logsurgeon/internal/sparse"
)

// EpsilonClosure returns every state reachable from any state in from by
// following zero or more epsilon edges, from included. The traversal uses
// a sparse.SparseSet to guard against the epsilon cycles a Kleene-star
// construction introduces via its range-bound state's self-loop, so a
// state already visited is never queued twice.
func EpsilonClosure(n *NFA, from []StateID) []StateID {
	visited := sparse.NewSparseSet(uint32(n.NumStates()))
	var stack []StateID
	for _, s := range from {
		if !visited.Contains(uint32(s)) {
			visited.Insert(uint32(s))
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.transitions[s] {
			if !e.Label.IsEpsilon() {
				continue
			}
			if !visited.Contains(uint32(e.To)) {
				visited.Insert(uint32(e.To))
				stack = append(stack, e.To)
			}
		}
	}
	out := make([]StateID, 0, visited.Size())
	for _, v := range visited.Values() {
		out = append(out, StateID(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Step returns every state reachable from active by a single non-epsilon
// edge matching c, with no epsilon-closure applied. Callers combine it
// with EpsilonClosure to advance a subset-construction simulation by one
// input byte.
func Step(n *NFA, active []StateID, c byte) []StateID {
	var reached []StateID
	for _, s := range active {
		for _, e := range n.transitions[s] {
			if !e.Label.IsEpsilon() && e.Label.Test(c) {
				reached = append(reached, e.To)
			}
		}
	}
	return reached
}

// CombinedStateName renders a set of state IDs (as produced by subset
// construction over EpsilonClosure) into a stable, sorted, comma-joined
// name suitable for use as a DFA-state cache key.
func CombinedStateName(states []StateID) string {
	sorted := make([]StateID, len(states))
	copy(sorted, states)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = strconv.Itoa(int(s))
	}
	return strings.Join(parts, ",")
}
