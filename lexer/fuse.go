package lexer

import (
	"github.com/logsurgeon/logsurgeon/internal/conv"
	"github.com/logsurgeon/logsurgeon/nfa"
	"github.com/logsurgeon/logsurgeon/schema"
)

// patternKind distinguishes which half of the schema a fused pattern came
// from, used only to resolve the timestamp-outranks-variable tie-break.
type patternKind uint8

const (
	kindTimestamp patternKind = iota
	kindVariable
)

// patternTag identifies one fused pattern: which schema list it came from
// and its index within that list (the "pattern-id" carried by Timestamp
// and Variable tokens).
type patternTag struct {
	kind  patternKind
	index int
}

// fuseSchema builds a single multi-pattern NFA: a fresh super-start state
// epsilons into every compiled pattern NFA's own start, and each
// pattern's accept state is tagged with its position in tags. tags is
// ordered timestamps-then-variables, in schema declaration order within
// each group, which is exactly the priority order the longest-match
// tie-break needs: timestamps outrank variables, and among variables the
// earlier-declared pattern wins. Selecting the minimum tag index among
// simultaneously-accepting states already implements that tie-break
// correctly, with no separate priority pass needed.
func fuseSchema(cfg *schema.Config) (fused *nfa.NFA, tags []patternTag, acceptOf map[nfa.StateID]int) {
	fused = nfa.NewFused()
	acceptOf = map[nfa.StateID]int{}

	appendPattern := func(orig *nfa.NFA, kind patternKind, index int) {
		tagIndex := len(tags)
		tags = append(tags, patternTag{kind: kind, index: index})

		offset := fused.NumStates()
		for i := 0; i < orig.NumStates(); i++ {
			fused.NewState()
		}
		for i := 0; i < orig.NumStates(); i++ {
			from := nfa.StateID(i)
			for _, e := range orig.Edges(from) {
				tag := e.Tag
				if e.To == orig.Accept {
					tag = conv.IntToInt16(tagIndex)
				}
				fused.AddEdge(nfa.StateID(offset+i), nfa.StateID(offset+int(e.To)), e.Label, tag)
			}
		}
		fused.AddEpsilon(fused.Start, nfa.StateID(offset+int(orig.Start)))
		acceptOf[nfa.StateID(offset+int(orig.Accept))] = tagIndex
	}

	for i, ts := range cfg.Timestamps {
		appendPattern(ts.NFA, kindTimestamp, i)
	}
	for i, v := range cfg.Variables {
		appendPattern(v.NFA, kindVariable, i)
	}
	return fused, tags, acceptOf
}

// bestAcceptAt returns the highest-priority pattern tag accepting at the
// current position, if any state in active is a tagged accept state.
// Lowest tag index wins, which by fuseSchema's ordering means: any
// timestamp beats any variable, and among variables the earliest declared
// wins.
func bestAcceptAt(active []nfa.StateID, acceptOf map[nfa.StateID]int) (tagIndex int, ok bool) {
	best := -1
	for _, s := range active {
		if t, found := acceptOf[s]; found {
			if best == -1 || t < best {
				best = t
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
