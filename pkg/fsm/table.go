package fsm

import "slices"

// NewTable keeps transitions as given; the slice is not copied.
func NewTable[S, E comparable](transitions ...Transition[S, E]) TransitionTable[S, E] {
	return TransitionTable[S, E](transitions)
}

// Add returns a new table with the record appended. t itself is never
// written to, so several tables may be extended from one base.
func (t TransitionTable[S, E]) Add(from S, event E, guard Guard, action Action, to S) TransitionTable[S, E] {
	return append(slices.Clip(t), Transition[S, E]{
		From:   from,
		Event:  event,
		Guard:  guard,
		Action: action,
		To:     to,
	})
}

// Lookup returns the first transition registered for from and event.
func (t TransitionTable[S, E]) Lookup(from S, event E) (Transition[S, E], bool) {
	for _, tr := range t {
		if tr.From == from && tr.Event == event {
			return tr, true
		}
	}
	return Transition[S, E]{}, false
}

func (tr Transition[S, E]) allowed() bool {
	return tr.Guard == nil || tr.Guard()
}
