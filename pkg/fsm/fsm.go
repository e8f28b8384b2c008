package fsm

import (
	"log/slog"
	"maps"
	"slices"
)

type options struct {
	logger *slog.Logger
}

type Option func(*options)

// WithLogger makes the machine report dispatch outcomes at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewFSM starts in initial and keeps the caller's transitions slice without
// copying it.
func NewFSM[S, E comparable](initial S, transitions TransitionTable[S, E], opts ...Option) *FSM[S, E] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	return &FSM[S, E]{
		current:     initial,
		transitions: transitions,
		onEnter:     make(EnterActions[S]),
		onLeave:     make(LeaveActions[S]),
		logger:      o.logger,
	}
}

// Clone returns a machine in the same state with its own copy of the table
// and hook registries. Hook and action closures are shared.
func (fsm *FSM[S, E]) Clone() *FSM[S, E] {
	return &FSM[S, E]{
		current:     fsm.current,
		transitions: slices.Clone(fsm.transitions),
		onEnter:     maps.Clone(fsm.onEnter),
		onLeave:     maps.Clone(fsm.onLeave),
		logger:      fsm.logger,
	}
}

// HandleEvent dispatches event against the current state.
//
// It reports whether a transition for (current state, event) exists, not
// whether the state changed: a transition rejected by its guard still
// returns true, and in that case no hook or action runs. Compare GetState
// before and after the call to tell the two apart.
func (fsm *FSM[S, E]) HandleEvent(event E) bool {
	tr, ok := fsm.transitions.Lookup(fsm.current, event)
	if !ok {
		fsm.logger.Debug("event ignored", "state", fsm.current, "event", event)
		return false
	}

	if !tr.allowed() {
		fsm.logger.Debug("transition rejected by guard", "state", fsm.current, "event", event, "to", tr.To)
		return true
	}

	from := fsm.current

	if leave, ok := fsm.onLeave[from]; ok {
		leave()
	}

	if tr.Action != nil {
		tr.Action()
	}

	fsm.current = tr.To

	if enter, ok := fsm.onEnter[fsm.current]; ok {
		enter()
	}

	fsm.logger.Debug("transition executed", "from", from, "event", event, "to", tr.To)
	return true
}

// SetState assigns the current state without running any hook.
func (fsm *FSM[S, E]) SetState(state S) {
	fsm.current = state
}

// SetTransitionTable installs transitions for the next HandleEvent. The
// machine keeps the caller's slice rather than a copy.
func (fsm *FSM[S, E]) SetTransitionTable(transitions TransitionTable[S, E]) {
	fsm.transitions = transitions
}

// SetEnterAction replaces the enter hook of state. A nil hook removes it.
func (fsm *FSM[S, E]) SetEnterAction(state S, action EnterAction) {
	if action == nil {
		delete(fsm.onEnter, state)
		return
	}
	fsm.onEnter[state] = action
}

// SetLeaveAction replaces the leave hook of state. A nil hook removes it.
func (fsm *FSM[S, E]) SetLeaveAction(state S, action LeaveAction) {
	if action == nil {
		delete(fsm.onLeave, state)
		return
	}
	fsm.onLeave[state] = action
}

func (fsm *FSM[S, E]) GetState() S {
	return fsm.current
}

// GetTransitionTable returns a copy of the table; editing it does not affect
// the machine until passed back through SetTransitionTable.
func (fsm *FSM[S, E]) GetTransitionTable() TransitionTable[S, E] {
	return slices.Clone(fsm.transitions)
}

func (fsm *FSM[S, E]) GetEnterActions() EnterActions[S] {
	return maps.Clone(fsm.onEnter)
}

func (fsm *FSM[S, E]) GetLeaveActions() LeaveActions[S] {
	return maps.Clone(fsm.onLeave)
}
