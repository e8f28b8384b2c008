package fsm

import "log/slog"

type (
	// Guard decides whether a matched transition may run. A nil Guard allows it.
	Guard func() bool
	// Action runs as part of a transition, between the leave and enter hooks.
	Action      func()
	EnterAction func()
	LeaveAction func()

	EnterActions[S comparable] map[S]EnterAction
	LeaveActions[S comparable] map[S]LeaveAction

	// Transition maps a (From, Event) pair to its guard, action and target state.
	Transition[S, E comparable] struct {
		From   S
		Event  E
		Guard  Guard
		Action Action
		To     S
	}

	// TransitionTable is scanned in order; the first record matching the
	// current state and event wins, later duplicates are never reached.
	TransitionTable[S, E comparable] []Transition[S, E]

	// FSM is not safe for concurrent use. Callers sharing one across
	// goroutines must guard HandleEvent, SetState, SetTransitionTable,
	// SetEnterAction and SetLeaveAction with their own lock.
	FSM[S, E comparable] struct {
		current     S
		transitions TransitionTable[S, E]
		onEnter     EnterActions[S]
		onLeave     LeaveActions[S]

		logger *slog.Logger
	}
)
