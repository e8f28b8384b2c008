// Package demo holds the reference machine shared by the console and
// Telegram front ends.
package demo

import (
	"strings"

	"github.com/luckyComet55/tablefsm/pkg/fsm"
)

type State int

const (
	State0 State = iota
	State1
	State2
)

func (s State) String() string {
	switch s {
	case State0:
		return "State0"
	case State1:
		return "State1"
	case State2:
		return "State2"
	}
	return "Unknown"
}

type Event int

const (
	Event1 Event = iota + 1
	Event2
)

func (e Event) String() string {
	switch e {
	case Event1:
		return "Event1"
	case Event2:
		return "Event2"
	}
	return "Unknown"
}

// Events lists every event the reference table knows, in button order.
var Events = []Event{Event1, Event2}

// ParseEvent is the inverse of Event.String.
func ParseEvent(s string) (Event, bool) {
	for _, e := range Events {
		if strings.EqualFold(e.String(), s) {
			return e, true
		}
	}
	return 0, false
}

// Sink receives one line per action or hook invocation.
type Sink func(line string)

func Table(out Sink) fsm.TransitionTable[State, Event] {
	allow := func() bool { return true }
	deny := func() bool { return false }
	action1 := func() { out("Action1") }
	action2 := func() { out("Action2") }

	return fsm.TransitionTable[State, Event]{}.
		Add(State0, Event1, allow, action1, State1).
		Add(State1, Event2, allow, action2, State2).
		Add(State2, Event1, deny, action1, State1)
}

// NewMachine builds the reference machine in State0 with the enter and
// leave hooks of State1 registered.
func NewMachine(out Sink, opts ...fsm.Option) *fsm.FSM[State, Event] {
	m := fsm.NewFSM(State0, Table(out), opts...)
	m.SetEnterAction(State1, func() { out("EnterAction1") })
	m.SetLeaveAction(State1, func() { out("LeaveAction1") })
	return m
}

// Run replays the reference scenario, writing state names and hook output
// to out.
func Run(out Sink, opts ...fsm.Option) State {
	m := NewMachine(out, opts...)
	out(m.GetState().String())

	for _, e := range []Event{Event1, Event2, Event1} {
		m.HandleEvent(e)
		out(m.GetState().String())
	}
	return m.GetState()
}
