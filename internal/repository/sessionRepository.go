package repository

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/luckyComet55/tablefsm/internal/demo"
	"github.com/luckyComet55/tablefsm/pkg/fsm"
)

type DispatchResult struct {
	// Matched is what HandleEvent returned: a rule existed for the event,
	// whether or not its guard let it run.
	Matched    bool
	From       demo.State
	To         demo.State
	Transcript []string
}

func (r DispatchResult) Changed() bool {
	return r.From != r.To
}

type SessionRepository interface {
	GetState(chatID int64) (demo.State, bool)
	Dispatch(chatID int64, event demo.Event) DispatchResult
	ResetSession(chatID int64) demo.State
	RemoveSession(chatID int64) error
}

// session pairs a machine with the lock its owner must hold, since the
// machine itself does no locking.
type session struct {
	mu         sync.Mutex
	machine    *fsm.FSM[demo.State, demo.Event]
	transcript []string
}

type sessionRepository struct {
	mu       sync.Mutex
	sessions map[int64]*session
	logger   *slog.Logger
}

func NewSessionRepository(logger *slog.Logger) SessionRepository {
	return &sessionRepository{
		sessions: make(map[int64]*session),
		logger:   logger,
	}
}

func (sr *sessionRepository) getOrCreate(chatID int64) *session {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if s, ok := sr.sessions[chatID]; ok {
		return s
	}

	s := &session{}
	s.machine = demo.NewMachine(
		func(line string) { s.transcript = append(s.transcript, line) },
		fsm.WithLogger(sr.logger.With("chat", chatID)),
	)
	sr.sessions[chatID] = s
	sr.logger.Debug("session created", "chat", chatID)
	return s
}

func (sr *sessionRepository) GetState(chatID int64) (demo.State, bool) {
	sr.mu.Lock()
	s, ok := sr.sessions[chatID]
	sr.mu.Unlock()
	if !ok {
		return demo.State0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.GetState(), true
}

func (sr *sessionRepository) Dispatch(chatID int64, event demo.Event) DispatchResult {
	s := sr.getOrCreate(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = nil
	from := s.machine.GetState()
	matched := s.machine.HandleEvent(event)

	return DispatchResult{
		Matched:    matched,
		From:       from,
		To:         s.machine.GetState(),
		Transcript: s.transcript,
	}
}

// ResetSession puts the chat back into State0 without running hooks.
func (sr *sessionRepository) ResetSession(chatID int64) demo.State {
	s := sr.getOrCreate(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.machine.SetState(demo.State0)
	return s.machine.GetState()
}

func (sr *sessionRepository) RemoveSession(chatID int64) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if _, ok := sr.sessions[chatID]; !ok {
		return fmt.Errorf("session for chat %d does not exist", chatID)
	}
	delete(sr.sessions, chatID)
	return nil
}
