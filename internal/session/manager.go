package session

import (
	"context"
	"log"
	"sync"
	"time"

	"exoml/domain/core"
	"exoml/internal/modes"
	"exoml/internal/viewer"
	"exoml/ports"
)

// Session is one browser's viewer state plus its timed-action machine
type Session struct {
	ID         core.SessionID
	Controller *viewer.Controller
	Machine    *modes.Machine
	CreatedAt  time.Time

	cancel context.CancelFunc

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns the last time the session handled a request
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) close() {
	s.cancel()
	s.Machine.Close()
}

// Manager is the in-memory session registry
type Manager struct {
	ctx         context.Context
	catalog     ports.SampleCatalog
	modesConfig modes.Config
	notifier    ports.Notifier
	idleTimeout time.Duration
	now         func() time.Time

	sessionsMu sync.RWMutex
	sessions   map[core.SessionID]*Session
}

// NewManager creates a registry. Session timers derive from ctx, so
// cancelling it stops every pending test and retrain.
func NewManager(ctx context.Context, catalog ports.SampleCatalog, modesConfig modes.Config, notifier ports.Notifier, idleTimeout time.Duration) *Manager {
	return &Manager{
		ctx:         ctx,
		catalog:     catalog,
		modesConfig: modesConfig,
		notifier:    notifier,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[core.SessionID]*Session),
	}
}

// Create starts a session on the first catalog sample
func (m *Manager) Create() (*Session, error) {
	id := core.NewSessionID()
	ctx, cancel := context.WithCancel(m.ctx)

	machine := modes.NewMachine(ctx, m.modesConfig, id, m.notifier)
	controller, err := viewer.NewController(m.catalog, machine)
	if err != nil {
		cancel()
		machine.Close()
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:         id,
		Controller: controller,
		Machine:    machine,
		CreatedAt:  now,
		cancel:     cancel,
		lastSeen:   now,
	}

	m.sessionsMu.Lock()
	m.sessions[id] = s
	count := len(m.sessions)
	m.sessionsMu.Unlock()

	log.Printf("[Session] Created %s (%d active)", id, count)
	return s, nil
}

// Get returns a live session
func (m *Manager) Get(id core.SessionID) (*Session, error) {
	m.sessionsMu.RLock()
	s, ok := m.sessions[id]
	m.sessionsMu.RUnlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

// Touch looks up a session and marks it active
func (m *Manager) Touch(id core.SessionID) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	s.touch(m.now())
	return s, nil
}

// Close ends a session and cancels its pending timers
func (m *Manager) Close(id core.SessionID) bool {
	m.sessionsMu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.sessionsMu.Unlock()

	if !ok {
		return false
	}
	s.close()
	log.Printf("[Session] Closed %s", id)
	return true
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle longer than the idle timeout
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.sessionsMu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.sessionsMu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		log.Printf("[Session] Expired %d idle sessions", len(expired))
	}
	return len(expired)
}

// RunSweeper sweeps every interval until ctx is done, then closes all
// remaining sessions
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CloseAll ends every session
func (m *Manager) CloseAll() {
	m.sessionsMu.Lock()
	all := m.sessions
	m.sessions = make(map[core.SessionID]*Session)
	m.sessionsMu.Unlock()

	for _, s := range all {
		s.close()
	}
}
