package session

import (
	"context"
	"sync"
)

// Authenticator resolves an Input into a Session. *Resolver satisfies it.
type Authenticator interface {
	Resolve(ctx context.Context, input Input) (Session, error)
}

// Listener observes session swaps. active is false after sign-out.
type Listener func(current Session, active bool)

// Manager holds the active session for a client. Every sign-in or sign-out
// advances a generation counter so that a resolution overtaken by a newer
// request cannot install its result.
type Manager struct {
	auth Authenticator

	mu         sync.Mutex
	current    Session
	active     bool
	generation uint64
	inFlight   int
	listeners  []Listener
}

// NewManager constructs a Manager with no active session.
func NewManager(auth Authenticator) *Manager {
	return &Manager{auth: auth}
}

// SignIn resolves input and installs the resulting session. A failed
// resolution leaves the current state untouched.
func (m *Manager) SignIn(ctx context.Context, input Input) (Session, error) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.inFlight++
	m.mu.Unlock()

	resolved, err := m.auth.Resolve(ctx, input)

	m.mu.Lock()
	m.inFlight--
	if gen != m.generation {
		m.mu.Unlock()
		return Session{}, ErrSuperseded
	}
	if err != nil {
		m.mu.Unlock()
		return Session{}, err
	}
	m.current = resolved
	m.active = true
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(resolved, true)
	}
	return resolved, nil
}

// SignOut discards the active session and invalidates in-flight sign-ins.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.generation++
	wasActive := m.active
	m.current = Session{}
	m.active = false
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	if !wasActive {
		return
	}
	for _, fn := range listeners {
		fn(Session{}, false)
	}
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.active
}

// Pending reports whether a sign-in is in flight.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight > 0
}

// OnChange registers fn to be called after every session swap.
func (m *Manager) OnChange(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
