package session

import (
	"log/slog"
	"sync"
)

// State is the app-visible auth state. The four values are the only reachable
// combinations; anything else is rejected at the transition boundary.
type State int

const (
	// StateInitializing means session restoration is still in progress and
	// overrides everything else.
	StateInitializing State = iota
	StateUnauthenticated
	// StateIncomplete is authenticated with no finalized profile record yet.
	StateIncomplete
	// StateComplete is authenticated with a finalized profile record.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateIncomplete:
		return "authenticated-incomplete"
	case StateComplete:
		return "authenticated-complete"
	default:
		return "unknown"
	}
}

// validTransitions is the exhaustive transition table. Restoration resolves
// the initializing state, sign-in authenticates, finalize completes setup,
// sign-out is reachable from anywhere.
var validTransitions = map[State]map[State]bool{
	StateInitializing: {
		StateUnauthenticated: true,
		StateIncomplete:      true,
		StateComplete:        true,
	},
	StateUnauthenticated: {
		StateIncomplete: true,
		StateComplete:   true,
	},
	StateIncomplete: {
		StateUnauthenticated: true,
		StateComplete:        true,
	},
	StateComplete: {
		StateUnauthenticated: true,
	},
}

// Session owns the auth state and current user id for one signed-in identity.
// It is constructed once and passed by reference to the setup workflow and the
// token registrar; there is no ambient global.
type Session struct {
	mu     sync.Mutex
	state  State
	userID string
	logger *slog.Logger
}

func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		state:  StateInitializing,
		logger: logger,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUserID returns the authenticated user id. ok is false while
// initializing or unauthenticated; callers must not cache the id across
// blocking work but re-read it immediately before use.
func (s *Session) CurrentUserID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIncomplete && s.state != StateComplete {
		return "", false
	}
	return s.userID, true
}

// Restore resolves the initializing state from a restored identity. An empty
// userID restores to unauthenticated; otherwise the state depends on whether
// the profile record already exists.
func (s *Session) Restore(userID string, profileExists bool) bool {
	if userID == "" {
		return s.apply(StateUnauthenticated, "")
	}
	if profileExists {
		return s.apply(StateComplete, userID)
	}
	return s.apply(StateIncomplete, userID)
}

// SignIn applies an external authentication event.
func (s *Session) SignIn(userID string, profileExists bool) bool {
	if userID == "" {
		s.logger.Warn("sign-in with empty user id ignored")
		return false
	}
	if profileExists {
		return s.apply(StateComplete, userID)
	}
	return s.apply(StateIncomplete, userID)
}

// CompleteSetup marks the profile record as finalized. Only valid while
// authenticated-but-incomplete; the unauthenticated -> complete edge in the
// table belongs to sign-in, not to finalize.
func (s *Session) CompleteSetup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIncomplete {
		s.logger.Warn("invalid session transition rejected",
			"from", s.state.String(),
			"to", StateComplete.String(),
		)
		return false
	}

	s.state = StateComplete
	return true
}

// SignOut clears the session from any state.
func (s *Session) SignOut() bool {
	return s.apply(StateUnauthenticated, "")
}

// apply performs the transition if the table allows it. Invalid transitions
// are a no-op with a loud warning rather than a panic: auth events arrive from
// outside and may race a local transition.
func (s *Session) apply(to State, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == to && s.userID == userID {
		return true
	}

	if !validTransitions[s.state][to] {
		s.logger.Warn("invalid session transition rejected",
			"from", s.state.String(),
			"to", to.String(),
		)
		return false
	}

	s.state = to
	s.userID = userID
	return true
}

// Manager hands out one session per user id for the HTTP surface.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Get returns the session for the given user id, creating it on first use.
func (m *Manager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		sess = NewSession(m.logger)
		m.sessions[userID] = sess
	}
	return sess
}
