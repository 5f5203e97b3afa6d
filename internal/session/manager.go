package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/input/gesture"
)

// Settings holds the knobs for creating and retiring sessions.
type Settings struct {
	// Total is the number of resources in the shared list.
	Total int
	// SpeedSeconds is the initial auto-advance interval.
	SpeedSeconds float64
	// Repeat is the initial repeat flag.
	Repeat bool
	// Shuffle starts new sessions shuffled.
	Shuffle bool
	// PausedOnStart starts new sessions paused.
	PausedOnStart bool
	// Thresholds configures each session's gesture classifier.
	Thresholds gesture.Thresholds
	// MaxSessions caps concurrent sessions. Zero means no cap.
	MaxSessions int
	// IdleTimeout retires sessions with no activity. Zero disables sweeping.
	IdleTimeout time.Duration
}

// Manager creates, looks up, and retires sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	settings Settings
	onTimer  func(id string, gen uint64)

	sweepStop chan struct{}
	sweepOnce sync.Once
}

// NewManager creates a session manager. onTimer receives auto-advance
// expirations and is typically the dispatcher's timer entry point.
func NewManager(settings Settings, onTimer func(id string, gen uint64)) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		settings:  settings,
		onTimer:   onTimer,
		sweepStop: make(chan struct{}),
	}
}

// Create makes a new session with the configured initial state and an
// armed auto-advance timer. Fails with a resource_exhausted error when
// the session cap is reached.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	if m.settings.MaxSessions > 0 && len(m.sessions) >= m.settings.MaxSessions {
		m.mu.Unlock()
		return nil, action.NewError(action.KindResourceExhausted,
			"session limit reached (%d)", m.settings.MaxSessions)
	}

	id := uuid.NewString()
	s := &Session{
		ID: id,
		state: State{
			ID:           id,
			Total:        m.settings.Total,
			CurrentIndex: 0,
			SpeedSeconds: m.settings.SpeedSeconds,
			Repeat:       m.settings.Repeat,
			Paused:       m.settings.PausedOnStart,
			Context:      ContextBrowsing,
		},
		lastActive: time.Now(),
		classifier: gesture.NewClassifier(m.settings.Thresholds),
		onTimer:    m.onTimer,
	}
	m.sessions[id] = s
	m.mu.Unlock()

	s.Exec(func(st *State) bool {
		if m.settings.Shuffle {
			on := true
			st.Apply(&action.StatePatch{Shuffle: &on})
		}
		return true // arm the initial timer
	})

	return s, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove retires a session, cancelling its timer.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.close()
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep retires sessions idle longer than the configured timeout and
// returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.settings.IdleTimeout <= 0 {
		return 0
	}

	m.mu.RLock()
	var expired []*Session
	for _, s := range m.sessions {
		if now.Sub(s.IdleSince()) > m.settings.IdleTimeout {
			expired = append(expired, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range expired {
		m.Remove(s.ID)
	}
	return len(expired)
}

// StartSweeper launches a background loop that sweeps idle sessions at
// the given interval until Close is called.
func (m *Manager) StartSweeper(interval time.Duration) {
	if interval <= 0 || m.settings.IdleTimeout <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep(time.Now())
			case <-m.sweepStop:
				return
			}
		}
	}()
}

// Close stops the sweeper and retires every session.
func (m *Manager) Close() {
	m.sweepOnce.Do(func() { close(m.sweepStop) })

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
