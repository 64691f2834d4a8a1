package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/counterdesk/pkg/errors"
)

// Manager is the registry of live workspaces keyed by session id.
type Manager struct {
	deps    Deps
	idleTTL time.Duration
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Workspace
}

// NewManager creates a registry whose workspaces expire after idleTTL
// without use. A zero idleTTL disables expiry.
func NewManager(deps Deps, idleTTL time.Duration) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		deps:     deps,
		idleTTL:  idleTTL,
		logger:   logger,
		sessions: make(map[string]*Workspace),
	}
}

// Create opens a new workspace with a fresh session id.
func (m *Manager) Create() *Workspace {
	w := New(uuid.NewString(), m.deps)

	m.mu.Lock()
	m.sessions[w.ID()] = w
	n := len(m.sessions)
	m.mu.Unlock()

	sessionsActive.Set(float64(n))
	return w
}

// Get returns the workspace for id and marks it as used.
func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.RLock()
	w, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}
	w.Touch()
	return w, nil
}

// Discard drops the workspace for id along with its drafts.
func (m *Manager) Discard(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return apperrors.NotFound("session", id)
	}
	sessionsActive.Set(float64(n))
	return nil
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops workspaces idle since before now minus the TTL and returns
// how many were dropped.
func (m *Manager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTTL)

	m.mu.Lock()
	var expired []string
	for id, w := range m.sessions {
		if w.LastSeen().Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		sessionsActive.Set(float64(n))
		sessionsExpiredTotal.Add(float64(len(expired)))
		m.logger.Info("expired idle workspaces",
			slog.Int("expired", len(expired)),
			slog.Int("remaining", n),
		)
	}
	return len(expired)
}

// Run sweeps idle workspaces every interval until ctx is canceled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
