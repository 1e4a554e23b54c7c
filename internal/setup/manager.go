package setup

import (
	"log/slog"
	"sync"

	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/session"
)

// Manager keeps one setup workflow per user so repeated requests during
// onboarding keep accumulating the same draft.
type Manager struct {
	mu        sync.Mutex
	workflows map[string]*Workflow

	sessions *session.Manager
	profiles models.ProfileRepo
	images   ImageStore
	logger   *slog.Logger
}

func NewManager(sessions *session.Manager, profiles models.ProfileRepo, images ImageStore, logger *slog.Logger) *Manager {
	return &Manager{
		workflows: make(map[string]*Workflow),
		sessions:  sessions,
		profiles:  profiles,
		images:    images,
		logger:    logger,
	}
}

// Get returns the workflow for the given user, creating it on first use.
func (m *Manager) Get(userID string) *Workflow {
	m.mu.Lock()
	defer m.mu.Unlock()

	wf, ok := m.workflows[userID]
	if !ok {
		wf = NewWorkflow(m.sessions.Get(userID), m.profiles, m.images, m.logger)
		m.workflows[userID] = wf
	}
	return wf
}

// Discard drops a finished or abandoned workflow.
func (m *Manager) Discard(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workflows, userID)
}
