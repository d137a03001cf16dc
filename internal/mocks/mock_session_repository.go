package mocks

import (
	"context"
	"sync"

	"github.com/ithesk/axeweb/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing.
// By default it behaves as an in-memory store; individual operations can be
// overridden through the func fields.
type MockSessionRepository struct {
	CreateFunc   func(ctx context.Context, session *domain.PortalSession) error
	FindByIDFunc func(ctx context.Context, sessionID string) (*domain.PortalSession, error)
	SaveFunc     func(ctx context.Context, session *domain.PortalSession) error
	DeleteFunc   func(ctx context.Context, sessionID string) error

	mu       sync.Mutex
	sessions map[string]domain.PortalSession
}

// NewMockSessionRepository creates a new MockSessionRepository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]domain.PortalSession)}
}

// Create stores the session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.PortalSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

// FindByID returns the stored session
func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := session
	return &out, nil
}

// Save updates the stored session
func (m *MockSessionRepository) Save(ctx context.Context, session *domain.PortalSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

// Delete removes the stored session
func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
