package repositories

import (
	"context"
	"sync"

	"github.com/ithesk/axeweb/domain"
)

// MemorySessionRepository implements domain.SessionRepository in process
// memory, for gateway-only deployments that run without Redis.
type MemorySessionRepository struct {
	clock domain.Clock

	mu       sync.RWMutex
	sessions map[string]domain.PortalSession
}

// NewMemorySessionRepository creates an in-memory portal session store.
func NewMemorySessionRepository(clock domain.Clock) *MemorySessionRepository {
	return &MemorySessionRepository{
		clock:    clock,
		sessions: make(map[string]domain.PortalSession),
	}
}

// Create implements domain.SessionRepository
func (r *MemorySessionRepository) Create(_ context.Context, session *domain.PortalSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// Save implements domain.SessionRepository
func (r *MemorySessionRepository) Save(_ context.Context, session *domain.PortalSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// FindByID implements domain.SessionRepository
func (r *MemorySessionRepository) FindByID(_ context.Context, sessionID string) (*domain.PortalSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.ExpiresAt.Before(r.clock.Now()) {
		delete(r.sessions, sessionID)
		return nil, domain.ErrSessionExpired
	}
	out := session
	return &out, nil
}

// Delete implements domain.SessionRepository
func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

var _ domain.SessionRepository = (*MemorySessionRepository)(nil)
