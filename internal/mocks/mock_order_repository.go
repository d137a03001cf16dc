package mocks

import (
	"context"
	"sync"

	"github.com/ithesk/axeweb/domain"
)

// MockOrderRepository implements domain.OrderRepository for testing
type MockOrderRepository struct {
	FetchByPhoneFunc      func(ctx context.Context, phone string) ([]domain.RepairOrder, error)
	SaveAuthorizationFunc func(ctx context.Context, orderID int64, artifact *domain.SignatureArtifact) error

	mu             sync.Mutex
	authorizations []*domain.SignatureArtifact
}

// NewMockOrderRepository creates a new MockOrderRepository with default behaviors
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

// FetchByPhone returns FetchByPhoneFunc's result, or no orders by default.
func (m *MockOrderRepository) FetchByPhone(ctx context.Context, phone string) ([]domain.RepairOrder, error) {
	if m.FetchByPhoneFunc != nil {
		return m.FetchByPhoneFunc(ctx, phone)
	}
	return []domain.RepairOrder{}, nil
}

// SaveAuthorization records the artifact and delegates when a func is set.
func (m *MockOrderRepository) SaveAuthorization(ctx context.Context, orderID int64, artifact *domain.SignatureArtifact) error {
	if m.SaveAuthorizationFunc != nil {
		if err := m.SaveAuthorizationFunc(ctx, orderID, artifact); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.authorizations = append(m.authorizations, artifact)
	m.mu.Unlock()
	return nil
}

// Authorizations returns the recorded artifacts.
func (m *MockOrderRepository) Authorizations() []*domain.SignatureArtifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.SignatureArtifact, len(m.authorizations))
	copy(out, m.authorizations)
	return out
}

// Compile-time interface compliance verification
var _ domain.OrderRepository = (*MockOrderRepository)(nil)
