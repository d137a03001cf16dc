package mocks

import (
	"github.com/ithesk/axeweb/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateFunc func(phone, sessionID string) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Generate returns a deterministic token unless overridden.
func (m *MockTokenService) Generate(phone, sessionID string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(phone, sessionID)
	}
	return "token-" + phone + "-" + sessionID, nil
}

// Validate parses tokens produced by the default Generate unless overridden.
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
