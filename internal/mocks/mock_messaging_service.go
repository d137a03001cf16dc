package mocks

import (
	"context"
	"sync"

	"github.com/ithesk/axeweb/domain"
)

// MockMessagingService implements domain.MessagingService for testing
type MockMessagingService struct {
	SendFunc func(ctx context.Context, phone, text string) error

	mu   sync.Mutex
	sent []SentMessage
}

// SentMessage records one dispatched message
type SentMessage struct {
	Phone string
	Text  string
}

// NewMockMessagingService creates a new MockMessagingService with default behaviors
func NewMockMessagingService() *MockMessagingService {
	return &MockMessagingService{}
}

// Send records the message and delegates to SendFunc when set.
func (m *MockMessagingService) Send(ctx context.Context, phone, text string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, phone, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{Phone: phone, Text: text})
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMessagingService) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.MessagingService = (*MockMessagingService)(nil)
