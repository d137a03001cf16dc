package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ithesk/axeweb/domain"
)

// VerificationConfig holds the one-time-code parameters
type VerificationConfig struct {
	CodeLength  int
	TTL         time.Duration
	MaxAttempts int
}

// VerificationServiceImpl implements domain.VerificationService. Sessions are
// held in memory keyed by phone; the issued code is the single authority for
// verification. That is a deliberate carry-over from the shop portal's
// client-trusting design, not an oversight.
type VerificationServiceImpl struct {
	messaging domain.MessagingService
	clock     domain.Clock
	config    VerificationConfig
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string]*trackedSession
}

// trackedSession pairs a session with the stop channel of its countdown
// watcher. The channel identity tells a watcher whether it has been
// superseded by a re-issued code.
type trackedSession struct {
	session domain.VerificationSession
	stop    chan struct{}
}

// NewVerificationService creates the one-time-code service.
func NewVerificationService(messaging domain.MessagingService, clock domain.Clock, config VerificationConfig, log *zap.Logger) domain.VerificationService {
	return &VerificationServiceImpl{
		messaging: messaging,
		clock:     clock,
		config:    config,
		log:       log,
		sessions:  make(map[string]*trackedSession),
	}
}

// NormalizePhone strips non-digits, prefixes the country digit 1 unless
// already present and truncates to 11 digits. Anything that does not end up
// as exactly 11 digits fails validation.
func (s *VerificationServiceImpl) NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if !strings.HasPrefix(digits, "1") {
		digits = "1" + digits
	}
	if len(digits) > 11 {
		digits = digits[:11]
	}
	if len(digits) != 11 {
		return "", domain.ErrInvalidPhone
	}
	return digits, nil
}

// IssueCode generates a fresh code for the phone, dispatches it through the
// messaging gateway and starts the expiry countdown. A dispatch failure
// leaves no partial state behind: the next attempt regenerates everything.
// Re-issuing stops the previous countdown and resets the attempt counter.
func (s *VerificationServiceImpl) IssueCode(ctx context.Context, phone string) (*domain.VerificationSession, error) {
	phone, err := s.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := s.clock.Now()
	session := domain.VerificationSession{
		Phone:        phone,
		Code:         code,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.config.TTL),
		AttemptsUsed: 0,
		Status:       domain.StatusCodeSent,
	}

	text := fmt.Sprintf("Tu código de verificación es: %s", code)
	if err := s.messaging.Send(ctx, phone, text); err != nil {
		s.log.Warn("code dispatch failed", zap.String("phone", phone), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCodeDispatchFailed, err)
	}

	s.mu.Lock()
	if prev, ok := s.sessions[phone]; ok {
		close(prev.stop)
	}
	tracked := &trackedSession{session: session, stop: make(chan struct{})}
	s.sessions[phone] = tracked
	s.mu.Unlock()

	go s.watch(phone, tracked.stop)

	s.log.Info("verification code issued", zap.String("phone", phone), zap.Time("expires_at", session.ExpiresAt))
	out := session
	return &out, nil
}

// watch ticks once per second until the session expires, is resolved or the
// watcher is superseded. A watcher whose stop channel no longer matches the
// tracked session belongs to a replaced code and exits without touching state.
func (s *VerificationServiceImpl) watch(phone string, stop chan struct{}) {
	ticker := s.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C():
			s.mu.Lock()
			tracked, ok := s.sessions[phone]
			if !ok || tracked.stop != stop || tracked.session.Status != domain.StatusCodeSent {
				s.mu.Unlock()
				return
			}
			if !now.Before(tracked.session.ExpiresAt) {
				tracked.session.Status = domain.StatusExpired
				s.mu.Unlock()
				s.log.Info("verification code expired", zap.String("phone", phone))
				return
			}
			s.mu.Unlock()
		}
	}
}

// Verify compares the submitted code against the issued one. Checks run in
// order: code shape, session presence, expiry, attempt budget; none of those
// rejections consume an attempt. Only a mismatching comparison does.
func (s *VerificationServiceImpl) Verify(ctx context.Context, phone, code string) (*domain.VerificationSession, error) {
	if !isDigits(code) || len(code) != s.config.CodeLength {
		return nil, domain.ErrInvalidCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracked, ok := s.sessions[phone]
	if !ok {
		return nil, domain.ErrNoActiveCode
	}

	if tracked.session.Status == domain.StatusExpired || !s.clock.Now().Before(tracked.session.ExpiresAt) {
		tracked.session.Status = domain.StatusExpired
		return nil, domain.ErrCodeExpired
	}

	if tracked.session.AttemptsUsed >= s.config.MaxAttempts {
		tracked.session.Status = domain.StatusAttemptsExhausted
		return nil, domain.ErrAttemptsExhausted
	}

	if code != tracked.session.Code {
		tracked.session.AttemptsUsed++
		remaining := s.config.MaxAttempts - tracked.session.AttemptsUsed
		return nil, &domain.MismatchError{Remaining: remaining}
	}

	tracked.session.Status = domain.StatusVerified
	close(tracked.stop)
	delete(s.sessions, phone)

	s.log.Info("phone verified", zap.String("phone", phone))
	out := tracked.session
	return &out, nil
}

// Remaining reports the countdown seconds left for the phone's active code.
func (s *VerificationServiceImpl) Remaining(phone string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracked, ok := s.sessions[phone]
	if !ok || tracked.session.Status != domain.StatusCodeSent {
		return 0, false
	}
	left := tracked.session.ExpiresAt.Sub(s.clock.Now())
	if left < 0 {
		return 0, true
	}
	return int(left / time.Second), true
}

// Cancel discards the phone's active verification and stops its countdown,
// as when the user navigates back to phone entry.
func (s *VerificationServiceImpl) Cancel(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tracked, ok := s.sessions[phone]; ok {
		close(tracked.stop)
		delete(s.sessions, phone)
	}
}

// Close stops every countdown watcher.
func (s *VerificationServiceImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for phone, tracked := range s.sessions {
		close(tracked.stop)
		delete(s.sessions, phone)
	}
}

// generateCode draws a uniform random 7-digit code in [1000000, 9999999].
func (s *VerificationServiceImpl) generateCode() (string, error) {
	min := int64(1)
	for i := 1; i < s.config.CodeLength; i++ {
		min *= 10
	}
	span := big.NewInt(min * 9)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+min), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
