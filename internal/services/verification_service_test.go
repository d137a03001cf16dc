package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ithesk/axeweb/domain"
	"github.com/ithesk/axeweb/internal/mocks"
)

func newVerificationForTest(t *testing.T) (domain.VerificationService, *mocks.MockMessagingService, *mocks.MockClock) {
	t.Helper()

	messaging := mocks.NewMockMessagingService()
	clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewVerificationService(messaging, clock, VerificationConfig{
		CodeLength:  7,
		TTL:         5 * time.Minute,
		MaxAttempts: 3,
	}, zap.NewNop())
	t.Cleanup(svc.Close)

	return svc, messaging, clock
}

// lastSentCode extracts the code from the most recent dispatched message.
func lastSentCode(t *testing.T, messaging *mocks.MockMessagingService) string {
	t.Helper()

	sent := messaging.Sent()
	require.NotEmpty(t, sent, "no message was dispatched")
	text := sent[len(sent)-1].Text
	code := strings.TrimPrefix(text, "Tu código de verificación es: ")
	require.NotEqual(t, text, code, "unexpected message template: %q", text)
	return code
}

func TestVerificationService_NormalizePhone(t *testing.T) {
	svc, _, _ := newVerificationForTest(t)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "ten digits get country prefix", raw: "5512345678", want: "15512345678"},
		{name: "already has leading one", raw: "15512345678", want: "15512345678"},
		{name: "formatting characters stripped", raw: "(551) 234-5678", want: "15512345678"},
		{name: "plus prefix stripped", raw: "+1 551 234 5678", want: "15512345678"},
		{name: "excess digits truncated", raw: "155123456789999", want: "15512345678"},
		{name: "too short", raw: "12345", wantErr: domain.ErrInvalidPhone},
		{name: "empty", raw: "", wantErr: domain.ErrInvalidPhone},
		{name: "letters only", raw: "not-a-phone", wantErr: domain.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.NormalizePhone(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 11)
			assert.True(t, strings.HasPrefix(got, "1"))
		})
	}
}

func TestVerificationService_IssueCode(t *testing.T) {
	t.Run("successful issuance", func(t *testing.T) {
		svc, messaging, clock := newVerificationForTest(t)

		session, err := svc.IssueCode(context.Background(), "15512345678")
		require.NoError(t, err)

		assert.Equal(t, domain.StatusCodeSent, session.Status)
		assert.Equal(t, 0, session.AttemptsUsed)
		assert.Equal(t, clock.Now().Add(5*time.Minute), session.ExpiresAt)

		code := lastSentCode(t, messaging)
		assert.Equal(t, session.Code, code)
		assert.Len(t, code, 7)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000000)
		assert.LessOrEqual(t, n, 9999999)

		remaining, ok := svc.Remaining("15512345678")
		require.True(t, ok)
		assert.Equal(t, 300, remaining)
	})

	t.Run("raw input is normalized before issuance", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)

		_, err := svc.IssueCode(context.Background(), "(551) 234-5678")
		require.NoError(t, err)

		// Dispatch and session state key off the canonical 11-digit form.
		sent := messaging.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "15512345678", sent[0].Phone)

		_, ok := svc.Remaining("15512345678")
		assert.True(t, ok)

		session, err := svc.Verify(context.Background(), "15512345678", lastSentCode(t, messaging))
		require.NoError(t, err)
		assert.Equal(t, "15512345678", session.Phone)
	})

	t.Run("invalid phone is rejected before dispatch", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)

		_, err := svc.IssueCode(context.Background(), "555")
		require.ErrorIs(t, err, domain.ErrInvalidPhone)
		assert.Empty(t, messaging.Sent())
	})

	t.Run("dispatch failure leaves no state behind", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)
		messaging.SendFunc = func(context.Context, string, string) error {
			return fmt.Errorf("gateway down")
		}

		_, err := svc.IssueCode(context.Background(), "15512345678")
		require.ErrorIs(t, err, domain.ErrCodeDispatchFailed)

		_, ok := svc.Remaining("15512345678")
		assert.False(t, ok)
		_, err = svc.Verify(context.Background(), "15512345678", "1234567")
		assert.ErrorIs(t, err, domain.ErrNoActiveCode)
	})

	t.Run("re-issue resets the attempt counter", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)
		ctx := context.Background()

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		// Burn two attempts against the first code.
		for i := 0; i < 2; i++ {
			_, err = svc.Verify(ctx, "15512345678", wrongCode(lastSentCode(t, messaging)))
			require.ErrorIs(t, err, domain.ErrCodeMismatch)
		}

		_, err = svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		// A fresh mismatch must report two attempts left, proving the reset.
		_, err = svc.Verify(ctx, "15512345678", wrongCode(lastSentCode(t, messaging)))
		var mismatch *domain.MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.Remaining)
	})
}

func TestVerificationService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code verifies and consumes the session", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		session, err := svc.Verify(ctx, "15512345678", lastSentCode(t, messaging))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusVerified, session.Status)
		assert.Equal(t, "15512345678", session.Phone)

		// The session is terminal; a second verify finds nothing.
		_, err = svc.Verify(ctx, "15512345678", lastSentCode(t, messaging))
		assert.ErrorIs(t, err, domain.ErrNoActiveCode)
	})

	t.Run("malformed code consumes no attempt", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		for _, code := range []string{"", "123", "12345678", "12a4567"} {
			_, err = svc.Verify(ctx, "15512345678", code)
			require.ErrorIs(t, err, domain.ErrInvalidCode)
		}

		// All three attempts must still be available.
		_, err = svc.Verify(ctx, "15512345678", wrongCode(lastSentCode(t, messaging)))
		var mismatch *domain.MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.Remaining)
	})

	t.Run("mismatches count down to exhaustion", func(t *testing.T) {
		svc, messaging, _ := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)
		bad := wrongCode(lastSentCode(t, messaging))

		for _, wantRemaining := range []int{2, 1, 0} {
			_, err = svc.Verify(ctx, "15512345678", bad)
			var mismatch *domain.MismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, wantRemaining, mismatch.Remaining)
		}

		// The budget is spent: even the correct code is refused now.
		_, err = svc.Verify(ctx, "15512345678", lastSentCode(t, messaging))
		assert.ErrorIs(t, err, domain.ErrAttemptsExhausted)
	})

	t.Run("expired code rejects even the correct value", func(t *testing.T) {
		svc, messaging, clock := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		clock.Advance(301 * time.Second)

		_, err = svc.Verify(ctx, "15512345678", lastSentCode(t, messaging))
		assert.ErrorIs(t, err, domain.ErrCodeExpired)
	})

	t.Run("expiry rejection consumes no attempt", func(t *testing.T) {
		svc, messaging, clock := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)
		clock.Advance(301 * time.Second)
		_, err = svc.Verify(ctx, "15512345678", wrongCode(lastSentCode(t, messaging)))
		require.ErrorIs(t, err, domain.ErrCodeExpired)

		// Re-issue and confirm the full budget is available again.
		_, err = svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)
		_, err = svc.Verify(ctx, "15512345678", wrongCode(lastSentCode(t, messaging)))
		var mismatch *domain.MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.Remaining)
	})
}

func TestVerificationService_Countdown(t *testing.T) {
	ctx := context.Background()

	t.Run("remaining tracks the clock", func(t *testing.T) {
		svc, _, clock := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		clock.Advance(30 * time.Second)
		remaining, ok := svc.Remaining("15512345678")
		require.True(t, ok)
		assert.Equal(t, 270, remaining)
	})

	t.Run("watcher marks the session expired at zero", func(t *testing.T) {
		svc, _, clock := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		clock.Advance(300 * time.Second)

		// The watcher's ticker is created asynchronously, so keep ticking
		// until the expiry is observed.
		require.Eventually(t, func() bool {
			clock.EmitTick()
			_, ok := svc.Remaining("15512345678")
			return !ok
		}, time.Second, 5*time.Millisecond, "watcher did not expire the session")

		_, err = svc.Verify(ctx, "15512345678", "1234567")
		assert.ErrorIs(t, err, domain.ErrCodeExpired)
	})

	t.Run("stale watcher does not touch a re-issued code", func(t *testing.T) {
		svc, _, clock := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		// Push the first code to its limit, re-issue, then tick. The first
		// watcher has been superseded and must not expire the new session.
		clock.Advance(299 * time.Second)
		_, err = svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		clock.EmitTick()
		time.Sleep(20 * time.Millisecond)

		remaining, ok := svc.Remaining("15512345678")
		require.True(t, ok)
		assert.Equal(t, 299, remaining)
	})

	t.Run("cancel discards the session and its countdown", func(t *testing.T) {
		svc, _, _ := newVerificationForTest(t)

		_, err := svc.IssueCode(ctx, "15512345678")
		require.NoError(t, err)

		svc.Cancel("15512345678")

		_, ok := svc.Remaining("15512345678")
		assert.False(t, ok)
		_, err = svc.Verify(ctx, "15512345678", "1234567")
		assert.ErrorIs(t, err, domain.ErrNoActiveCode)
	})
}

// wrongCode derives a 7-digit code guaranteed to differ from the given one.
func wrongCode(code string) string {
	last := code[len(code)-1]
	replacement := byte('1')
	if last == '1' {
		replacement = '2'
	}
	return code[:len(code)-1] + string(replacement)
}
