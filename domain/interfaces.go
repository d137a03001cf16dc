package domain

import (
	"context"
	"time"
)

// MessagingService dispatches out-of-band messages to a customer phone.
// Used both for one-time-code delivery and for free-text messages to the shop.
type MessagingService interface {
	Send(ctx context.Context, phone, text string) error
}

// OrderRepository fetches repair orders for a verified phone number and
// records repair authorizations. Orders arrive already ordered by the
// backend; implementations must not resort them.
type OrderRepository interface {
	FetchByPhone(ctx context.Context, phone string) ([]RepairOrder, error)
	SaveAuthorization(ctx context.Context, orderID int64, artifact *SignatureArtifact) error
}

// SessionRepository defines portal session persistence operations
type SessionRepository interface {
	Create(ctx context.Context, session *PortalSession) error
	FindByID(ctx context.Context, sessionID string) (*PortalSession, error)
	Save(ctx context.Context, session *PortalSession) error
	Delete(ctx context.Context, sessionID string) error
}

// TokenService defines portal access token operations
type TokenService interface {
	Generate(phone, sessionID string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// Ticker delivers countdown ticks until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock abstracts the time source used for expiration comparisons and the
// one-second countdown, so verification timing is testable.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// VerificationService owns the one-time-code state machine: issuance,
// countdown, verification and attempt limiting.
type VerificationService interface {
	NormalizePhone(raw string) (string, error)
	IssueCode(ctx context.Context, phone string) (*VerificationSession, error)
	Verify(ctx context.Context, phone, code string) (*VerificationSession, error)
	Remaining(phone string) (int, bool)
	Cancel(phone string)
	Close()
}

// SessionService owns the authenticated portal session: order fetch, view
// routing, the messaging side-channel and repair authorization.
type SessionService interface {
	Authenticate(ctx context.Context, phone string) (*PortalSession, error)
	Orders(ctx context.Context, sessionID string) (*PortalSession, error)
	SelectOrder(ctx context.Context, sessionID string, orderID int64) (*PortalSession, error)
	OpenInvoice(ctx context.Context, sessionID string) (*Invoice, error)
	OpenAuthorization(ctx context.Context, sessionID string) (*PortalSession, error)
	Back(ctx context.Context, sessionID string) (*PortalSession, error)
	SendMessage(ctx context.Context, sessionID, text string) error
	Authorize(ctx context.Context, sessionID string, artifact *SignatureArtifact) error
}
