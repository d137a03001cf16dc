package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ithesk/axeweb/domain"
)

// SessionServiceImpl implements domain.SessionService. Each verified phone
// gets one portal session recording the active view and the selected order;
// transitions that would produce impossible combinations (an invoice view
// with no selected order, for instance) are rejected outright.
type SessionServiceImpl struct {
	orders    domain.OrderRepository
	sessions  domain.SessionRepository
	messaging domain.MessagingService
	clock     domain.Clock
	ttl       time.Duration
	log       *zap.Logger
}

// NewSessionService creates the portal session service.
func NewSessionService(
	orders domain.OrderRepository,
	sessions domain.SessionRepository,
	messaging domain.MessagingService,
	clock domain.Clock,
	ttl time.Duration,
	log *zap.Logger,
) domain.SessionService {
	return &SessionServiceImpl{
		orders:    orders,
		sessions:  sessions,
		messaging: messaging,
		clock:     clock,
		ttl:       ttl,
		log:       log,
	}
}

// Authenticate creates a portal session for a freshly verified phone. Orders
// are fetched exactly once, in backend order. A fetch failure blocks session
// creation and is reported as retry-able; an empty result is a valid listing.
func (s *SessionServiceImpl) Authenticate(ctx context.Context, phone string) (*domain.PortalSession, error) {
	orders, err := s.orders.FetchByPhone(ctx, phone)
	if err != nil {
		s.log.Warn("order fetch failed", zap.String("phone", phone), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderFetchFailed, err)
	}

	now := s.clock.Now()
	session := &domain.PortalSession{
		ID:        uuid.NewString(),
		Phone:     phone,
		View:      domain.ViewListing,
		Orders:    orders,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}

	s.log.Info("portal session created",
		zap.String("session_id", session.ID),
		zap.String("phone", phone),
		zap.Int("orders", len(orders)))
	return session, nil
}

// Orders returns the session with its order listing.
func (s *SessionServiceImpl) Orders(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	return s.sessions.FindByID(ctx, sessionID)
}

// SelectOrder moves the session from listing to detail for one of its orders.
func (s *SessionServiceImpl) SelectOrder(ctx context.Context, sessionID string, orderID int64) (*domain.PortalSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.View != domain.ViewListing {
		return nil, domain.ErrInvalidTransition
	}

	found := false
	for i := range session.Orders {
		if session.Orders[i].ID == orderID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrOrderNotFound
	}

	session.View = domain.ViewDetail
	session.SelectedOrderID = orderID
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// OpenInvoice moves detail to invoice and returns the invoice read model.
func (s *SessionServiceImpl) OpenInvoice(ctx context.Context, sessionID string) (*domain.Invoice, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.View != domain.ViewDetail {
		return nil, domain.ErrInvalidTransition
	}
	order, ok := session.SelectedOrder()
	if !ok {
		return nil, domain.ErrNoOrderSelected
	}

	session.View = domain.ViewInvoice
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	invoice := domain.InvoiceFor(order)
	return &invoice, nil
}

// OpenAuthorization moves detail to the signature authorization view.
func (s *SessionServiceImpl) OpenAuthorization(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.View != domain.ViewDetail {
		return nil, domain.ErrInvalidTransition
	}
	if _, ok := session.SelectedOrder(); !ok {
		return nil, domain.ErrNoOrderSelected
	}

	session.View = domain.ViewAuthorization
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back walks one step towards the listing: invoice and authorization return
// to detail, detail returns to listing and clears the selection. The phone
// identity stays authenticated throughout.
func (s *SessionServiceImpl) Back(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.View {
	case domain.ViewInvoice, domain.ViewAuthorization:
		session.View = domain.ViewDetail
	case domain.ViewDetail:
		session.View = domain.ViewListing
		session.SelectedOrderID = 0
	default:
		return nil, domain.ErrInvalidTransition
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SendMessage sends free text to the selected order's contact number. A
// dispatch failure is reported to the caller and leaves the view untouched.
func (s *SessionServiceImpl) SendMessage(ctx context.Context, sessionID, text string) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	order, ok := session.SelectedOrder()
	if !ok {
		return domain.ErrNoOrderSelected
	}

	if err := s.messaging.Send(ctx, order.PartnerPhone, text); err != nil {
		s.log.Warn("portal message failed",
			zap.String("session_id", sessionID),
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrMessageNotSent, err)
	}
	return nil
}

// Authorize submits a signature artifact for the selected order. The session
// must be on the authorization view and the artifact must belong to the
// selected order.
func (s *SessionServiceImpl) Authorize(ctx context.Context, sessionID string, artifact *domain.SignatureArtifact) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.View != domain.ViewAuthorization {
		return domain.ErrInvalidTransition
	}
	order, ok := session.SelectedOrder()
	if !ok {
		return domain.ErrNoOrderSelected
	}
	if artifact.OrderID != order.ID {
		return domain.ErrOrderNotFound
	}

	if err := s.orders.SaveAuthorization(ctx, order.ID, artifact); err != nil {
		return fmt.Errorf("failed to save authorization: %w", err)
	}

	s.log.Info("repair authorized",
		zap.String("session_id", sessionID),
		zap.Int64("order_id", order.ID),
		zap.String("signature_id", artifact.ID))
	return nil
}
