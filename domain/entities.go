package domain

import "time"

// VerificationStatus tracks where a phone verification attempt is in its lifecycle
type VerificationStatus string

const (
	StatusAwaitingPhone     VerificationStatus = "awaiting-phone"
	StatusCodeSent          VerificationStatus = "code-sent"
	StatusVerified          VerificationStatus = "verified"
	StatusExpired           VerificationStatus = "expired"
	StatusAttemptsExhausted VerificationStatus = "attempts-exhausted"
)

// VerificationSession represents one phone-number verification attempt,
// from code issuance to verification, expiry or exhaustion.
// Code and ExpiresAt are only meaningful while Status is code-sent.
type VerificationSession struct {
	Phone        string
	Code         string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	AttemptsUsed int
	Status       VerificationStatus
}

// OrderState is the repair-lifecycle state of an order
type OrderState string

const (
	StateDraft       OrderState = "draft"
	StateConfirmed   OrderState = "confirmed"
	StateReady       OrderState = "ready"
	StateUnderRepair OrderState = "under_repair"
	StateTest        OrderState = "test"
	StateToInvoice   OrderState = "2binvoiced"
	StateDone        OrderState = "done"
	StateHandover    OrderState = "handover"
	StateGuarantee   OrderState = "guarantee"
	StateCancel      OrderState = "cancel"
)

// stateLabels maps each order state to the label shown to customers
var stateLabels = map[OrderState]string{
	StateDraft:       "Borrador",
	StateConfirmed:   "Confirmado",
	StateReady:       "Listo",
	StateUnderRepair: "En Reparación",
	StateTest:        "En Pruebas",
	StateToInvoice:   "Facturar",
	StateDone:        "Finalizado",
	StateHandover:    "Entregado",
	StateGuarantee:   "Garantía",
	StateCancel:      "Cancelado",
}

// Label returns the customer-facing label for the state, or the raw state
// value when the state is not part of the known lifecycle.
func (s OrderState) Label() string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether the state belongs to the closed repair lifecycle set.
func (s OrderState) Valid() bool {
	_, ok := stateLabels[s]
	return ok
}

// DeviceCheck is one named diagnostic check with a pass/fail result
type DeviceCheck struct {
	Name   string
	Passed bool
}

// EvaluationItem is one category/score pair from the intake evaluation
type EvaluationItem struct {
	Category string
	Score    int
}

// DeviceDetails holds the intake snapshot of the device under repair
type DeviceDetails struct {
	IMEI           string
	InitialBattery int
	Storage        string
	Color          string
	Functions      []string
	Evaluation     []EvaluationItem
}

// TechnicianMessage is a note left on the order by the shop, ordered by timestamp
type TechnicianMessage struct {
	ID        int64
	Message   string
	Timestamp time.Time
}

// RepairOrder is an immutable snapshot of one device undergoing repair.
// Orders are fetched for a verified phone number and never mutated here.
type RepairOrder struct {
	ID                 int64
	ProductName        string
	Description        string
	State              OrderState
	PartnerName        string
	PartnerPhone       string
	Technician         string
	Battery            int
	DateOpen           *time.Time
	Passcode           string
	ProgressPercentage int
	TotalAmount        float64
	Currency           string
	POSURL             string
	Checks             []DeviceCheck
	DeviceDetails      DeviceDetails
	TechnicianMessages []TechnicianMessage
}

// ViewState is the screen of the authenticated portal session currently presented
type ViewState string

const (
	ViewListing       ViewState = "listing"
	ViewDetail        ViewState = "detail"
	ViewInvoice       ViewState = "invoice"
	ViewAuthorization ViewState = "authorization"
)

// PortalSession is the authenticated portal state for one verified phone
// number: which view is active and which order, if any, is selected.
// SelectedOrderID is zero while View is listing.
type PortalSession struct {
	ID              string        `json:"id"`
	Phone           string        `json:"phone"`
	View            ViewState     `json:"view"`
	SelectedOrderID int64         `json:"selected_order_id,omitempty"`
	Orders          []RepairOrder `json:"orders"`
	CreatedAt       time.Time     `json:"created_at"`
	ExpiresAt       time.Time     `json:"expires_at"`
}

// SelectedOrder returns the currently selected order, if any.
func (s *PortalSession) SelectedOrder() (*RepairOrder, bool) {
	if s.SelectedOrderID == 0 {
		return nil, false
	}
	for i := range s.Orders {
		if s.Orders[i].ID == s.SelectedOrderID {
			return &s.Orders[i], true
		}
	}
	return nil, false
}

// Invoice is the read model presented on the invoice view
type Invoice struct {
	OrderID     int64
	Customer    string
	Product     string
	Description string
	StateLabel  string
	DateOpen    *time.Time
	TotalAmount float64
	Currency    string
}

// InvoiceFor builds the invoice read model for an order.
func InvoiceFor(order *RepairOrder) Invoice {
	return Invoice{
		OrderID:     order.ID,
		Customer:    order.PartnerName,
		Product:     order.ProductName,
		Description: order.Description,
		StateLabel:  order.State.Label(),
		DateOpen:    order.DateOpen,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	}
}

// SignatureArtifact is an encoded signature image authorizing repair work
// on one order. It lives in memory until submitted to the order backend.
type SignatureArtifact struct {
	ID        string
	OrderID   int64
	DataURL   string
	CreatedAt time.Time
}

// TokenClaims represents portal access token claims
type TokenClaims struct {
	Phone     string `json:"phone"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
