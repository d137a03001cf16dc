package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ithesk/axeweb/domain"
	"github.com/ithesk/axeweb/internal/services"
)

// PortalHandlers serves the authenticated portal views: order listing,
// detail, invoice, authorization, the messaging side-channel and signature
// submission.
type PortalHandlers struct {
	sessionSvc domain.SessionService
	clock      domain.Clock
	sigWidth   int
	sigHeight  int
}

// NewPortalHandlers creates new portal handlers
func NewPortalHandlers(sessionSvc domain.SessionService, clock domain.Clock, sigWidth, sigHeight int) *PortalHandlers {
	return &PortalHandlers{
		sessionSvc: sessionSvc,
		clock:      clock,
		sigWidth:   sigWidth,
		sigHeight:  sigHeight,
	}
}

// MessageRequest is a free-text message to the shop
type MessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SignatureRequest carries the strokes drawn on the signature canvas.
// An empty drawing is accepted.
type SignatureRequest struct {
	Strokes [][]services.Point `json:"strokes"`
}

func sessionID(c *gin.Context) string {
	id, _ := c.Get("session_id")
	s, _ := id.(string)
	return s
}

// Orders returns the listing view. Zero orders is a valid listing.
func (h *PortalHandlers) Orders(c *gin.Context) {
	session, err := h.sessionSvc.Orders(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"view":   session.View,
			"orders": orderSummaries(session.Orders),
		},
	})
}

// Select moves the session to the detail view for one order.
func (h *PortalHandlers) Select(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	session, err := h.sessionSvc.SelectOrder(c.Request.Context(), sessionID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	order, _ := session.SelectedOrder()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"view":  session.View,
			"order": orderDetail(order),
		},
	})
}

// Detail returns the currently selected order.
func (h *PortalHandlers) Detail(c *gin.Context) {
	session, err := h.sessionSvc.Orders(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	order, ok := session.SelectedOrder()
	if !ok {
		h.respondError(c, domain.ErrNoOrderSelected)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"view":  session.View,
			"order": orderDetail(order),
		},
	})
}

// Invoice moves to the invoice view and returns it.
func (h *PortalHandlers) Invoice(c *gin.Context) {
	invoice, err := h.sessionSvc.OpenInvoice(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"view":    domain.ViewInvoice,
			"invoice": invoiceView(invoice),
		},
	})
}

// Authorization moves to the signature authorization view.
func (h *PortalHandlers) Authorization(c *gin.Context) {
	session, err := h.sessionSvc.OpenAuthorization(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	order, _ := session.SelectedOrder()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"view":  session.View,
			"order": gin.H{"id": order.ID, "product_name": order.ProductName, "description": order.Description, "partner_name": order.PartnerName},
		},
	})
}

// Back walks one view towards the listing.
func (h *PortalHandlers) Back(c *gin.Context) {
	session, err := h.sessionSvc.Back(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"view": session.View}
	if session.SelectedOrderID != 0 {
		resp["selected_order_id"] = session.SelectedOrderID
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Message sends free text to the selected order's contact number.
func (h *PortalHandlers) Message(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessionSvc.SendMessage(c.Request.Context(), sessionID(c), req.Message); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "mensaje enviado"}})
}

// Signature encodes the submitted strokes and authorizes the repair.
func (h *PortalHandlers) Signature(c *gin.Context) {
	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionSvc.Orders(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	order, ok := session.SelectedOrder()
	if !ok {
		h.respondError(c, domain.ErrNoOrderSelected)
		return
	}

	pad := services.NewSignaturePad(h.sigWidth, h.sigHeight, h.clock)
	pad.SetStrokes(req.Strokes)
	artifact, err := pad.Save(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode signature"})
		return
	}

	if err := h.sessionSvc.Authorize(c.Request.Context(), session.ID, artifact); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"signature_id": artifact.ID,
			"order_id":     artifact.OrderID,
			"created_at":   artifact.CreatedAt,
		},
	})
}

func (h *PortalHandlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNoOrderSelected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMessageNotSent), errors.Is(err, domain.ErrOrderFetchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
