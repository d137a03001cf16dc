package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ithesk/axeweb/domain"
)

// AuthHandlers handles the phone verification flow
type AuthHandlers struct {
	verificationSvc domain.VerificationService
	sessionSvc      domain.SessionService
	tokenSvc        domain.TokenService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(verificationSvc domain.VerificationService, sessionSvc domain.SessionService, tokenSvc domain.TokenService) *AuthHandlers {
	return &AuthHandlers{
		verificationSvc: verificationSvc,
		sessionSvc:      sessionSvc,
		tokenSvc:        tokenSvc,
	}
}

// SendCodeRequest carries the raw phone input; normalization happens here,
// not in the browser.
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyCodeRequest carries the submitted one-time code
type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,otpcode"`
}

// SendCode normalizes the phone and dispatches a fresh verification code.
func (h *AuthHandlers) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone, err := h.verificationSvc.NormalizePhone(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidPhone.Error()})
		return
	}

	session, err := h.verificationSvc.IssueCode(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, domain.ErrCodeDispatchFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue verification code"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"data": gin.H{
			"phone":      session.Phone,
			"expires_in": int(session.ExpiresAt.Sub(session.IssuedAt).Seconds()),
		},
	})
}

// VerifyCode checks the submitted code and, on success, opens the portal
// session and returns its access token together with the order listing.
func (h *AuthHandlers) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidCode.Error()})
		return
	}

	phone, err := h.verificationSvc.NormalizePhone(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidPhone.Error()})
		return
	}

	if _, err := h.verificationSvc.Verify(c.Request.Context(), phone, req.Code); err != nil {
		var mismatch *domain.MismatchError
		switch {
		case errors.Is(err, domain.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNoActiveCode):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrCodeExpired):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAttemptsExhausted):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.As(err, &mismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "remaining_attempts": mismatch.Remaining})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}

	session, err := h.sessionSvc.Authenticate(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, domain.ErrOrderFetchFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open portal session"})
		return
	}

	token, err := h.tokenSvc.Generate(phone, session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": token,
			"token_type":   "Bearer",
			"session": gin.H{
				"id":   session.ID,
				"view": session.View,
			},
			"orders": orderSummaries(session.Orders),
		},
	})
}
