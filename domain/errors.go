package domain

import (
	"errors"
	"strconv"
)

// Validation errors. Local and immediate, resolved by re-input; they never
// reach the messaging gateway or the order backend.
var (
	ErrInvalidPhone = errors.New("phone number must be 11 digits starting with 1")
	ErrInvalidCode  = errors.New("verification code must be 7 digits")
)

// Verification errors
var (
	ErrNoActiveCode       = errors.New("no active verification code for this phone")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrCodeMismatch       = errors.New("verification code does not match")
	ErrAttemptsExhausted  = errors.New("maximum verification attempts exceeded")
	ErrCodeDispatchFailed = errors.New("failed to dispatch verification code")
)

// Portal session errors
var (
	ErrSessionNotFound   = errors.New("portal session not found")
	ErrSessionExpired    = errors.New("portal session has expired")
	ErrOrderNotFound     = errors.New("repair order not found in this session")
	ErrNoOrderSelected   = errors.New("no repair order selected")
	ErrInvalidTransition = errors.New("view transition not allowed from current state")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// MismatchError is returned on a failed code comparison. Remaining counts
// the verification attempts left after the failed one was consumed.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	if e.Remaining == 1 {
		return "código incorrecto, te queda 1 intento"
	}
	return "código incorrecto, te quedan " + strconv.Itoa(e.Remaining) + " intentos"
}

// Is lets errors.Is match a MismatchError against ErrCodeMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrCodeMismatch
}

// Collaborator errors
var (
	ErrOrderFetchFailed = errors.New("failed to fetch repair orders")
	ErrMessageNotSent   = errors.New("failed to send message")
)
