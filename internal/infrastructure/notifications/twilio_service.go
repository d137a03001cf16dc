package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/ithesk/axeweb/domain"
)

// TwilioService implements domain.MessagingService over the Twilio API.
type TwilioService struct {
	client     *twilio.RestClient
	fromNumber string
	log        *zap.Logger
}

// NewTwilioService creates a Twilio-backed messaging service.
func NewTwilioService(accountSID, authToken, fromNumber string, log *zap.Logger) domain.MessagingService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioService{
		client:     client,
		fromNumber: fromNumber,
		log:        log,
	}
}

// Send implements domain.MessagingService. Portal phone numbers are bare
// 11-digit strings; Twilio wants E.164.
func (t *TwilioService) Send(ctx context.Context, phone, text string) error {
	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		t.log.Info("mock message", zap.String("to", phone), zap.String("text", text))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("+" + phone)
	params.SetFrom(t.fromNumber)
	params.SetBody(text)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
