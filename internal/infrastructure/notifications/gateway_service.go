package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ithesk/axeweb/domain"
)

// GatewayService implements domain.MessagingService against the shop's
// WhatsApp messaging gateway.
type GatewayService struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewGatewayService creates a messaging service for the shop gateway.
func NewGatewayService(baseURL string, log *zap.Logger) domain.MessagingService {
	return &GatewayService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

type sendMessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send implements domain.MessagingService.
func (g *GatewayService) Send(ctx context.Context, phone, text string) error {
	payload, err := json.Marshal(sendMessageRequest{Phone: phone, Message: text})
	if err != nil {
		return fmt.Errorf("failed to encode message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/send-message", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("message gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("message gateway returned status %d", resp.StatusCode)
	}

	var body sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if body.Status != "success" {
		if body.Message != "" {
			return fmt.Errorf("message gateway rejected send: %s", body.Message)
		}
		return fmt.Errorf("message gateway rejected send")
	}

	g.log.Debug("message dispatched", zap.String("to", phone))
	return nil
}
