package repositories

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

// OrderGateway implements domain.OrderRepository against the shop backend's
// HTTP API, mapping its JSON schema onto domain.RepairOrder.
type OrderGateway struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewOrderGateway creates an order repository backed by the shop API.
func NewOrderGateway(baseURL string, log *zap.Logger) domain.OrderRepository {
	return &OrderGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// gatewayOrder mirrors the backend's repair order schema.
type gatewayOrder struct {
	ID                 int64   `json:"id"`
	ProductName        string  `json:"product_name"`
	Description        string  `json:"description"`
	State              string  `json:"state"`
	PartnerName        string  `json:"partner_name"`
	PartnerPhone       string  `json:"partner_phone"`
	UserID             string  `json:"user_id"`
	Battery            int     `json:"battery"`
	DateOpen           string  `json:"date_open"`
	Passcode           string  `json:"passcode"`
	ProgressPercentage int     `json:"progress_percentage"`
	TotalAmount        float64 `json:"total_amount"`
	Currency           string  `json:"currency"`
	POSURL             string  `json:"pos_url"`
	FaceID             string  `json:"faceid"`
	Screen             string  `json:"screen"`
	Touch              string  `json:"touch"`
	Camera             string  `json:"camera"`
	WiFi               string  `json:"wifi"`
	Signal             string  `json:"signal"`
	PowerState         string  `json:"powerstate"`
	Charging           string  `json:"charging"`
	CameraFront        string  `json:"camerafront"`
	TrueTone           string  `json:"truetone"`
	Microphone         string  `json:"microphone"`
	DeviceDetails      struct {
		IMEI           string   `json:"imei"`
		InitialBattery int      `json:"initial_battery"`
		Storage        string   `json:"storage"`
		Color          string   `json:"color"`
		Functions      []string `json:"functions"`
		Evaluation     []struct {
			Category string `json:"category"`
			Score    int    `json:"score"`
		} `json:"evaluation"`
	} `json:"device_details"`
	TechnicianMessages []struct {
		ID        int64  `json:"id"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	} `json:"technician_messages"`
}

type fetchOrdersRequest struct {
	Phone string `json:"phone"`
}

type fetchOrdersResponse struct {
	Orders []gatewayOrder `json:"orders"`
}

type authorizeRequest struct {
	OrderID     int64  `json:"order_id"`
	SignatureID string `json:"signature_id"`
	Signature   string `json:"signature"`
}

// FetchByPhone implements domain.OrderRepository. Backend arrival order is
// preserved.
func (g *OrderGateway) FetchByPhone(ctx context.Context, phone string) ([]domain.RepairOrder, error) {
	payload, err := json.Marshal(fetchOrdersRequest{Phone: phone})
	if err != nil {
		return nil, fmt.Errorf("failed to encode fetch payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/get-repair-orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("order backend returned status %d", resp.StatusCode)
	}

	var body fetchOrdersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	orders := make([]domain.RepairOrder, 0, len(body.Orders))
	for i := range body.Orders {
		orders = append(orders, mapGatewayOrder(&body.Orders[i]))
	}

	g.log.Debug("orders fetched", zap.String("phone", phone), zap.Int("count", len(orders)))
	return orders, nil
}

// SaveAuthorization implements domain.OrderRepository.
func (g *OrderGateway) SaveAuthorization(ctx context.Context, orderID int64, artifact *domain.SignatureArtifact) error {
	payload, err := json.Marshal(authorizeRequest{
		OrderID:     orderID,
		SignatureID: artifact.ID,
		Signature:   artifact.DataURL,
	})
	if err != nil {
		return fmt.Errorf("failed to encode authorization payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/authorize-repair", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build authorization request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("order backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("order backend returned status %d", resp.StatusCode)
	}
	return nil
}

func mapGatewayOrder(o *gatewayOrder) domain.RepairOrder {
	order := domain.RepairOrder{
		ID:                 o.ID,
		ProductName:        o.ProductName,
		Description:        o.Description,
		State:              domain.OrderState(o.State),
		PartnerName:        o.PartnerName,
		PartnerPhone:       o.PartnerPhone,
		Technician:         o.UserID,
		Battery:            o.Battery,
		DateOpen:           parseBackendTime(o.DateOpen),
		Passcode:           o.Passcode,
		ProgressPercentage: o.ProgressPercentage,
		TotalAmount:        o.TotalAmount,
		Currency:           o.Currency,
		POSURL:             o.POSURL,
		Checks:             mapChecks(o),
	}

	order.DeviceDetails = domain.DeviceDetails{
		IMEI:           o.DeviceDetails.IMEI,
		InitialBattery: o.DeviceDetails.InitialBattery,
		Storage:        o.DeviceDetails.Storage,
		Color:          o.DeviceDetails.Color,
		Functions:      o.DeviceDetails.Functions,
	}
	for _, e := range o.DeviceDetails.Evaluation {
		order.DeviceDetails.Evaluation = append(order.DeviceDetails.Evaluation, domain.EvaluationItem{
			Category: e.Category,
			Score:    e.Score,
		})
	}

	for _, m := range o.TechnicianMessages {
		msg := domain.TechnicianMessage{ID: m.ID, Message: m.Message}
		if t := parseBackendTime(m.Timestamp); t != nil {
			msg.Timestamp = *t
		}
		order.TechnicianMessages = append(order.TechnicianMessages, msg)
	}

	return order
}

// mapChecks builds the fixed diagnostic check list in display order.
func mapChecks(o *gatewayOrder) []domain.DeviceCheck {
	return []domain.DeviceCheck{
		{Name: "Face ID", Passed: CheckPassed(o.FaceID)},
		{Name: "Cargado", Passed: CheckPassed(o.Charging)},
		{Name: "Camara Frontal", Passed: CheckPassed(o.CameraFront)},
		{Name: "Wi-Fi", Passed: CheckPassed(o.WiFi)},
		{Name: "Señal", Passed: CheckPassed(o.Signal)},
		{Name: "Cámara", Passed: CheckPassed(o.Camera)},
		{Name: "Pantalla", Passed: CheckPassed(o.Screen)},
		{Name: "Touch", Passed: CheckPassed(o.Touch)},
		{Name: "True Tone", Passed: CheckPassed(o.TrueTone)},
		{Name: "Micrófono", Passed: CheckPassed(o.Microphone)},
	}
}

// CheckPassed interprets the backend's loose diagnostic markers.
func CheckPassed(v string) bool {
	switch v {
	case "pass", "ok", "true", "1", "yes":
		return true
	}
	return false
}

func parseBackendTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
