package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ithesk/axeweb/domain"
)

// OrderRepositoryImpl implements domain.OrderRepository directly against the
// shop database. Order rows are owned by the shop backend and read-only
// here; only authorization rows are written by the portal.
type OrderRepositoryImpl struct {
	db *gorm.DB
}

// DBRepairOrder represents the database model for a repair order
type DBRepairOrder struct {
	ID                 int64      `gorm:"primaryKey"`
	ProductName        string     `gorm:"size:255"`
	Description        string     `gorm:"size:1024"`
	State              string     `gorm:"index;size:32"`
	PartnerName        string     `gorm:"size:255"`
	PartnerPhone       string     `gorm:"index;size:32"`
	UserID             string     `gorm:"column:user_id;size:255"`
	Battery            int
	DateOpen           *time.Time
	Passcode           string `gorm:"size:64"`
	ProgressPercentage int
	TotalAmount        float64
	Currency           string `gorm:"size:8"`
	POSURL             string `gorm:"column:pos_url;size:512"`
	FaceID             string `gorm:"column:faceid;size:16"`
	Screen             string `gorm:"size:16"`
	Touch              string `gorm:"size:16"`
	Camera             string `gorm:"size:16"`
	WiFi               string `gorm:"column:wifi;size:16"`
	Signal             string `gorm:"size:16"`
	Charging           string `gorm:"size:16"`
	CameraFront        string `gorm:"column:camerafront;size:16"`
	TrueTone           string `gorm:"column:truetone;size:16"`
	Microphone         string `gorm:"size:16"`
	IMEI               string `gorm:"column:imei;size:32"`
	InitialBattery     int
	Storage            string `gorm:"size:32"`
	Color              string `gorm:"size:32"`
}

func (DBRepairOrder) TableName() string { return "repair_orders" }

// DBTechnicianMessage represents a technician note on an order
type DBTechnicianMessage struct {
	ID        int64  `gorm:"primaryKey"`
	OrderID   int64  `gorm:"index"`
	Message   string `gorm:"size:1024"`
	Timestamp time.Time
}

func (DBTechnicianMessage) TableName() string { return "repair_order_messages" }

// DBEvaluationItem represents one intake evaluation row
type DBEvaluationItem struct {
	ID       int64  `gorm:"primaryKey"`
	OrderID  int64  `gorm:"index"`
	Category string `gorm:"size:64"`
	Score    int
	Position int `gorm:"index"`
}

func (DBEvaluationItem) TableName() string { return "repair_order_evaluations" }

// DBAuthorization records a signed repair authorization
type DBAuthorization struct {
	ID          int64  `gorm:"primaryKey"`
	OrderID     int64  `gorm:"index"`
	SignatureID string `gorm:"uniqueIndex;size:64"`
	Signature   string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (DBAuthorization) TableName() string { return "repair_order_authorizations" }

// NewOrderRepository creates a database-backed order repository.
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// FetchByPhone implements domain.OrderRepository. Rows come back in the
// backend's insertion order.
func (r *OrderRepositoryImpl) FetchByPhone(ctx context.Context, phone string) ([]domain.RepairOrder, error) {
	var rows []DBRepairOrder
	if err := r.db.WithContext(ctx).
		Where("partner_phone = ?", phone).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query repair orders: %w", err)
	}

	orders := make([]domain.RepairOrder, 0, len(rows))
	for i := range rows {
		order, err := r.dbToDomain(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// SaveAuthorization implements domain.OrderRepository.
func (r *OrderRepositoryImpl) SaveAuthorization(ctx context.Context, orderID int64, artifact *domain.SignatureArtifact) error {
	row := DBAuthorization{
		OrderID:     orderID,
		SignatureID: artifact.ID,
		Signature:   artifact.DataURL,
		CreatedAt:   artifact.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store authorization: %w", err)
	}
	return nil
}

func (r *OrderRepositoryImpl) dbToDomain(ctx context.Context, row *DBRepairOrder) (*domain.RepairOrder, error) {
	order := &domain.RepairOrder{
		ID:                 row.ID,
		ProductName:        row.ProductName,
		Description:        row.Description,
		State:              domain.OrderState(row.State),
		PartnerName:        row.PartnerName,
		PartnerPhone:       row.PartnerPhone,
		Technician:         row.UserID,
		Battery:            row.Battery,
		DateOpen:           row.DateOpen,
		Passcode:           row.Passcode,
		ProgressPercentage: row.ProgressPercentage,
		TotalAmount:        row.TotalAmount,
		Currency:           row.Currency,
		POSURL:             row.POSURL,
		Checks: []domain.DeviceCheck{
			{Name: "Face ID", Passed: CheckPassed(row.FaceID)},
			{Name: "Cargado", Passed: CheckPassed(row.Charging)},
			{Name: "Camara Frontal", Passed: CheckPassed(row.CameraFront)},
			{Name: "Wi-Fi", Passed: CheckPassed(row.WiFi)},
			{Name: "Señal", Passed: CheckPassed(row.Signal)},
			{Name: "Cámara", Passed: CheckPassed(row.Camera)},
			{Name: "Pantalla", Passed: CheckPassed(row.Screen)},
			{Name: "Touch", Passed: CheckPassed(row.Touch)},
			{Name: "True Tone", Passed: CheckPassed(row.TrueTone)},
			{Name: "Micrófono", Passed: CheckPassed(row.Microphone)},
		},
		DeviceDetails: domain.DeviceDetails{
			IMEI:           row.IMEI,
			InitialBattery: row.InitialBattery,
			Storage:        row.Storage,
			Color:          row.Color,
		},
	}

	var messages []DBTechnicianMessage
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", row.ID).
		Order("timestamp ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to query technician messages: %w", err)
	}
	for _, m := range messages {
		order.TechnicianMessages = append(order.TechnicianMessages, domain.TechnicianMessage{
			ID:        m.ID,
			Message:   m.Message,
			Timestamp: m.Timestamp,
		})
	}

	var evaluation []DBEvaluationItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", row.ID).
		Order("position ASC").
		Find(&evaluation).Error; err != nil {
		return nil, fmt.Errorf("failed to query evaluation: %w", err)
	}
	for _, e := range evaluation {
		order.DeviceDetails.Evaluation = append(order.DeviceDetails.Evaluation, domain.EvaluationItem{
			Category: e.Category,
			Score:    e.Score,
		})
	}

	return order, nil
}
