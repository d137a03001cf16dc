package handlers

import (
	"time"

	"github.com/ithesk/axeweb/domain"
)

// OrderSummaryView is the listing row for one order
type OrderSummaryView struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	State       string `json:"state"`
	StateLabel  string `json:"state_label"`
}

// OrderDetailView is the full order presented on the detail screen
type OrderDetailView struct {
	ID                 int64                   `json:"id"`
	ProductName        string                  `json:"product_name"`
	Description        string                  `json:"description"`
	State              string                  `json:"state"`
	StateLabel         string                  `json:"state_label"`
	PartnerName        string                  `json:"partner_name"`
	PartnerPhone       string                  `json:"partner_phone"`
	Technician         string                  `json:"technician"`
	Battery            int                     `json:"battery"`
	ProgressPercentage int                     `json:"progress_percentage"`
	TotalAmount        float64                 `json:"total_amount"`
	Currency           string                  `json:"currency"`
	POSURL             string                  `json:"pos_url,omitempty"`
	Checks             []CheckView             `json:"checks"`
	DeviceDetails      DeviceDetailsView       `json:"device_details"`
	TechnicianMessages []TechnicianMessageView `json:"technician_messages"`
}

type CheckView struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

type DeviceDetailsView struct {
	IMEI           string               `json:"imei"`
	InitialBattery int                  `json:"initial_battery"`
	Storage        string               `json:"storage"`
	Color          string               `json:"color"`
	Functions      []string             `json:"functions"`
	Evaluation     []EvaluationItemView `json:"evaluation"`
}

type EvaluationItemView struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

type TechnicianMessageView struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// InvoiceView is the invoice screen read model
type InvoiceView struct {
	OrderID     int64      `json:"order_id"`
	Customer    string     `json:"customer"`
	Product     string     `json:"product"`
	Description string     `json:"description"`
	StateLabel  string     `json:"state_label"`
	DateOpen    *time.Time `json:"date_open,omitempty"`
	TotalAmount float64    `json:"total_amount"`
	Currency    string     `json:"currency"`
}

func orderSummaries(orders []domain.RepairOrder) []OrderSummaryView {
	out := make([]OrderSummaryView, 0, len(orders))
	for i := range orders {
		out = append(out, OrderSummaryView{
			ID:          orders[i].ID,
			ProductName: orders[i].ProductName,
			State:       string(orders[i].State),
			StateLabel:  orders[i].State.Label(),
		})
	}
	return out
}

func orderDetail(order *domain.RepairOrder) OrderDetailView {
	view := OrderDetailView{
		ID:                 order.ID,
		ProductName:        order.ProductName,
		Description:        order.Description,
		State:              string(order.State),
		StateLabel:         order.State.Label(),
		PartnerName:        order.PartnerName,
		PartnerPhone:       order.PartnerPhone,
		Technician:         order.Technician,
		Battery:            order.Battery,
		ProgressPercentage: order.ProgressPercentage,
		TotalAmount:        order.TotalAmount,
		Currency:           order.Currency,
		POSURL:             order.POSURL,
		DeviceDetails: DeviceDetailsView{
			IMEI:           order.DeviceDetails.IMEI,
			InitialBattery: order.DeviceDetails.InitialBattery,
			Storage:        order.DeviceDetails.Storage,
			Color:          order.DeviceDetails.Color,
			Functions:      order.DeviceDetails.Functions,
		},
	}
	for _, check := range order.Checks {
		view.Checks = append(view.Checks, CheckView{Name: check.Name, Passed: check.Passed})
	}
	for _, e := range order.DeviceDetails.Evaluation {
		view.DeviceDetails.Evaluation = append(view.DeviceDetails.Evaluation, EvaluationItemView{
			Category: e.Category,
			Score:    e.Score,
		})
	}
	for _, m := range order.TechnicianMessages {
		view.TechnicianMessages = append(view.TechnicianMessages, TechnicianMessageView{
			ID:        m.ID,
			Message:   m.Message,
			Timestamp: m.Timestamp,
		})
	}
	return view
}

func invoiceView(inv *domain.Invoice) InvoiceView {
	return InvoiceView{
		OrderID:     inv.OrderID,
		Customer:    inv.Customer,
		Product:     inv.Product,
		Description: inv.Description,
		StateLabel:  inv.StateLabel,
		DateOpen:    inv.DateOpen,
		TotalAmount: inv.TotalAmount,
		Currency:    inv.Currency,
	}
}
