package orders

import (
	"context"
	"encoding/json"

	"github.com/vasamilk/admin-console/internal/dropdown"
	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/models"
)

// DirectCustomerType is the customer drop-down type offered on the order screen.
const DirectCustomerType = 1

// Payment types.
const (
	PaymentCash   = 1
	PaymentOnline = 2
)

// Customer pay types.
const (
	PayDaily   = 1
	PayMonthly = 2
)

// Backend is the slice of the milk-api client order placement uses.
type Backend interface {
	ActiveSlot(ctx context.Context, token string) (*milkapi.Envelope, error)
	ViewUser(ctx context.Context, token, userID string) (json.RawMessage, error)
	PlaceDirectCustomerLog(ctx context.Context, token string, log milkapi.DirectCustomerLog) (string, error)
}

// Catalog supplies the drop-downs the order screen reads prices and slot
// labels from.
type Catalog interface {
	SlotOptions(ctx context.Context, token string) ([]dropdown.Option, error)
	CustomerItems(ctx context.Context, token string, customerType int) ([]map[string]any, error)
}

// SlotState is the answer of get-active-slot. Inactive is a normal state that
// blocks ordering.
type SlotState struct {
	Active bool          `json:"active"`
	Slot   *milkapi.Slot `json:"slot,omitempty"`
	Msg    string        `json:"msg,omitempty"`
}

// TodaySlot is one of a customer's scheduled deliveries for today.
type TodaySlot struct {
	SlotID   models.ID `json:"slot_id"`
	Quantity float64   `json:"quantity"`
}

// Customer is the part of a view-user record the order screen needs.
type Customer struct {
	UserID        models.ID   `json:"user_id"`
	Name          string      `json:"name"`
	CustomerType  int         `json:"customer_type"`
	PayType       int         `json:"pay_type"`
	TodaySlotData []TodaySlot `json:"today_slot_data"`
}

// OrderRequest is what the order form submits. Quantities are keyed by slot id.
type OrderRequest struct {
	CustomerID     models.ID          `json:"customer_id"`
	PaymentType    models.ID          `json:"payment_type"`
	TransactionID  string             `json:"transaction_id"`
	SlotQuantities map[string]float64 `json:"slot_quantities"`
}

// Quote is the priced order shown before submission.
type Quote struct {
	UnitPrice float64     `json:"unit_price"`
	Slots     []models.ID `json:"slots"`
	Total     float64     `json:"total"`
	Display   string      `json:"display"`
}
