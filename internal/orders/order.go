package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vasamilk/admin-console/internal/dropdown"
	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/models"
)

var (
	ErrSlotInactive    = errors.New("no slot is active")
	ErrUnknownCustomer = errors.New("customer not found")
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// CheckActiveSlot asks the backend which delivery slot is open. Status 2 is
// reported as an inactive state, never as an error.
func CheckActiveSlot(ctx context.Context, api Backend, token string) (SlotState, error) {
	env, err := api.ActiveSlot(ctx, token)
	if err != nil {
		return SlotState{}, err
	}
	switch {
	case env.OK():
		var slot milkapi.Slot
		if err := env.DecodeData(&slot); err != nil {
			return SlotState{}, fmt.Errorf("decode active slot: %w", err)
		}
		return SlotState{Active: true, Slot: &slot}, nil
	case env.Inactive():
		return SlotState{Active: false, Msg: env.Msg}, nil
	}
	return SlotState{}, env.Err()
}

// slotKind is the label fragment a slot needs to be billed in the active slot.
func slotKind(activeID int) string {
	switch activeID {
	case 1:
		return "morning"
	case 2:
		return "evening"
	}
	return ""
}

// UnitPrice finds customerID in the customer drop-down and returns its
// unit_price. A customer without a price costs 0.
func UnitPrice(items []map[string]any, customerID string) (float64, bool) {
	for _, o := range dropdown.Options(items, "unit_price", "user_id") {
		if o.Value != customerID {
			continue
		}
		p, err := strconv.ParseFloat(o.Label, 64)
		if err != nil {
			return 0, true
		}
		return p, true
	}
	return 0, false
}

// Total prices today's deliveries that fall in the active slot. labels maps
// slot ids to slot names; qty overrides a slot's scheduled quantity.
func Total(activeID int, unitPrice float64, today []TodaySlot, labels map[string]string, qty map[string]float64) (float64, []models.ID) {
	kind := slotKind(activeID)
	if kind == "" {
		return 0, nil
	}
	merged := Quantities(today, qty)
	var (
		total float64
		used  []models.ID
	)
	for _, s := range today {
		if !strings.Contains(strings.ToLower(labels[string(s.SlotID)]), kind) {
			continue
		}
		total += merged[string(s.SlotID)] * unitPrice
		used = append(used, s.SlotID)
	}
	return total, used
}

// Quantities merges today's schedule with the submitted quantities, which win
// per slot.
func Quantities(today []TodaySlot, qty map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(today)+len(qty))
	for _, s := range today {
		out[string(s.SlotID)] = s.Quantity
	}
	for id, q := range qty {
		out[id] = q
	}
	return out
}

// FormatINR renders an amount in rupees with two decimals.
func FormatINR(v float64) string {
	return inr.Sprintf("₹ %.2f", v)
}

// Validate checks an order form. The result is empty when it is valid.
func (o OrderRequest) Validate() map[string]string {
	errs := map[string]string{}
	if o.CustomerID == "" {
		errs["customer_id"] = "Customer is required"
	}
	switch o.PaymentType {
	case "":
		errs["payment_type"] = "Payment type is required"
	case "1":
	case "2":
		if strings.TrimSpace(o.TransactionID) == "" {
			errs["transaction_id"] = "Transaction ID is required"
		}
	default:
		errs["payment_type"] = "Invalid payment type"
	}
	for _, q := range o.SlotQuantities {
		if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			errs["slot_quantities"] = "Slot quantities must be non-negative numbers"
			break
		}
	}
	return errs
}

// validateQuote applies the checks that matter before payment details are
// entered.
func (o OrderRequest) validateQuote() map[string]string {
	errs := o.Validate()
	for k := range errs {
		if k != "customer_id" && k != "slot_quantities" {
			delete(errs, k)
		}
	}
	return errs
}

// BuildPayload turns a validated order into the direct-customer-log body.
// Monthly customers are billed later, so their orders are never marked paid
// and carry no transaction id.
func BuildPayload(o OrderRequest, c Customer) (milkapi.DirectCustomerLog, error) {
	customerID, err := strconv.Atoi(string(o.CustomerID))
	if err != nil {
		return milkapi.DirectCustomerLog{}, fmt.Errorf("customer_id %q: %w", o.CustomerID, err)
	}
	paymentType, err := strconv.Atoi(string(o.PaymentType))
	if err != nil {
		return milkapi.DirectCustomerLog{}, fmt.Errorf("payment_type %q: %w", o.PaymentType, err)
	}

	var quantity float64
	for _, q := range Quantities(c.TodaySlotData, o.SlotQuantities) {
		quantity += q
	}

	log := milkapi.DirectCustomerLog{
		CustomerID:  customerID,
		Quantity:    quantity,
		PaymentType: paymentType,
	}
	if c.PayType != PayMonthly {
		if paymentType == PaymentOnline {
			log.IsPaid = 1
		}
		if tx := strings.TrimSpace(o.TransactionID); tx != "" {
			log.TransactionID = &tx
		}
	}
	return log, nil
}
