package milkapi

import (
	"context"
	"encoding/json"
	"errors"
)

// Slot is a delivery window as get-active-slot reports it.
type Slot struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ActiveSlot returns the raw envelope: status 2 (no slot active) is a normal
// answer the caller has to see.
func (c *Client) ActiveSlot(ctx context.Context, token string) (*Envelope, error) {
	return c.Post(ctx, PathActiveSlot, nil, NewForm().WithToken(token))
}

// DirectCustomerLog is the order placed for a customer from the console.
type DirectCustomerLog struct {
	Token                string  `json:"token"`
	CustomerID           int     `json:"customer_id"`
	Quantity             float64 `json:"quantity"`
	PaymentType          int     `json:"payment_type"`
	IsPaid               int     `json:"is_paid"`
	TransactionID        *string `json:"transaction_id"`
	IsMonthlyPaid        int     `json:"is_monthly_paid"`
	MonthlyID            int     `json:"monthly_id"`
	MonthlyPaymentType   *int    `json:"monthly_payment_type"`
	MonthlyTransactionID *string `json:"monthly_transaction_id"`
}

// PlaceDirectCustomerLog submits an order. token overrides whatever log carries.
func (c *Client) PlaceDirectCustomerLog(ctx context.Context, token string, log DirectCustomerLog) (string, error) {
	log.Token = token
	env, err := c.PostJSON(ctx, PathDirectCustomerLog, log)
	if err != nil {
		return "", err
	}
	if err := env.Err(); err != nil {
		return "", err
	}
	return env.Msg, nil
}

// Dropdown posts form to a drop-down endpoint and returns its items.
func (c *Client) Dropdown(ctx context.Context, token, path string, form *Form) ([]map[string]any, error) {
	env, err := c.Call(ctx, token, path, form)
	if err != nil {
		return nil, err
	}
	var items []map[string]any
	if err := env.DecodeData(&items); err != nil {
		if errors.Is(err, ErrNoData) {
			return []map[string]any{}, nil
		}
		return nil, err
	}
	return items, nil
}

// Raw returns the data field of a successful envelope.
func Raw(env *Envelope) json.RawMessage {
	if env == nil || len(env.Data) == 0 {
		return json.RawMessage("null")
	}
	return env.Data
}
