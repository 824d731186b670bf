package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/internal/orders"
	"github.com/vasamilk/admin-console/models"
)

func envelope(t *testing.T, body string) *milkapi.Envelope {
	t.Helper()
	var env milkapi.Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return &env
}

func TestCheckActiveSlot(t *testing.T) {
	t.Run("active", func(t *testing.T) {
		api := &fakeAPI{active: envelope(t, `{"status":1,"data":{"id":1,"name":"Morning","start_time":"05:00","end_time":"09:00"}}`)}
		st, err := orders.CheckActiveSlot(context.Background(), api, "tok")
		require.NoError(t, err)
		assert.True(t, st.Active)
		assert.Equal(t, &milkapi.Slot{ID: 1, Name: "Morning", StartTime: "05:00", EndTime: "09:00"}, st.Slot)
	})

	t.Run("inactive is not an error", func(t *testing.T) {
		api := &fakeAPI{active: envelope(t, `{"status":2,"msg":"No active slot"}`)}
		st, err := orders.CheckActiveSlot(context.Background(), api, "tok")
		require.NoError(t, err)
		assert.False(t, st.Active)
		assert.Nil(t, st.Slot)
		assert.Equal(t, "No active slot", st.Msg)
	})

	t.Run("failure", func(t *testing.T) {
		api := &fakeAPI{active: envelope(t, `{"status":0,"msg":"Token expired"}`)}
		_, err := orders.CheckActiveSlot(context.Background(), api, "tok")
		apiErr, ok := milkapi.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Token expired", apiErr.Msg)
	})

	t.Run("transport", func(t *testing.T) {
		api := &fakeAPI{activeErr: milkapi.ErrBadResponse}
		_, err := orders.CheckActiveSlot(context.Background(), api, "tok")
		assert.True(t, errors.Is(err, milkapi.ErrBadResponse))
	})
}

func TestTotalCountsOnlyActiveSlot(t *testing.T) {
	labels := map[string]string{"1": "Morning Slot", "2": "EVENING slot", "3": "Special"}
	today := []orders.TodaySlot{
		{SlotID: "1", Quantity: 2},
		{SlotID: "2", Quantity: 3},
		{SlotID: "3", Quantity: 10},
	}

	total, used := orders.Total(1, 50, today, labels, nil)
	assert.Equal(t, 100.0, total)
	assert.Equal(t, []models.ID{"1"}, used)

	total, used = orders.Total(2, 50, today, labels, nil)
	assert.Equal(t, 150.0, total)
	assert.Equal(t, []models.ID{"2"}, used)

	total, _ = orders.Total(1, 50, today, labels, map[string]float64{"1": 2.5, "2": 9})
	assert.Equal(t, 125.0, total)

	total, used = orders.Total(3, 50, today, labels, nil)
	assert.Zero(t, total)
	assert.Empty(t, used)
}

func TestUnitPrice(t *testing.T) {
	items := []map[string]any{
		{"user_id": float64(7), "name": "Asha", "unit_price": float64(55.5)},
		{"user_id": "8", "name": "Binu", "unit_price": "60"},
		{"user_id": float64(9), "name": "Chitra"},
	}

	p, ok := orders.UnitPrice(items, "7")
	assert.True(t, ok)
	assert.Equal(t, 55.5, p)

	p, ok = orders.UnitPrice(items, "8")
	assert.True(t, ok)
	assert.Equal(t, 60.0, p)

	p, ok = orders.UnitPrice(items, "9")
	assert.True(t, ok)
	assert.Zero(t, p)

	_, ok = orders.UnitPrice(items, "10")
	assert.False(t, ok)
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹ 150.00", orders.FormatINR(150))
	assert.Equal(t, "₹ 0.00", orders.FormatINR(0))
}

func TestOrderValidate(t *testing.T) {
	cases := []struct {
		name string
		req  orders.OrderRequest
		want map[string]string
	}{
		{
			name: "valid cash",
			req:  orders.OrderRequest{CustomerID: "7", PaymentType: "1", SlotQuantities: map[string]float64{"1": 2}},
			want: map[string]string{},
		},
		{
			name: "empty",
			req:  orders.OrderRequest{},
			want: map[string]string{"customer_id": "Customer is required", "payment_type": "Payment type is required"},
		},
		{
			name: "online needs transaction",
			req:  orders.OrderRequest{CustomerID: "7", PaymentType: "2", TransactionID: "  "},
			want: map[string]string{"transaction_id": "Transaction ID is required"},
		},
		{
			name: "unknown payment type",
			req:  orders.OrderRequest{CustomerID: "7", PaymentType: "3"},
			want: map[string]string{"payment_type": "Invalid payment type"},
		},
		{
			name: "negative quantity",
			req:  orders.OrderRequest{CustomerID: "7", PaymentType: "1", SlotQuantities: map[string]float64{"1": 1, "2": -0.5}},
			want: map[string]string{"slot_quantities": "Slot quantities must be non-negative numbers"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.req.Validate())
		})
	}
}

func TestQuantities(t *testing.T) {
	today := []orders.TodaySlot{{SlotID: "1", Quantity: 2}, {SlotID: "2", Quantity: 3}}
	got := orders.Quantities(today, map[string]float64{"2": 1, "4": 0.5})
	assert.Equal(t, map[string]float64{"1": 2, "2": 1, "4": 0.5}, got)
	assert.Equal(t, map[string]float64{"1": 2, "2": 3}, orders.Quantities(today, nil))
}

func TestBuildPayload(t *testing.T) {
	req := orders.OrderRequest{
		CustomerID:     "7",
		PaymentType:    "2",
		TransactionID:  " UPI-42 ",
		SlotQuantities: map[string]float64{"1": 2.5, "2": 1.5},
	}

	t.Run("daily customer paying online", func(t *testing.T) {
		p, err := orders.BuildPayload(req, orders.Customer{PayType: orders.PayDaily})
		require.NoError(t, err)
		assert.Equal(t, 7, p.CustomerID)
		assert.Equal(t, 4.0, p.Quantity)
		assert.Equal(t, orders.PaymentOnline, p.PaymentType)
		assert.Equal(t, 1, p.IsPaid)
		require.NotNil(t, p.TransactionID)
		assert.Equal(t, "UPI-42", *p.TransactionID)
		assert.Zero(t, p.IsMonthlyPaid)
		assert.Nil(t, p.MonthlyPaymentType)
		assert.Nil(t, p.MonthlyTransactionID)
	})

	t.Run("monthly customer is never paid", func(t *testing.T) {
		p, err := orders.BuildPayload(req, orders.Customer{PayType: orders.PayMonthly})
		require.NoError(t, err)
		assert.Zero(t, p.IsPaid)
		assert.Nil(t, p.TransactionID)
	})

	t.Run("cash", func(t *testing.T) {
		cash := req
		cash.PaymentType = "1"
		cash.TransactionID = ""
		p, err := orders.BuildPayload(cash, orders.Customer{PayType: orders.PayDaily})
		require.NoError(t, err)
		assert.Zero(t, p.IsPaid)
		assert.Nil(t, p.TransactionID)
	})

	t.Run("scheduled quantities fill missing slots", func(t *testing.T) {
		c := orders.Customer{
			PayType:       orders.PayDaily,
			TodaySlotData: []orders.TodaySlot{{SlotID: "1", Quantity: 2}, {SlotID: "2", Quantity: 3}},
		}
		cash := orders.OrderRequest{CustomerID: "7", PaymentType: "1"}
		p, err := orders.BuildPayload(cash, c)
		require.NoError(t, err)
		assert.Equal(t, 5.0, p.Quantity)

		cash.SlotQuantities = map[string]float64{"2": 0.5}
		p, err = orders.BuildPayload(cash, c)
		require.NoError(t, err)
		assert.Equal(t, 2.5, p.Quantity)
	})

	t.Run("bad customer id", func(t *testing.T) {
		bad := req
		bad.CustomerID = "abc"
		_, err := orders.BuildPayload(bad, orders.Customer{})
		assert.Error(t, err)
	})
}
