package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/dropdown"
)

type Service struct {
	api     Backend
	catalog Catalog
}

func NewService(api Backend, catalog Catalog) *Service {
	return &Service{api: api, catalog: catalog}
}

func (s *Service) ActiveSlot(ctx context.Context, token string) (SlotState, error) {
	return CheckActiveSlot(ctx, s.api, token)
}

// Customers lists the customers orders can be placed for.
func (s *Service) Customers(ctx context.Context, token string) ([]dropdown.Option, error) {
	items, err := s.catalog.CustomerItems(ctx, token, DirectCustomerType)
	if err != nil {
		return nil, err
	}
	return dropdown.Options(items, "name", "user_id"), nil
}

func (s *Service) Customer(ctx context.Context, token, id string) (Customer, error) {
	raw, err := s.api.ViewUser(ctx, token, id)
	if err != nil {
		return Customer{}, err
	}
	var c Customer
	if err := json.Unmarshal(raw, &c); err != nil {
		return Customer{}, fmt.Errorf("decode customer %s: %w", id, err)
	}
	return c, nil
}

// Quote prices o against the active slot. It fails with ErrSlotInactive when
// no slot is open.
func (s *Service) Quote(ctx context.Context, token string, o OrderRequest) (Quote, error) {
	state, err := s.ActiveSlot(ctx, token)
	if err != nil {
		return Quote{}, err
	}
	if !state.Active {
		return Quote{}, ErrSlotInactive
	}

	id := string(o.CustomerID)
	items, err := s.catalog.CustomerItems(ctx, token, DirectCustomerType)
	if err != nil {
		return Quote{}, err
	}
	price, ok := UnitPrice(items, id)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownCustomer, id)
	}

	c, err := s.Customer(ctx, token, id)
	if err != nil {
		return Quote{}, err
	}
	slots, err := s.catalog.SlotOptions(ctx, token)
	if err != nil {
		return Quote{}, err
	}
	labels := make(map[string]string, len(slots))
	for _, sl := range slots {
		labels[sl.Value] = sl.Label
	}

	total, used := Total(state.Slot.ID, price, c.TodaySlotData, labels, o.SlotQuantities)
	return Quote{UnitPrice: price, Slots: used, Total: total, Display: FormatINR(total)}, nil
}

// Place submits o. Orders are refused while no slot is active.
func (s *Service) Place(ctx context.Context, token string, o OrderRequest) (string, error) {
	state, err := s.ActiveSlot(ctx, token)
	if err != nil {
		return "", err
	}
	if !state.Active {
		return "", ErrSlotInactive
	}

	c, err := s.Customer(ctx, token, string(o.CustomerID))
	if err != nil {
		return "", err
	}
	payload, err := BuildPayload(o, c)
	if err != nil {
		return "", err
	}

	msg, err := s.api.PlaceDirectCustomerLog(ctx, token, payload)
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Info().
		Int("customer_id", payload.CustomerID).
		Float64("quantity", payload.Quantity).
		Int("payment_type", payload.PaymentType).
		Msg("order placed")
	return msg, nil
}
