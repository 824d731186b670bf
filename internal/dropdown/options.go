package dropdown

import (
	"fmt"
	"strconv"
)

// Option is one select entry. Both fields are strings, matching what the
// console's select components expect.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options maps raw backend items to select options.
func Options(items []map[string]any, labelKey, valueKey string) []Option {
	out := make([]Option, 0, len(items))
	for _, it := range items {
		out = append(out, Option{Label: stringify(it[labelKey]), Value: stringify(it[valueKey])})
	}
	return out
}

// stringify renders v the way String(v) would in the browser, so 3 stays "3"
// rather than "3.000000".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Static lists.
var (
	UserTypes = []Option{
		{Label: "Admin", Value: "2"},
		{Label: "Vendor/logger", Value: "3"},
		{Label: "Distributor", Value: "4"},
		{Label: "Customer", Value: "5"},
	}
	CustomerTypes = []Option{
		{Label: "Regular", Value: "1"},
		{Label: "Occasional", Value: "2"},
	}
	PayTypes = []Option{
		{Label: "Daily", Value: "1"},
		{Label: "Monthly", Value: "2"},
	}
	SlotStatuses = []Option{
		{Label: "Given", Value: "1"},
		{Label: "Upcoming", Value: "2"},
		{Label: "Partially Given", Value: "3"},
		{Label: "Cancelled", Value: "4"},
	}
	Modes = []Option{
		{Label: "Vendor", Value: "1"},
		{Label: "Distributor", Value: "2"},
	}
	PaymentOptions = []Option{
		{Label: "Cash", Value: "1"},
		{Label: "Online", Value: "2"},
	}
)

var static = map[string][]Option{
	"user-types":      UserTypes,
	"customer-types":  CustomerTypes,
	"pay-types":       PayTypes,
	"slot-statuses":   SlotStatuses,
	"modes":           Modes,
	"payment-options": PaymentOptions,
}

// Static returns a fixed option list by name.
func Static(name string) ([]Option, bool) {
	opts, ok := static[name]
	return opts, ok
}
