package console

import (
	"github.com/vasamilk/admin-console/internal/guard"
	"github.com/vasamilk/admin-console/internal/milkapi"
)

// Endpoint exposes one milk-api path under a console name, behind guards.
type Endpoint struct {
	Name   string
	Path   string
	Guards []guard.Guard
}

var (
	ownerOnly       = []guard.Guard{guard.HomePrivateRoute, guard.AdminRoute}
	distributorOnly = []guard.Guard{guard.HomePrivateRoute, guard.DistributorRoute}
)

// Paginated lists.
var lists = index(
	Endpoint{Name: "users", Path: milkapi.PathListUsers, Guards: ownerOnly},
	Endpoint{Name: "inventory", Path: milkapi.PathListInventory, Guards: ownerOnly},
	Endpoint{Name: "inventory-log", Path: milkapi.PathListInventoryLog, Guards: ownerOnly},
	Endpoint{Name: "slot-mapping", Path: milkapi.PathListSlotMapping, Guards: ownerOnly},
	Endpoint{Name: "slots", Path: milkapi.PathListSlot, Guards: ownerOnly},
	Endpoint{Name: "lines", Path: milkapi.PathListLines, Guards: ownerOnly},
	Endpoint{Name: "price-tags", Path: milkapi.PathListPriceTag, Guards: ownerOnly},
	Endpoint{Name: "reasons", Path: milkapi.PathListReason, Guards: ownerOnly},
	Endpoint{Name: "distributor-log", Path: milkapi.PathListDistributorLog, Guards: ownerOnly},
	Endpoint{Name: "assigned-slots", Path: milkapi.PathListAssignedSlot, Guards: distributorOnly},
)

// Reports and single records, fetched with their filters as form fields.
var reports = index(
	Endpoint{Name: "view-user", Path: milkapi.PathViewUser, Guards: ownerOnly},
	Endpoint{Name: "daily-inventory", Path: milkapi.PathDailyInventoryReport, Guards: ownerOnly},
	Endpoint{Name: "daily-inventory-by-date", Path: milkapi.PathDailyInventoryReportByDate, Guards: ownerOnly},
	Endpoint{Name: "milk-required", Path: milkapi.PathDailyMilkRequiredReport, Guards: ownerOnly},
	Endpoint{Name: "vendor-milk", Path: milkapi.PathVendorMilkReport, Guards: ownerOnly},
	Endpoint{Name: "distributor-lines", Path: milkapi.PathDistributorLines, Guards: distributorOnly},
)

// Mutations the console may forward. Anything not listed is refused.
var actions = index(
	Endpoint{Name: "create-user", Path: milkapi.PathCreateUser, Guards: ownerOnly},
	Endpoint{Name: "edit-user", Path: milkapi.PathEditUser, Guards: ownerOnly},
	Endpoint{Name: "change-user-status", Path: milkapi.PathChangeUserStatus, Guards: ownerOnly},
	Endpoint{Name: "add-inventory", Path: milkapi.PathAddInventory, Guards: ownerOnly},
	Endpoint{Name: "update-inventory", Path: milkapi.PathUpdateInventory, Guards: ownerOnly},
	Endpoint{Name: "update-slot", Path: milkapi.PathUpdateSlot, Guards: ownerOnly},
	Endpoint{Name: "create-line", Path: milkapi.PathCreateLines, Guards: ownerOnly},
	Endpoint{Name: "update-line", Path: milkapi.PathUpdateLines, Guards: ownerOnly},
	Endpoint{Name: "inactive-line", Path: milkapi.PathInactiveLines, Guards: ownerOnly},
	Endpoint{Name: "delete-line", Path: milkapi.PathDeleteLines, Guards: ownerOnly},
	Endpoint{Name: "create-price-tag", Path: milkapi.PathCreatePriceTag, Guards: ownerOnly},
	Endpoint{Name: "update-price-tag", Path: milkapi.PathUpdatePriceTag, Guards: ownerOnly},
	Endpoint{Name: "inactive-price-tag", Path: milkapi.PathInactivePriceTag, Guards: ownerOnly},
	Endpoint{Name: "delete-price-tag", Path: milkapi.PathDeletePriceTag, Guards: ownerOnly},
	Endpoint{Name: "create-reason", Path: milkapi.PathCreateReason, Guards: ownerOnly},
	Endpoint{Name: "update-reason", Path: milkapi.PathUpdateReason, Guards: ownerOnly},
	Endpoint{Name: "inactive-reason", Path: milkapi.PathInactiveReason, Guards: ownerOnly},
	Endpoint{Name: "delete-reason", Path: milkapi.PathDeleteReason, Guards: ownerOnly},
	Endpoint{Name: "assign-slot-map", Path: milkapi.PathAssignSlotMap, Guards: ownerOnly},
	Endpoint{Name: "distributor-inventory-log", Path: milkapi.PathDistributorInventoryLog, Guards: distributorOnly},
)

func index(eps ...Endpoint) map[string]Endpoint {
	m := make(map[string]Endpoint, len(eps))
	for _, e := range eps {
		m[e.Name] = e
	}
	return m
}
