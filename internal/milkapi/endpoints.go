package milkapi

// Auth.
const (
	PathLogin          = "/milk-api/auth/login"
	PathLogout         = "/milk-api/auth/logout"
	PathForgotPassword = "/milk-api/auth/forgot-password"
	PathVerifyOTP      = "/milk-api/auth/otp-verification"
	PathResendOTP      = "/milk-api/auth/resend-otp"
	PathResetPassword  = "/milk-api/auth/reset-password"
)

// Dropdowns.
const (
	PathSlotDropDown        = "/milk-api/drop-down/slot-drop-down"
	PathLinesDropDown       = "/milk-api/drop-down/lines-drop-down"
	PathPriceTagDropDown    = "/milk-api/drop-down/price-tag-drop-down"
	PathDistributorDropDown = "/milk-api/drop-down/distributer-drop-down"
	PathVendorDropDown      = "/milk-api/drop-down/vendor-drop-down"
	PathCustomerDropDown    = "/milk-api/drop-down/customer-drop-down"
	PathAssignRouteDropDown = "/milk-api/drop-down/assign-router-drop-down"
)

// Users.
const (
	PathListUsers        = "/milk-api/user/list-users"
	PathCreateUser       = "/milk-api/user/create-user"
	PathViewUser         = "/milk-api/user/view-user"
	PathEditUser         = "/milk-api/user/edit-user"
	PathChangeUserStatus = "/milk-api/user/change-status-user"
)

// Inventory and dashboard reports.
const (
	PathListInventory              = "/milk-api/inventory/list-inventory"
	PathListInventoryLog           = "/milk-api/inventory/list-inventory-log"
	PathAddInventory               = "/milk-api/inventory/add-inventory"
	PathUpdateInventory            = "/milk-api/inventory/update-inventory"
	PathDailyInventoryReport       = "/milk-api/dashboard/daily-inventory-report"
	PathDailyInventoryReportByDate = "/milk-api/dashboard/daily-inventory-report-by-date"
	PathDailyMilkRequiredReport    = "/milk-api/dashboard/daily-milk-required-report"
	PathVendorMilkReport           = "/milk-api/dashboard/vendor-milk-report"
)

// Sales, slot mapping and slot assignment.
const (
	PathListSlotMapping         = "/milk-api/milk-sales/list-slot-mapping"
	PathDistributorInventoryLog = "/milk-api/milk-sales/distributer-inventory-log"
	PathDirectCustomerLog       = "/milk-api/milk-sales/direct-customer-log"
	PathListDistributorLog      = "/milk-api/milk-sales/list-distributor-log"
	PathDistributorLines        = "/milk-api/slot-assign/get-distributer-line"
	PathListAssignedSlot        = "/milk-api/slot-assign/list-assigned-slot"
	PathAssignSlotMap           = "/milk-api/slot-assign/assign-slot-map"
)

// Masters.
const (
	PathListSlot         = "/milk-api/masters/list-slot"
	PathUpdateSlot       = "/milk-api/masters/update-slot"
	PathActiveSlot       = "/milk-api/masters/get-active-slot"
	PathListLines        = "/milk-api/masters/list-lines"
	PathCreateLines      = "/milk-api/masters/create-lines"
	PathUpdateLines      = "/milk-api/masters/update-lines"
	PathInactiveLines    = "/milk-api/masters/inactive-lines"
	PathDeleteLines      = "/milk-api/masters/delete-lines"
	PathListPriceTag     = "/milk-api/masters/list-price-tag"
	PathCreatePriceTag   = "/milk-api/masters/create-price-tag"
	PathUpdatePriceTag   = "/milk-api/masters/update-price-tag"
	PathInactivePriceTag = "/milk-api/masters/inactive-price-tag"
	PathDeletePriceTag   = "/milk-api/masters/delete-price-tag"
	PathListReason       = "/milk-api/masters/list-reason"
	PathCreateReason     = "/milk-api/masters/create-reason"
	PathUpdateReason     = "/milk-api/masters/update-reason"
	PathInactiveReason   = "/milk-api/masters/inactive-reason"
	PathDeleteReason     = "/milk-api/masters/delete-reason"
)
