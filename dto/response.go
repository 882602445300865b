package dto

import "errors"

// Validation and state errors surfaced to the client.
var (
	ErrInvalidTotalCash  = errors.New("total cash must be greater than zero")
	ErrInvalidTotalHours = errors.New("total tippable hours must be greater than zero")
	ErrNegativeBillCount = errors.New("bill counts cannot be negative")
	ErrNoCalculation     = errors.New("no calculation has been run yet")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractResponse carries the records pulled out of an uploaded report.
// An empty record list is a valid outcome: the client should fall back to
// manual entry.
type ExtractResponse struct {
	Records     []PartnerRecord `json:"records"`
	Source      string          `json:"source"`
	ProcessedAt string          `json:"processed_at"`
}

// CalculateResponse is the full outcome of one tip calculation run.
type CalculateResponse struct {
	HourlyRate string              `json:"hourly_rate"`
	TotalHours float64             `json:"total_hours"`
	Results    []CalculationResult `json:"results"`
	// Drift is the difference between the summed whole-dollar payouts and
	// the entered cash, a normal artifact of rounding.
	Drift      string    `json:"drift"`
	TotalBills BillCount `json:"total_bills"`
}

// ReallocateResponse reports the redistributed breakdowns along with any
// partners the inventory could not fully cover.
type ReallocateResponse struct {
	Results        []CalculationResult `json:"results"`
	ShortPartners  []string            `json:"short_partners,omitempty"`
	InventoryValue int                 `json:"inventory_value"`
}

// HolidayResponse is the combined two-period calculation: one rate per
// period, one merged result row per partner.
type HolidayResponse struct {
	RegularRate string              `json:"regular_rate"`
	HolidayRate string              `json:"holiday_rate"`
	Results     []CalculationResult `json:"results"`
	TotalBills  BillCount           `json:"total_bills"`
}
