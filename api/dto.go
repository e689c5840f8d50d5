/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain types that
  already carry JSON tags (ExtractedShift, CalculatedShift, FinancialData,
  Profile, MonthlyReport, Reference) are returned as-is; this file holds
  only the shapes that exist for the HTTP contract.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// ROSTER
// =============================================================================

// ImportResponse is returned by POST /api/roster/import.
type ImportResponse struct {
	Week   []roster.ExtractedShift     `json:"week"`
	Shifts []allowance.CalculatedShift `json:"shifts"`
	Total  decimal.Decimal             `json:"total"`
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftListResponse is returned by GET /api/shifts.
type ShiftListResponse struct {
	Month  string                      `json:"month,omitempty"`
	Shifts []allowance.CalculatedShift `json:"shifts"`
	Total  decimal.Decimal             `json:"total"`
}

// UpdateShiftRequest edits a regular shift. An omitted time falls back to
// the code table's time for the (new) code, then to the current value.
type UpdateShiftRequest struct {
	ShiftCode string `json:"shift_code,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// OvertimeRequest adds an overtime shift.
type OvertimeRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DefaultStartResponse is returned by GET /api/shifts/overtime/default-start.
type DefaultStartResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
