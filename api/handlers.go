/*
handlers.go - HTTP API handlers for the roster and allowance engine

PURPOSE:
  Exposes roster import and the allowance engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Roster:
    POST   /api/roster/parse        PDF upload → parsed week
    POST   /api/roster/import       PDF upload → computed and stored shifts
    POST   /api/roster/calendar     PDF upload → .ics feed
    GET    /api/codes               Shift-code table

  Settings:
    GET    /api/settings/financial  Financial data
    PUT    /api/settings/financial  Save financial data, recompute shifts
    GET    /api/settings/profile    Employee name
    PUT    /api/settings/profile    Save employee name

  Shifts:
    GET    /api/shifts?month=       Stored shifts
    PUT    /api/shifts/{id}         Edit a regular shift and recompute
    DELETE /api/shifts/{id}         Remove a shift
    POST   /api/shifts/overtime     Add overtime
    GET    /api/shifts/overtime/default-start?date=

  Views:
    GET    /api/summary?month=      Monthly total and per-code summary
    GET    /api/reference           Rates for the current financial data

  Backup:
    GET    /api/backup              XML export
    POST   /api/backup              XML import (replaces everything)
    POST   /api/reset               Wipe all data

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (importer, engine)
  4. Persist through the Store
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with the domain error's message verbatim:
  - 400: Malformed input, unreadable document, corrupt backup
  - 404: Shift not found
  - 422: Employee not found, empty schedule
  - 500: Internal errors

CANCELLATION:
  Document extraction runs on the request context; a client that goes away
  stops the decode.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/export"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

const (
	maxUploadBytes = 32 << 20

	// statusClientClosedRequest is logged when the client hangs up mid-request.
	statusClientClosedRequest = 499
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    allowance.Store
	Engine   *allowance.Engine
	Importer *roster.Importer
	Codes    roster.CodeTable
	Calendar *export.Calendar
	Logger   *zap.Logger

	// Now supplies "today" for the default summary month.
	Now func() time.Time

	// OpenDocument decodes an upload; nil means PDF.
	OpenDocument func(data []byte) (roster.Document, error)
}

// NewHandler wires a handler; the code table is taken from the importer's parser.
func NewHandler(store allowance.Store, engine *allowance.Engine, importer *roster.Importer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	codes := importer.Parser.Codes
	return &Handler{
		Store:    store,
		Engine:   engine,
		Importer: importer,
		Codes:    codes,
		Calendar: export.NewCalendar(codes),
		Logger:   logger,
		Now:      time.Now,
	}
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// ParseRoster returns the employee's week as read from the uploaded PDF.
func (h *Handler) ParseRoster(w http.ResponseWriter, r *http.Request) {
	week, ok := h.importUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// ImportRoster parses the upload, computes allowances and replaces the
// week's regular shifts in the store.
func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	week, ok := h.importUpload(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	fin, err := h.Store.GetFinancialData(ctx)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	shifts, err := h.Engine.CalculateWeek(week, h.Codes, fin)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	days := make([]generic.TimePoint, len(week))
	for i, es := range week {
		days[i] = es.Date
	}
	if err := h.Store.ReplaceDays(ctx, days, shifts); err != nil {
		h.writeErr(w, r, err)
		return
	}

	h.Logger.Info("roster week imported",
		zap.Int("days", len(week)),
		zap.Int("shifts", len(shifts)))
	writeJSON(w, http.StatusOK, ImportResponse{
		Week:   week,
		Shifts: shifts,
		Total:  allowance.MonthlyTotal(shifts),
	})
}

// RosterCalendar returns the uploaded week as an iCalendar file.
func (h *Handler) RosterCalendar(w http.ResponseWriter, r *http.Request) {
	week, ok := h.importUpload(w, r)
	if !ok {
		return
	}
	cal, err := h.Calendar.Build(week)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	name := "shifts.ics"
	if len(week) > 0 {
		name = "shifts_" + week[0].Date.String() + ".ics"
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, cal.Serialize())
}

// GetCodes returns the shift-code table.
func (h *Handler) GetCodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Codes)
}

// importUpload reads the multipart upload and runs the importer. Names
// missing from the form fall back to the saved profile; names given in the
// form are remembered.
func (h *Handler) importUpload(w http.ResponseWriter, r *http.Request) ([]roster.ExtractedShift, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeErr(w, r, fmt.Errorf("%w: invalid upload: %v", generic.ErrInvalidInput, err))
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeErr(w, r, fmt.Errorf("%w: file is required", generic.ErrInvalidInput))
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeErr(w, r, err)
		return nil, false
	}

	ctx := r.Context()
	profile := allowance.Profile{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
	}
	if profile.FirstName == "" || profile.LastName == "" {
		saved, err := h.Store.GetProfile(ctx)
		if err != nil {
			h.writeErr(w, r, err)
			return nil, false
		}
		if profile.FirstName == "" {
			profile.FirstName = saved.FirstName
		}
		if profile.LastName == "" {
			profile.LastName = saved.LastName
		}
	}

	var week []roster.ExtractedShift
	if h.OpenDocument == nil {
		week, err = h.Importer.ImportPDF(ctx, data, profile.FirstName, profile.LastName)
	} else {
		var doc roster.Document
		if doc, err = h.OpenDocument(data); err == nil {
			week, err = h.Importer.Import(ctx, doc, profile.FirstName, profile.LastName)
		}
	}
	if err != nil {
		h.writeErr(w, r, err)
		return nil, false
	}
	if err := h.Store.SaveProfile(ctx, profile); err != nil {
		h.writeErr(w, r, err)
		return nil, false
	}
	return week, true
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetFinancialData(w http.ResponseWriter, r *http.Request) {
	fin, err := h.Store.GetFinancialData(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// PutFinancialData saves the payslip components and recomputes every stored
// shift against them.
func (h *Handler) PutFinancialData(w http.ResponseWriter, r *http.Request) {
	var fin allowance.FinancialData
	if !h.decodeBody(w, r, &fin) {
		return
	}
	if fin.ComponentA.IsNegative() || fin.ComponentB.IsNegative() || fin.Supplement.IsNegative() {
		h.writeErr(w, r, fmt.Errorf("%w: financial components must not be negative", generic.ErrInvalidInput))
		return
	}

	ctx := r.Context()
	shifts, err := h.Store.ListShifts(ctx)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	recomputed, err := h.Engine.Recalculate(shifts, fin)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Store.UpdateFinancialData(ctx, fin, recomputed); err != nil {
		h.writeErr(w, r, err)
		return
	}

	h.Logger.Info("financial data updated", zap.Int("recomputed_shifts", len(recomputed)))
	writeJSON(w, http.StatusOK, fin)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProfile(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var p allowance.Profile
	if !h.decodeBody(w, r, &p) {
		return
	}
	p.FirstName, p.LastName = strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName)
	if err := h.Store.SaveProfile(r.Context(), p); err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns stored shifts, optionally restricted to ?month=YYYY-MM.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	month := r.URL.Query().Get("month")

	var (
		shifts []allowance.CalculatedShift
		err    error
	)
	if month == "" {
		shifts, err = h.Store.ListShifts(ctx)
	} else {
		var p generic.Period
		if p, err = generic.ParseMonth(month); err == nil {
			shifts, err = h.Store.ListShiftsInPeriod(ctx, p)
		}
	}
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if shifts == nil {
		shifts = []allowance.CalculatedShift{}
	}
	writeJSON(w, http.StatusOK, ShiftListResponse{
		Month:  month,
		Shifts: shifts,
		Total:  allowance.MonthlyTotal(shifts),
	})
}

// UpdateShift edits code and times of a regular shift and recomputes it.
// Overtime rows can only be deleted.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req UpdateShiftRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	current, err := h.Store.GetShift(ctx, id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if current.IsOvertime {
		h.writeErr(w, r, fmt.Errorf("%w: overtime shifts cannot be edited, delete and re-add them", generic.ErrInvalidInput))
		return
	}

	s := current.Shift
	if req.ShiftCode != "" && req.ShiftCode != s.ShiftCode {
		if !h.Codes.IsShift(req.ShiftCode) {
			h.writeErr(w, r, fmt.Errorf("%w: unknown shift code %q", generic.ErrInvalidInput, req.ShiftCode))
			return
		}
		s.ShiftCode = req.ShiftCode
		if tr, ok := h.Codes.Times(req.ShiftCode); ok {
			s.StartTime, s.EndTime = tr.Start, tr.End
		}
	}
	if req.StartTime != "" {
		s.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		s.EndTime = req.EndTime
	}

	fin, err := h.Store.GetFinancialData(ctx)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	updated, err := h.Engine.Calculate(s, fin)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Store.SaveShift(ctx, updated); err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddOvertime computes and stores a new overtime shift.
func (h *Handler) AddOvertime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OvertimeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	s, err := allowance.NewOvertime(date, req.StartTime, req.EndTime)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	fin, err := h.Store.GetFinancialData(ctx)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	cs, err := h.Engine.Calculate(s, fin)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Store.SaveShift(ctx, cs); err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cs)
}

// DefaultOvertimeStart suggests the start of overtime on ?date=.
func (h *Handler) DefaultOvertimeStart(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	shifts, err := h.Store.ListShiftsInPeriod(r.Context(), generic.Period{Start: date, End: date})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DefaultStartResponse{
		Date:      date.String(),
		StartTime: allowance.DefaultOvertimeStart(shifts, date),
	})
}

// =============================================================================
// VIEW HANDLERS
// =============================================================================

// GetSummary returns the monthly report for ?month=, defaulting to the
// current month.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	var month generic.Period
	if m := r.URL.Query().Get("month"); m != "" {
		var err error
		if month, err = generic.ParseMonth(m); err != nil {
			h.writeErr(w, r, err)
			return
		}
	} else {
		today := generic.DayOf(h.Now())
		month = generic.MonthPeriod(today.Year(), today.Month())
	}

	shifts, err := h.Store.ListShiftsInPeriod(r.Context(), month)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, allowance.BuildMonthlyReport(shifts, month))
}

// GetReference returns what every rule is worth for the saved financial data.
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	fin, err := h.Store.GetFinancialData(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, allowance.BuildReference(h.Engine.Rules(), fin))
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ExportBackup streams the full state as an XML backup.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	snap, err := allowance.LoadSnapshot(r.Context(), h.Store)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	name := "roster_backup_" + generic.DayOf(h.Now()).String() + ".xml"
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteBackup(w, snap); err != nil {
		h.Logger.Error("backup export failed", zap.Error(err))
	}
}

// ImportBackup replaces the whole state with an uploaded backup. The body
// is either the raw XML or a multipart form with a "file" field.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			h.writeErr(w, r, fmt.Errorf("%w: file is required", generic.ErrInvalidInput))
			return
		}
		defer file.Close()
		src = file
	}

	snap, err := export.ReadBackup(src)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Store.ReplaceAll(r.Context(), snap); err != nil {
		h.writeErr(w, r, err)
		return
	}

	h.Logger.Info("backup restored", zap.Int("shifts", len(snap.Shifts)))
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "restored",
		"shifts": len(snap.Shifts),
	})
}

// Reset wipes all data.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.Logger.Warn("all data reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeErr(w, r, fmt.Errorf("%w: invalid JSON body: %v", generic.ErrInvalidInput, err))
		return false
	}
	return true
}

// writeErr maps a domain error to its HTTP status and writes it.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	resp := ErrorResponse{Error: err.Error(), Code: code}
	var notFound *generic.EmployeeNotFoundError
	if errors.As(err, &notFound) && notFound.Suggestion != "" {
		resp.Details = map[string]string{"suggestion": notFound.Suggestion}
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", fields...)
	} else {
		h.Logger.Warn("request rejected", fields...)
	}

	if status == statusClientClosedRequest {
		return
	}
	writeJSON(w, status, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "canceled"
	case errors.Is(err, generic.ErrEmployeeNotFound):
		return http.StatusUnprocessableEntity, "employee_not_found"
	case errors.Is(err, generic.ErrEmptySchedule):
		return http.StatusUnprocessableEntity, "empty_schedule"
	case errors.Is(err, generic.ErrDocumentUnreadable):
		return http.StatusBadRequest, "document_unreadable"
	case errors.Is(err, generic.ErrInvalidBackup):
		return http.StatusBadRequest, "invalid_backup"
	case errors.Is(err, generic.ErrParse):
		return http.StatusBadRequest, "parse_error"
	case generic.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case generic.IsClientError(err):
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
