/*
Package sqlite provides a SQLite-backed allowance.Store.

PURPOSE:
  Persists computed shifts, the employee's financial data and profile so a
  session survives restarts. The engine never reads from here; handlers do.

KEY TABLES:
  shifts:   one row per CalculatedShift; allowances stored as a JSON blob
  settings: key → JSON value ("financial_data", "profile")

DECIMALS:
  Money and hours are stored as decimal strings, never REAL, so values
  round-trip at full precision.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - allowance/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
)

const (
	settingFinancial = "financial_data"
	settingProfile   = "profile"
	dateLayout       = "2006-01-02"
)

// Store implements allowance.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ allowance.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.Contains(dbPath, ":memory:") {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		shift_date TEXT NOT NULL,
		shift_code TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		is_overtime BOOLEAN NOT NULL DEFAULT FALSE,
		overtime_hours TEXT,
		has_mns BOOLEAN NOT NULL DEFAULT FALSE,
		allowances_json TEXT NOT NULL,
		total_allowance TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_date
		ON shifts(shift_date, start_time);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SHIFTS
// =============================================================================

// SaveShift inserts or replaces a shift.
func (s *Store) SaveShift(ctx context.Context, cs allowance.CalculatedShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.upsertShift(ctx, s.db, cs)
}

func (s *Store) upsertShift(ctx context.Context, db execer, cs allowance.CalculatedShift) error {
	allowancesJSON, err := json.Marshal(cs.Allowances)
	if err != nil {
		return fmt.Errorf("failed to encode allowances: %w", err)
	}

	var overtimeHours sql.NullString
	if cs.OvertimeHours != nil {
		overtimeHours = sql.NullString{String: cs.OvertimeHours.String(), Valid: true}
	}

	query := `
		INSERT INTO shifts
		(id, shift_date, shift_code, start_time, end_time, is_overtime, overtime_hours,
		 has_mns, allowances_json, total_allowance, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			shift_date = excluded.shift_date,
			shift_code = excluded.shift_code,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			is_overtime = excluded.is_overtime,
			overtime_hours = excluded.overtime_hours,
			has_mns = excluded.has_mns,
			allowances_json = excluded.allowances_json,
			total_allowance = excluded.total_allowance,
			updated_at = excluded.updated_at
	`

	_, err = db.ExecContext(ctx, query,
		cs.ID,
		cs.Date.Time.Format(dateLayout),
		cs.ShiftCode,
		cs.StartTime,
		cs.EndTime,
		cs.IsOvertime,
		overtimeHours,
		cs.HasMNS,
		string(allowancesJSON),
		cs.TotalAllowance.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

const shiftColumns = `
	id, shift_date, shift_code, start_time, end_time, is_overtime, overtime_hours,
	has_mns, allowances_json, total_allowance`

// GetShift returns a shift by id.
func (s *Store) GetShift(ctx context.Context, id string) (allowance.CalculatedShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shifts, err := s.queryShifts(ctx, "SELECT "+shiftColumns+" FROM shifts WHERE id = ?", id)
	if err != nil {
		return allowance.CalculatedShift{}, err
	}
	if len(shifts) == 0 {
		return allowance.CalculatedShift{}, generic.ErrShiftNotFound
	}
	return shifts[0], nil
}

// ListShifts returns all shifts ordered by date.
func (s *Store) ListShifts(ctx context.Context) ([]allowance.CalculatedShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryShifts(ctx, "SELECT "+shiftColumns+" FROM shifts ORDER BY shift_date, start_time, id")
}

// ListShiftsInPeriod returns shifts dated inside the period.
func (s *Store) ListShiftsInPeriod(ctx context.Context, p generic.Period) ([]allowance.CalculatedShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + shiftColumns + ` FROM shifts
		WHERE shift_date >= ? AND shift_date <= ?
		ORDER BY shift_date, start_time, id`
	return s.queryShifts(ctx, query, p.Start.Time.Format(dateLayout), p.End.Time.Format(dateLayout))
}

// ReplaceDays drops the given days' regular shifts and stores the new ones.
func (s *Store) ReplaceDays(ctx context.Context, days []generic.TimePoint, shifts []allowance.CalculatedShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, d := range days {
			if _, err := tx.ExecContext(ctx, "DELETE FROM shifts WHERE shift_date = ? AND is_overtime = FALSE", d.Time.Format(dateLayout)); err != nil {
				return fmt.Errorf("failed to clear day %s: %w", d, err)
			}
		}
		for _, cs := range shifts {
			if err := s.upsertShift(ctx, tx, cs); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteShift removes a shift.
func (s *Store) DeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrShiftNotFound
	}
	return nil
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]allowance.CalculatedShift, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []allowance.CalculatedShift
	for rows.Next() {
		cs, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, cs)
	}
	return shifts, rows.Err()
}

func scanShift(rows *sql.Rows) (allowance.CalculatedShift, error) {
	var (
		cs             allowance.CalculatedShift
		shiftDate      string
		overtimeHours  sql.NullString
		allowancesJSON string
		total          string
	)

	err := rows.Scan(
		&cs.ID, &shiftDate, &cs.ShiftCode, &cs.StartTime, &cs.EndTime,
		&cs.IsOvertime, &overtimeHours, &cs.HasMNS, &allowancesJSON, &total,
	)
	if err != nil {
		return cs, fmt.Errorf("failed to scan shift: %w", err)
	}

	if cs.Date, err = generic.ParseDate(shiftDate); err != nil {
		return cs, err
	}
	if overtimeHours.Valid {
		h := generic.MustParseDecimal(overtimeHours.String)
		cs.OvertimeHours = &h
	}
	if err := json.Unmarshal([]byte(allowancesJSON), &cs.Allowances); err != nil {
		return cs, fmt.Errorf("failed to decode allowances of %s: %w", cs.ID, err)
	}
	if cs.Allowances == nil {
		cs.Allowances = []allowance.Allowance{}
	}
	cs.TotalAllowance, err = decimal.NewFromString(total)
	if err != nil {
		return cs, fmt.Errorf("failed to decode total of %s: %w", cs.ID, err)
	}
	return cs, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetFinancialData returns the saved financial data, zero when unset.
func (s *Store) GetFinancialData(ctx context.Context) (allowance.FinancialData, error) {
	var f allowance.FinancialData
	err := s.getSetting(ctx, settingFinancial, &f)
	return f, err
}

// UpdateFinancialData stores new rates together with the recomputed shifts.
func (s *Store) UpdateFinancialData(ctx context.Context, f allowance.FinancialData, shifts []allowance.CalculatedShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, cs := range shifts {
			if err := s.upsertShift(ctx, tx, cs); err != nil {
				return err
			}
		}
		return putSetting(ctx, tx, settingFinancial, f)
	})
}

func (s *Store) GetProfile(ctx context.Context) (allowance.Profile, error) {
	var p allowance.Profile
	err := s.getSetting(ctx, settingProfile, &p)
	return p, err
}

func (s *Store) SaveProfile(ctx context.Context, p allowance.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return putSetting(ctx, s.db, settingProfile, p)
}

func (s *Store) getSetting(ctx context.Context, key string, dst any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value_json FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), dst); err != nil {
		return fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return nil
}

func putSetting(ctx context.Context, db execer, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO settings (key, value_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// =============================================================================
// BULK
// =============================================================================

// ReplaceAll swaps the whole state for the snapshot in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, snap allowance.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return err
		}
		if err := putSetting(ctx, tx, settingProfile, snap.Profile); err != nil {
			return err
		}
		if err := putSetting(ctx, tx, settingFinancial, snap.Financial); err != nil {
			return err
		}
		for _, cs := range snap.Shifts {
			if err := s.upsertShift(ctx, tx, cs); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset clears all data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error { return clearTables(ctx, tx) })
}

func clearTables(ctx context.Context, db execer) error {
	for _, table := range []string{"shifts", "settings"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// inTx runs fn in a transaction; the caller holds s.mu.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
