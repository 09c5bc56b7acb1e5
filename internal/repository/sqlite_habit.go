package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/habitual/internal/db"
	"github.com/alexanderramin/habitual/internal/domain"
)

// SQLiteHabitRepo implements HabitRepo on the habits and habit_days tables.
type SQLiteHabitRepo struct {
	db db.DBTX
}

// NewSQLiteHabitRepo accepts a *sql.DB or a *sql.Tx.
func NewSQLiteHabitRepo(db db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{db: db}
}

const habitColumns = `id, name, time_label, start_date, created_at, updated_at`

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	if err := h.TrackedDays.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO habits (` + habitColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Name,
		h.Time,
		string(h.StartDate),
		formatTimestamp(h.CreatedAt),
		formatTimestamp(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting habit: %w", err)
	}
	for _, k := range h.TrackedDays.Keys() {
		if err := r.insertDay(ctx, h.ID, k, h.TrackedDays[k]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = ?`
	h, err := scanHabit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrHabitNotFound, id)
		}
		return nil, err
	}
	days, err := r.loadDays(ctx, `SELECT habit_id, day, status FROM habit_days WHERE habit_id = ?`, id)
	if err != nil {
		return nil, err
	}
	h.TrackedDays = days[h.ID]
	if h.TrackedDays == nil {
		h.TrackedDays = domain.TrackedDays{}
	}
	return h, nil
}

// List returns every habit in creation order with its tracked days.
func (r *SQLiteHabitRepo) List(ctx context.Context) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habits: %w", err)
	}
	rows.Close()

	days, err := r.loadDays(ctx, `SELECT habit_id, day, status FROM habit_days`)
	if err != nil {
		return nil, err
	}
	for _, h := range habits {
		h.TrackedDays = days[h.ID]
		if h.TrackedDays == nil {
			h.TrackedDays = domain.TrackedDays{}
		}
	}
	return habits, nil
}

// Update writes the name, time label and updated_at. Tracked days change
// through ReplaceDays and SetDay.
func (r *SQLiteHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	query := `UPDATE habits SET name = ?, time_label = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, h.Name, h.Time, formatTimestamp(h.UpdatedAt), h.ID)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return requireAffected(res, h.ID)
}

// ReplaceDays swaps the whole tracked-days mapping. Run it inside a
// UnitOfWork so readers never see a half-written mapping.
func (r *SQLiteHabitRepo) ReplaceDays(ctx context.Context, habitID string, days domain.TrackedDays) error {
	days = days.Normalize()
	if err := days.Validate(); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM habit_days WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("clearing tracked days: %w", err)
	}
	for _, k := range days.Keys() {
		if err := r.insertDay(ctx, habitID, k, days[k]); err != nil {
			return err
		}
	}
	return r.touch(ctx, habitID)
}

// SetDay stores one day. Pending removes the row.
func (r *SQLiteHabitRepo) SetDay(ctx context.Context, habitID string, day domain.DateKey, status domain.DayStatus) error {
	if !day.Valid() {
		return fmt.Errorf("invalid date key %q", string(day))
	}
	var err error
	switch status {
	case domain.StatusPending:
		_, err = r.db.ExecContext(ctx, `DELETE FROM habit_days WHERE habit_id = ? AND day = ?`, habitID, string(day))
	case domain.StatusDone, domain.StatusMissed:
		_, err = r.db.ExecContext(ctx, `INSERT INTO habit_days (habit_id, day, status) VALUES (?, ?, ?)
			ON CONFLICT(habit_id, day) DO UPDATE SET status = excluded.status`,
			habitID, string(day), string(status))
	default:
		return fmt.Errorf("invalid day status %q", string(status))
	}
	if err != nil {
		return fmt.Errorf("setting tracked day %s: %w", day, err)
	}
	return r.touch(ctx, habitID)
}

// Delete removes a habit and, by cascade, its days. It reports whether a
// row was deleted.
func (r *SQLiteHabitRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteHabitRepo) insertDay(ctx context.Context, habitID string, k domain.DateKey, s domain.DayStatus) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO habit_days (habit_id, day, status) VALUES (?, ?, ?)`,
		habitID, string(k), string(s))
	if err != nil {
		return fmt.Errorf("inserting tracked day %s: %w", k, err)
	}
	return nil
}

func (r *SQLiteHabitRepo) touch(ctx context.Context, habitID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE habits SET updated_at = ? WHERE id = ?`, nowUTC(), habitID)
	if err != nil {
		return fmt.Errorf("touching habit: %w", err)
	}
	return requireAffected(res, habitID)
}

func (r *SQLiteHabitRepo) loadDays(ctx context.Context, query string, args ...any) (map[string]domain.TrackedDays, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading tracked days: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.TrackedDays)
	for rows.Next() {
		var habitID, day, status string
		if err := rows.Scan(&habitID, &day, &status); err != nil {
			return nil, fmt.Errorf("scanning tracked day: %w", err)
		}
		if out[habitID] == nil {
			out[habitID] = domain.TrackedDays{}
		}
		out[habitID][domain.DateKey(day)] = domain.DayStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracked days: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*domain.Habit, error) {
	var h domain.Habit
	var startDate, createdAt, updatedAt string
	if err := row.Scan(&h.ID, &h.Name, &h.Time, &startDate, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}

	var err error
	if h.StartDate, err = domain.ParseKey(startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if h.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &h, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrHabitNotFound, id)
	}
	return nil
}
