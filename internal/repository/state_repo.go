package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cluster_fan/internal/models"
)

type FanStateSQLite struct {
	db *sql.DB
}

func NewFanStateSQLite(db *sql.DB) *FanStateSQLite {
	return &FanStateSQLite{db: db}
}

const (
	fanStateRowID = 1

	upsertFanStateSQL = `
		INSERT INTO fan_state (id, duty_cycle, mode, last_error, changed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			duty_cycle=excluded.duty_cycle,
			mode=excluded.mode,
			last_error=excluded.last_error,
			changed_at=excluded.changed_at
	`

	selectFanStateSQL = `
		SELECT duty_cycle, mode, last_error, changed_at
		FROM fan_state WHERE id=?
	`
)

// Save upserts the single fan_state row.
func (r *FanStateSQLite) Save(ctx context.Context, state models.FanState) error {
	ts := state.ChangedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	var lastErr sql.NullString
	if state.LastError != "" {
		lastErr = sql.NullString{String: state.LastError, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, upsertFanStateSQL,
		fanStateRowID,
		state.DutyCycle,
		string(state.Mode),
		lastErr,
		ts,
	)
	return err
}

// Load fetches the single fan_state row.
func (r *FanStateSQLite) Load(ctx context.Context) (models.FanState, bool, error) {
	row := r.db.QueryRowContext(ctx, selectFanStateSQL, fanStateRowID)

	var (
		s       models.FanState
		mode    string
		lastErr sql.NullString
	)
	if err := row.Scan(&s.DutyCycle, &mode, &lastErr, &s.ChangedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FanState{}, false, nil
		}
		return models.FanState{}, false, err
	}
	s.Mode = models.FanMode(mode)
	s.LastError = lastErr.String
	s.ChangedAt = s.ChangedAt.UTC()
	return s, true, nil
}
