package repository

import (
	"context"
	"database/sql"
	"time"

	"cluster_fan/internal/models"
)

// FanStateRepo persists the last applied fan state so a restarted
// coordinator resumes from the last-known duty cycle.
type FanStateRepo interface {
	Save(ctx context.Context, s models.FanState) error
	// Load returns ok=false when nothing has been saved yet.
	Load(ctx context.Context) (models.FanState, bool, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ControlEvent) error
	List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ControlEvent, error)
}

type Repository struct {
	FanStateRepo FanStateRepo
	EventRepo    EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		FanStateRepo: NewFanStateSQLite(db),
		EventRepo:    NewEventSQLite(db),
	}
}
