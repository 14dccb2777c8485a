package service

import (
	"context"
	"time"

	"cluster_fan/internal/logger"
	"cluster_fan/internal/models"
	"cluster_fan/internal/repository"

	"github.com/google/uuid"
)

// recordEvent appends a control event. Failures are logged and dropped: the
// event log must never stall the control loop.
func recordEvent(ctx context.Context, repo repository.EventRepo, log *logger.Logger, at time.Time, typ, desc string, meta any) {
	if repo == nil {
		return
	}
	ev := models.ControlEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  at.UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	}
	if err := repo.Append(ctx, ev); err != nil {
		log.Errorw("event_append_failed", "type", typ, "error", err)
	}
}
