package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// PauseEventRepository is the append-only pause audit log. Rows are never
// updated or deleted; PausedMinutes on a tracking can be rebuilt as the sum
// of the RESUMED rows.
type PauseEventRepository interface {
	Append(ctx context.Context, event *domain.SLAPauseEvent) error
	ListByTracking(ctx context.Context, trackingID string) ([]domain.SLAPauseEvent, error)
	PausedMinutesTotal(ctx context.Context, trackingID string) (int, error)
}

type pauseEventRepository struct {
	pool *pgxpool.Pool
}

// NewPauseEventRepository instantiates repository.
func NewPauseEventRepository(pool *pgxpool.Pool) PauseEventRepository {
	return &pauseEventRepository{pool: pool}
}

func (r *pauseEventRepository) Append(ctx context.Context, event *domain.SLAPauseEvent) error {
	const query = `
        INSERT INTO sla_pause_events (tracking_id, kind, reason, occurred_at, minutes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		event.TrackingID,
		event.Kind,
		event.Reason,
		event.OccurredAt,
		event.Minutes,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *pauseEventRepository) ListByTracking(ctx context.Context, trackingID string) ([]domain.SLAPauseEvent, error) {
	const query = `
        SELECT id, tracking_id, kind, reason, occurred_at, minutes, created_at
        FROM sla_pause_events
        WHERE tracking_id=$1
        ORDER BY occurred_at, created_at`
	rows, err := r.pool.Query(ctx, query, trackingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPauseEvent
	for rows.Next() {
		var event domain.SLAPauseEvent
		if err := rows.Scan(
			&event.ID,
			&event.TrackingID,
			&event.Kind,
			&event.Reason,
			&event.OccurredAt,
			&event.Minutes,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *pauseEventRepository) PausedMinutesTotal(ctx context.Context, trackingID string) (int, error) {
	const query = `
        SELECT COALESCE(SUM(minutes), 0)
        FROM sla_pause_events
        WHERE tracking_id=$1 AND kind=$2`
	var total int
	if err := r.pool.QueryRow(ctx, query, trackingID, domain.PauseEventResumed).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
