package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// ErrVersionConflict signals a lost optimistic-concurrency race: another
// writer updated the tracking row since it was read. Callers re-read and
// retry.
var ErrVersionConflict = errors.New("sla tracking row version conflict")

// SLATrackingRepository encapsulates tracking persistence.
type SLATrackingRepository interface {
	Create(ctx context.Context, tracking *domain.SLATracking) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.SLATracking, error)
	GetByID(ctx context.Context, id string) (*domain.SLATracking, error)
	// Update persists the row only if row_version still matches the value
	// the row was read with, bumping it on success.
	Update(ctx context.Context, tracking *domain.SLATracking) error
	// ListOpen pages through trackings whose resolution SLA is still live,
	// returning rows strictly after the cursor in (created_at, id) order.
	// Keyset paging keeps the scan stable when rows earlier in the set get
	// resolved mid-scan.
	ListOpen(ctx context.Context, after SweepCursor, limit int) ([]domain.SLATracking, error)
}

// SweepCursor is a keyset position over (created_at, id). The zero value
// starts from the beginning.
type SweepCursor struct {
	CreatedAt time.Time
	ID        string
}

type slaTrackingRepository struct {
	pool *pgxpool.Pool
}

// NewSLATrackingRepository instantiates repository.
func NewSLATrackingRepository(pool *pgxpool.Pool) SLATrackingRepository {
	return &slaTrackingRepository{pool: pool}
}

const trackingColumns = `
        id, ticket_id, contract_id, priority,
        response_minutes, resolution_minutes, warning_threshold, on_call_eligible,
        response_deadline, resolution_deadline, original_response_deadline, original_resolution_deadline,
        responded_at, resolved_at, breach_response, breach_resolution, warning_sent,
        paused_at, pause_reason, paused_minutes, row_version, created_at, updated_at`

func (r *slaTrackingRepository) Create(ctx context.Context, tracking *domain.SLATracking) error {
	const query = `
        INSERT INTO sla_trackings (
            ticket_id, contract_id, priority,
            response_minutes, resolution_minutes, warning_threshold, on_call_eligible,
            response_deadline, resolution_deadline, original_response_deadline, original_resolution_deadline,
            created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, row_version, updated_at`
	return r.pool.QueryRow(ctx, query,
		tracking.TicketID,
		tracking.ContractID,
		tracking.Priority,
		tracking.ResponseMinutes,
		tracking.ResolutionMinutes,
		tracking.WarningThreshold,
		tracking.OnCallEligible,
		tracking.ResponseDeadline,
		tracking.ResolutionDeadline,
		tracking.OriginalResponseDeadline,
		tracking.OriginalResolutionDeadline,
		tracking.CreatedAt,
	).Scan(&tracking.ID, &tracking.RowVersion, &tracking.UpdatedAt)
}

func (r *slaTrackingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.SLATracking, error) {
	return r.fetchSingle(ctx, `SELECT `+trackingColumns+` FROM sla_trackings WHERE ticket_id=$1`, ticketID)
}

func (r *slaTrackingRepository) GetByID(ctx context.Context, id string) (*domain.SLATracking, error) {
	return r.fetchSingle(ctx, `SELECT `+trackingColumns+` FROM sla_trackings WHERE id=$1`, id)
}

func (r *slaTrackingRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.SLATracking, error) {
	var tracking domain.SLATracking
	if err := r.pool.QueryRow(ctx, query, arg).Scan(scanTargets(&tracking)...); err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (r *slaTrackingRepository) Update(ctx context.Context, tracking *domain.SLATracking) error {
	const query = `
        UPDATE sla_trackings SET
            priority=$1,
            response_minutes=$2, resolution_minutes=$3, warning_threshold=$4, on_call_eligible=$5,
            response_deadline=$6, resolution_deadline=$7,
            responded_at=$8, resolved_at=$9,
            breach_response=$10, breach_resolution=$11, warning_sent=$12,
            paused_at=$13, pause_reason=$14, paused_minutes=$15,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$16 AND row_version=$17`
	cmd, err := r.pool.Exec(ctx, query,
		tracking.Priority,
		tracking.ResponseMinutes,
		tracking.ResolutionMinutes,
		tracking.WarningThreshold,
		tracking.OnCallEligible,
		tracking.ResponseDeadline,
		tracking.ResolutionDeadline,
		tracking.RespondedAt,
		tracking.ResolvedAt,
		tracking.BreachResponse,
		tracking.BreachResolution,
		tracking.WarningSent,
		tracking.PausedAt,
		tracking.PauseReason,
		tracking.PausedMinutes,
		tracking.ID,
		tracking.RowVersion,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	tracking.RowVersion++
	return nil
}

func (r *slaTrackingRepository) ListOpen(ctx context.Context, after SweepCursor, limit int) ([]domain.SLATracking, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows pgx.Rows
		err  error
	)
	if after.ID == "" {
		query := `SELECT ` + trackingColumns + `
        FROM sla_trackings
        WHERE resolved_at IS NULL
        ORDER BY created_at, id
        LIMIT $1`
		rows, err = r.pool.Query(ctx, query, limit)
	} else {
		query := `SELECT ` + trackingColumns + `
        FROM sla_trackings
        WHERE resolved_at IS NULL AND (created_at, id) > ($1, $2::uuid)
        ORDER BY created_at, id
        LIMIT $3`
		rows, err = r.pool.Query(ctx, query, after.CreatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackings(rows)
}

func scanTrackings(rows pgx.Rows) ([]domain.SLATracking, error) {
	var result []domain.SLATracking
	for rows.Next() {
		var tracking domain.SLATracking
		if err := rows.Scan(scanTargets(&tracking)...); err != nil {
			return nil, err
		}
		result = append(result, tracking)
	}
	return result, rows.Err()
}

func scanTargets(t *domain.SLATracking) []any {
	return []any{
		&t.ID,
		&t.TicketID,
		&t.ContractID,
		&t.Priority,
		&t.ResponseMinutes,
		&t.ResolutionMinutes,
		&t.WarningThreshold,
		&t.OnCallEligible,
		&t.ResponseDeadline,
		&t.ResolutionDeadline,
		&t.OriginalResponseDeadline,
		&t.OriginalResolutionDeadline,
		&t.RespondedAt,
		&t.ResolvedAt,
		&t.BreachResponse,
		&t.BreachResolution,
		&t.WarningSent,
		&t.PausedAt,
		&t.PauseReason,
		&t.PausedMinutes,
		&t.RowVersion,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}
