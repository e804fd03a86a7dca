package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// ContractRepository loads the resolved contract configuration read model
// the SLA engine works with. Configuration is treated as immutable for a
// ticket's lifetime; the engine snapshots targets at tracking creation.
type ContractRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	GetConfig(ctx context.Context, id string) (*domain.ContractConfig, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	const query = `
        SELECT id, customer_id, name, support_type_id, sla_policy_id,
               after_hours_multiplier, weekend_multiplier, is_active, created_at
        FROM contracts WHERE id=$1`
	var contract domain.Contract
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&contract.ID,
		&contract.CustomerID,
		&contract.Name,
		&contract.SupportTypeID,
		&contract.SLAPolicyID,
		&contract.AfterHoursMultiplier,
		&contract.WeekendMultiplier,
		&contract.IsActive,
		&contract.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetConfig(ctx context.Context, id string) (*domain.ContractConfig, error) {
	contract, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supportType, err := r.fetchSupportType(ctx, contract.SupportTypeID)
	if err != nil {
		return nil, err
	}
	policy, err := r.fetchPolicy(ctx, contract.SLAPolicyID)
	if err != nil {
		return nil, err
	}
	shifts, err := r.fetchShifts(ctx, contract.ID)
	if err != nil {
		return nil, err
	}
	holidays, err := r.fetchHolidays(ctx, contract.ID)
	if err != nil {
		return nil, err
	}

	for _, shift := range shifts {
		contract.ShiftIDs = append(contract.ShiftIDs, shift.ID)
	}

	return &domain.ContractConfig{
		Contract:    *contract,
		SupportType: *supportType,
		Policy:      *policy,
		Shifts:      shifts,
		Holidays:    holidays,
	}, nil
}

func (r *contractRepository) fetchSupportType(ctx context.Context, id string) (*domain.SupportType, error) {
	const query = `
        SELECT id, name, work_days, daily_work_hours, weekend_coverage, holiday_coverage,
               on_call_priorities, pause_conditions, priority_scope, is_active, created_at, updated_at
        FROM support_types WHERE id=$1`
	var (
		st         domain.SupportType
		workDays   []int
		onCall     []string
		conditions []string
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&st.ID,
		&st.Name,
		&workDays,
		&st.DailyWorkHours,
		&st.WeekendCoverage,
		&st.HolidayCoverage,
		&onCall,
		&conditions,
		&st.PriorityScope,
		&st.IsActive,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for _, day := range workDays {
		st.WorkDays = append(st.WorkDays, time.Weekday(day))
	}
	for _, p := range onCall {
		st.OnCallPriorities = append(st.OnCallPriorities, domain.Priority(p))
	}
	for _, c := range conditions {
		st.PauseConditions = append(st.PauseConditions, domain.PauseCondition(c))
	}
	return &st, nil
}

func (r *contractRepository) fetchPolicy(ctx context.Context, id string) (*domain.SLAPolicy, error) {
	const query = `
        SELECT id, name, warning_threshold, is_active, created_at, updated_at
        FROM sla_policies WHERE id=$1`
	var policy domain.SLAPolicy
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&policy.ID,
		&policy.Name,
		&policy.WarningThreshold,
		&policy.IsActive,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const targetsQuery = `
        SELECT priority, response_minutes, resolution_minutes, enabled
        FROM sla_policy_targets WHERE policy_id=$1`
	rows, err := r.pool.Query(ctx, targetsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	policy.Targets = make(map[domain.Priority]domain.PolicyTarget)
	for rows.Next() {
		var (
			priority domain.Priority
			target   domain.PolicyTarget
		)
		if err := rows.Scan(&priority, &target.ResponseMinutes, &target.ResolutionMinutes, &target.Enabled); err != nil {
			return nil, err
		}
		policy.Targets[priority] = target
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *contractRepository) fetchShifts(ctx context.Context, contractID string) ([]domain.Shift, error) {
	const query = `
        SELECT s.id, s.name, s.start_minute, s.end_minute, s.timezone, s.break_minutes,
               s.is_active, s.created_at, s.updated_at
        FROM shifts s
        JOIN contract_shifts cs ON cs.shift_id = s.id
        WHERE cs.contract_id=$1
        ORDER BY s.start_minute`
	rows, err := r.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []domain.Shift
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(
			&shift.ID,
			&shift.Name,
			&shift.StartMinute,
			&shift.EndMinute,
			&shift.Timezone,
			&shift.BreakMinutes,
			&shift.IsActive,
			&shift.CreatedAt,
			&shift.UpdatedAt,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func (r *contractRepository) fetchHolidays(ctx context.Context, contractID string) (map[string]domain.HolidayDate, error) {
	const query = `
        SELECT hd.id, hd.calendar_id, hd.name, hd.holiday_date, hd.support_level
        FROM holiday_dates hd
        JOIN contract_holiday_calendars chc ON chc.calendar_id = hd.calendar_id
        JOIN holiday_calendars hc ON hc.id = hd.calendar_id
        WHERE chc.contract_id=$1 AND hc.is_active`
	rows, err := r.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make(map[string]domain.HolidayDate)
	for rows.Next() {
		var holiday domain.HolidayDate
		if err := rows.Scan(
			&holiday.ID,
			&holiday.CalendarID,
			&holiday.Name,
			&holiday.Date,
			&holiday.SupportLevel,
		); err != nil {
			return nil, err
		}
		holidays[holiday.Key()] = holiday
	}
	return holidays, rows.Err()
}
