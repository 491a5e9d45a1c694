package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий каталога: услуги и рабочие окна сотрудников
// Данные управляются внешней административной частью, здесь только чтение
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"cost",
		"duration_minutes",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %w", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.Cost,
		&service.DurationMinutes,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %w", ErrScanRow, err)
	}

	return &service, nil
}

// GetWorkingWindows получает рабочие окна на день недели для сотрудников,
// оказывающих указанную услугу
// Окно попадает в выборку, если хотя бы один его сотрудник привязан к услуге
func (r *Repository) GetWorkingWindows(ctx context.Context, serviceID int64, dayOfWeek time.Weekday) ([]*domain.WorkingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"start_time",
		"end_time",
		"employee_ids",
	).
		From("working_windows").
		Where(squirrel.Eq{"day_of_week": int(dayOfWeek)}).
		Where(squirrel.Expr(
			"employee_ids && ARRAY(SELECT employee_id FROM service_employees WHERE service_id = ?)",
			serviceID,
		)).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingWindows - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.WorkingWindow, 0)
	for rows.Next() {
		var window domain.WorkingWindow
		var dow int
		var employeeIDs pq.Int64Array

		err = rows.Scan(
			&window.ID,
			&dow,
			&window.StartTime,
			&window.EndTime,
			&employeeIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWorkingWindows - scan window: %w", ErrScanRow, err)
		}

		window.DayOfWeek = time.Weekday(dow)
		window.EmployeeIDs = []int64(employeeIDs)
		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingWindows - iterate rows: %w", ErrScanRow, err)
	}

	return windows, nil
}

// GetServiceEmployees получает список сотрудников, привязанных к услуге
func (r *Repository) GetServiceEmployees(ctx context.Context, serviceID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("employee_id").
		From("service_employees").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("employee_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceEmployees - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceEmployees - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetServiceEmployees - scan id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServiceEmployees - iterate rows: %w", ErrScanRow, err)
	}

	return ids, nil
}
