package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"customer_id",
	"employee_id",
	"service_id",
	"start_at",
	"end_at",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Бронирование всегда выполняется внутри сериализуемой транзакции,
// чтобы проверка занятости слота и вставка были атомарны
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"employee_id",
			"service_id",
			"start_at",
			"end_at",
			"status",
		).
		Values(
			appt.CustomerID,
			appt.EmployeeID,
			appt.ServiceID,
			appt.StartAt,
			appt.EndAt,
			appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByIDAndCustomer получает запись по ID, принадлежащую указанному клиенту
func (r *Repository) GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDAndCustomer - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "GetByIDAndCustomer")
}

// GetByServiceAndDate получает записи по услуге на указанную дату
// При includeInactive=false отмененные и отклоненные записи не возвращаются
func (r *Repository) GetByServiceAndDate(ctx context.Context, serviceID int64, date time.Time, includeInactive bool) ([]*domain.Appointment, error) {
	builder := r.dateRangeQuery(date).Where(squirrel.Eq{"service_id": serviceID})
	if !includeInactive {
		builder = builder.Where(squirrel.NotEq{"status": domain.InactiveStatuses})
	}
	return r.queryAppointments(ctx, builder, "GetByServiceAndDate")
}

// GetByEmployeeAndDate получает записи сотрудника на указанную дату
// При includeInactive=false отмененные и отклоненные записи не возвращаются
func (r *Repository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time, includeInactive bool) ([]*domain.Appointment, error) {
	builder := r.dateRangeQuery(date).Where(squirrel.Eq{"employee_id": employeeID})
	if !includeInactive {
		builder = builder.Where(squirrel.NotEq{"status": domain.InactiveStatuses})
	}
	return r.queryAppointments(ctx, builder, "GetByEmployeeAndDate")
}

// GetByCustomer получает записи клиента, опционально фильтруя по статусу
func (r *Repository) GetByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_at DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	return r.queryAppointments(ctx, builder, "GetByCustomer")
}

// GetByEmployee получает записи сотрудника, опционально фильтруя по статусу
func (r *Repository) GetByEmployee(ctx context.Context, employeeID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"employee_id": employeeID}).
		OrderBy("start_at DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	return r.queryAppointments(ctx, builder, "GetByEmployee")
}

// GetByStatus получает все записи с указанным статусом
// Используется планировщиком для восстановления таймеров после рестарта
func (r *Repository) GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": status}).
		OrderBy("start_at ASC")

	return r.queryAppointments(ctx, builder, "GetByStatus")
}

// UpdateStatus обновляет статус записи и возвращает обновленную запись
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(appointmentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "UpdateStatus")
}

// dateRangeQuery возвращает builder с условием start_at внутри суток date
func (r *Repository) dateRangeQuery(date time.Time) squirrel.SelectBuilder {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	return psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.GtOrEq{"start_at": startOfDay}).
		Where(squirrel.Lt{"start_at": endOfDay}).
		OrderBy("start_at ASC")
}

func (r *Repository) queryAppointments(ctx context.Context, builder squirrel.SelectBuilder, op string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		var appt domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err = rows.Scan(
			&appt.ID,
			&appt.CustomerID,
			&appt.EmployeeID,
			&appt.ServiceID,
			&appt.StartAt,
			&appt.EndAt,
			&appt.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %w", ErrScanRow, op, err)
		}

		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time
		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrScanRow, op, err)
	}

	return appointments, nil
}

func (r *Repository) scanAppointment(row *sql.Row, op string) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.EmployeeID,
		&appt.ServiceID,
		&appt.StartAt,
		&appt.EndAt,
		&appt.Status,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %w", ErrScanRow, op, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func joinColumns(columns []string) string {
	out := ""
	for i, c := range columns {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
