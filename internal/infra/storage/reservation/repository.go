package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

var reservationColumns = []string{
	"id",
	"customer_id",
	"selected_manager_id",
	"status",
	"request_date",
	"start_time",
	"turnaround",
	"price",
	"payment_method",
	"payment_price",
	"road_address",
	"detail_address",
	"latitude",
	"longitude",
	"check_id",
	"in_time",
	"in_file_id",
	"out_time",
	"out_file_id",
	"cancel_reason",
	"reject_reason",
	"matching_expires_at",
	"requested_at",
	"terminated_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе с дополнительными услугами
// Вызывать внутри транзакции, иначе при ошибке вставки доп. услуг останется запись без них
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"customer_id",
			"status",
			"request_date",
			"start_time",
			"turnaround",
			"price",
			"road_address",
			"detail_address",
			"latitude",
			"longitude",
			"matching_expires_at",
		).
		Values(
			res.CustomerID,
			res.Status,
			res.RequestDate,
			res.StartTime,
			res.Turnaround,
			res.Price,
			res.RoadAddress,
			res.DetailAddress,
			res.Latitude,
			res.Longitude,
			res.MatchingExpiresAt,
		).
		Suffix("RETURNING id, requested_at, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.RequestedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if len(res.ExtraServices) == 0 {
		return res, nil
	}

	insert := psqlbuilder.Insert("reservation_extra_services").
		Columns("reservation_id", "name", "price", "minutes").
		Suffix("RETURNING id")
	for _, extra := range res.ExtraServices {
		insert = insert.Values(res.ID, extra.Name, extra.Price, extra.Minutes)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build extra services insert: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - insert extra services: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for i := 0; rows.Next() && i < len(res.ExtraServices); i++ {
		if err := rows.Scan(&res.ExtraServices[i].ID); err != nil {
			return nil, fmt.Errorf("%w: Create - scan extra service id: %v", ErrScanRow, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - extra services rows: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID вместе с дополнительными услугами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate получает бронирование и блокирует строку до конца транзакции
// Вне транзакции эквивалентен GetByID
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.get(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, id int64, lock bool) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	extras, err := r.getExtraServices(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	res.ExtraServices = extras

	return res, nil
}

func (r *Repository) getExtraServices(ctx context.Context, executor DBExecutor, reservationID int64) ([]domain.ExtraService, error) {
	query, args, err := psqlbuilder.Select("id", "name", "price", "minutes").
		From("reservation_extra_services").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getExtraServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getExtraServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	extras := make([]domain.ExtraService, 0)
	for rows.Next() {
		var extra domain.ExtraService
		if err := rows.Scan(&extra.ID, &extra.Name, &extra.Price, &extra.Minutes); err != nil {
			return nil, fmt.Errorf("%w: getExtraServices - scan row: %v", ErrScanRow, err)
		}
		extras = append(extras, extra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getExtraServices - rows error: %v", ErrScanRow, err)
	}

	return extras, nil
}

// ListExpiredMatching возвращает бронирования в фазе подбора, срок которой истек
// Используется фоновой задачей как страховка на случай, если клиент не прислал отмену
func (r *Repository) ListExpiredMatching(ctx context.Context, now time.Time, limit uint64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.StatusRequested}).
		Where(squirrel.LtOrEq{"matching_expires_at": now}).
		OrderBy("matching_expires_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredMatching - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredMatching - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExpiredMatching - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExpiredMatching - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// SaveCandidates сохраняет подобранных менеджеров в порядке выдачи
func (r *Repository) SaveCandidates(ctx context.Context, reservationID int64, candidates []domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("reservation_candidates").
		Columns(
			"reservation_id",
			"manager_id",
			"manager_name",
			"average_rating",
			"review_count",
			"reservation_count",
			"bio",
			"recent_reservation_date",
			"position",
		)
	for i, c := range candidates {
		insert = insert.Values(
			reservationID,
			c.ManagerID,
			c.ManagerName,
			c.AverageRating,
			c.ReviewCount,
			c.ReservationCount,
			c.Bio,
			c.RecentReservationDate,
			i,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveCandidates - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveCandidates - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetCandidates возвращает подобранных менеджеров бронирования
func (r *Repository) GetCandidates(ctx context.Context, reservationID int64) ([]domain.Candidate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"manager_id",
		"manager_name",
		"average_rating",
		"review_count",
		"reservation_count",
		"bio",
		"recent_reservation_date",
	).
		From("reservation_candidates").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	candidates := make([]domain.Candidate, 0)
	for rows.Next() {
		var c domain.Candidate
		err := rows.Scan(
			&c.ManagerID,
			&c.ManagerName,
			&c.AverageRating,
			&c.ReviewCount,
			&c.ReservationCount,
			&c.Bio,
			&c.RecentReservationDate,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetCandidates - scan row: %v", ErrScanRow, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCandidates - rows error: %v", ErrScanRow, err)
	}

	return candidates, nil
}

// ConfirmParams данные подтверждения бронирования
type ConfirmParams struct {
	ManagerID     int64
	PaymentMethod *string
	PaymentPrice  *float64
}

// Confirm назначает менеджера и переводит REQUESTED -> CONFIRMED
func (r *Repository) Confirm(ctx context.Context, id int64, params ConfirmParams) error {
	return r.transition(ctx, "Confirm", id, domain.StatusRequested, map[string]interface{}{
		"status":              domain.StatusConfirmed,
		"selected_manager_id": params.ManagerID,
		"payment_method":      params.PaymentMethod,
		"payment_price":       params.PaymentPrice,
		"matching_expires_at": nil,
	})
}

// Reject переводит REQUESTED -> REJECTED с причиной отказа
func (r *Repository) Reject(ctx context.Context, id int64, reason string) error {
	return r.transition(ctx, "Reject", id, domain.StatusRequested, map[string]interface{}{
		"status":              domain.StatusRejected,
		"reject_reason":       reason,
		"matching_expires_at": nil,
		"terminated_at":       squirrel.Expr("NOW()"),
	})
}

// Cancel отменяет бронирование (PRE_CANCELED или CANCELED) и снимает назначенного менеджера
func (r *Repository) Cancel(ctx context.Context, id int64, from, to domain.ReservationStatus, reason *string) error {
	return r.transition(ctx, "Cancel", id, from, map[string]interface{}{
		"status":              to,
		"cancel_reason":       reason,
		"selected_manager_id": nil,
		"matching_expires_at": nil,
		"terminated_at":       squirrel.Expr("NOW()"),
	})
}

// CheckIn фиксирует начало работ: CONFIRMED -> IN_PROGRESS
func (r *Repository) CheckIn(ctx context.Context, id int64, checkID string, inTime time.Time, fileID *int64) error {
	return r.transition(ctx, "CheckIn", id, domain.StatusConfirmed, map[string]interface{}{
		"status":     domain.StatusInProgress,
		"check_id":   checkID,
		"in_time":    inTime,
		"in_file_id": fileID,
	})
}

// CheckOut фиксирует окончание работ: IN_PROGRESS -> COMPLETED
func (r *Repository) CheckOut(ctx context.Context, id int64, outTime time.Time, fileID *int64) error {
	return r.transition(ctx, "CheckOut", id, domain.StatusInProgress, map[string]interface{}{
		"status":        domain.StatusCompleted,
		"out_time":      outTime,
		"out_file_id":   fileID,
		"terminated_at": squirrel.Expr("NOW()"),
	})
}

// UpdateStatus перезаписывает статус (используется для внешних статусов возврата)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	return r.transition(ctx, "UpdateStatus", id, from, map[string]interface{}{
		"status": to,
	})
}

// transition обновляет строку только если статус не изменился с момента чтения
func (r *Repository) transition(
	ctx context.Context,
	op string,
	id int64,
	from domain.ReservationStatus,
	fields map[string]interface{},
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fields["updated_at"] = squirrel.Expr("NOW()")

	query, args, err := psqlbuilder.Update("reservations").
		SetMap(fields).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return r.missingOrConflict(ctx, executor, id)
	}

	return nil
}

// missingOrConflict различает отсутствие строки и параллельную смену статуса
func (r *Repository) missingOrConflict(ctx context.Context, executor DBExecutor, id int64) error {
	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: missingOrConflict - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: missingOrConflict - scan: %v", ErrScanRow, err)
	}

	return ErrStatusConflict
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует строку в порядке reservationColumns
func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation

	err := row.Scan(
		&res.ID,
		&res.CustomerID,
		&res.SelectedManagerID,
		&res.Status,
		&res.RequestDate,
		&res.StartTime,
		&res.Turnaround,
		&res.Price,
		&res.PaymentMethod,
		&res.PaymentPrice,
		&res.RoadAddress,
		&res.DetailAddress,
		&res.Latitude,
		&res.Longitude,
		&res.CheckID,
		&res.InTime,
		&res.InFileID,
		&res.OutTime,
		&res.OutFileID,
		&res.CancelReason,
		&res.RejectReason,
		&res.MatchingExpiresAt,
		&res.RequestedAt,
		&res.TerminatedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &res, nil
}
