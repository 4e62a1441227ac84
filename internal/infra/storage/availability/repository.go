package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий недельного расписания менеджеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByManager возвращает выбранные часы менеджера
func (r *Repository) GetByManager(ctx context.Context, managerID int64) ([]domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day_of_week", "hour").
		From("manager_availability").
		Where(squirrel.Eq{"manager_id": managerID}).
		OrderBy("day_of_week ASC", "hour ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByManager - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByManager - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.AvailabilitySlot, 0)
	for rows.Next() {
		var slot domain.AvailabilitySlot
		if err := rows.Scan(&slot.DayOfWeek, &slot.Hour); err != nil {
			return nil, fmt.Errorf("%w: GetByManager - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByManager - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// ReplaceForManager заменяет расписание менеджера целиком
// Должен вызываться внутри транзакции: удаление и вставка выполняются двумя запросами
func (r *Repository) ReplaceForManager(ctx context.Context, managerID int64, slots []domain.AvailabilitySlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("manager_availability").
		Where(squirrel.Eq{"manager_id": managerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForManager - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForManager - execute delete: %v", ErrExecQuery, err)
	}

	if len(slots) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("manager_availability").
		Columns("manager_id", "day_of_week", "hour").
		Suffix("ON CONFLICT DO NOTHING")
	for _, slot := range slots {
		insert = insert.Values(managerID, slot.DayOfWeek, slot.Hour)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForManager - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForManager - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
