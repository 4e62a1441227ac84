package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

// Repository репозиторий отзывов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отзыв
// Уникальность (reservation_id, author_role) обеспечивается индексом, гонка двух запросов даст ErrReviewExists
func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reviews").
		Columns("reservation_id", "author_id", "author_role", "rating", "content").
		Values(review.ReservationID, review.AuthorID, review.AuthorRole, review.Rating, review.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return review, nil
}

// ExistsByRole проверяет, оставляла ли уже отзыв указанная сторона
func (r *Repository) ExistsByRole(ctx context.Context, reservationID int64, role domain.AuthorRole) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reviews").
		Where(squirrel.Eq{"reservation_id": reservationID, "author_role": role}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByRole - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: ExistsByRole - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// ListByReservation возвращает отзывы бронирования в порядке создания
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"reservation_id",
		"author_id",
		"author_role",
		"rating",
		"content",
		"created_at",
	).
		From("reviews").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(
			&review.ID,
			&review.ReservationID,
			&review.AuthorID,
			&review.AuthorRole,
			&review.Rating,
			&review.Content,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return reviews, nil
}
