package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
)

// Service сервис недельного расписания менеджеров
type Service struct {
	repo      AvailabilityRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	repo AvailabilityRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Get возвращает расписание менеджера на неделю
// Используется и самим менеджером, и администратором
func (s *Service) Get(ctx context.Context, managerID int64) (*models.WeekResponse, error) {
	slots, err := s.repo.GetByManager(ctx, managerID)
	if err != nil {
		s.logger.Error("Get: failed to get availability for manager=%d: %v", managerID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	week, err := BuildWeek(slots)
	if err != nil {
		s.logger.Error("Get: stored availability for manager=%d is malformed: %v", managerID, err)
		return nil, fmt.Errorf("%w: malformed stored availability: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(managerID, week), nil
}

// Update заменяет недельное расписание менеджера целиком
// Доступно только самому менеджеру
func (s *Service) Update(ctx context.Context, req *models.UpdateRequest) (*models.WeekResponse, error) {
	s.logger.Info("Update: replacing availability for manager=%d, slots=%d by user=%d",
		req.ManagerID, len(req.Slots), req.UserID)

	if req.UserID != req.ManagerID {
		s.logger.Warn("Update: user=%d cannot edit availability of manager=%d", req.UserID, req.ManagerID)
		return nil, ErrAccessDenied
	}

	slots, err := normalizeSlots(req.ToDomainSlots())
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceForManager(txCtx, req.ManagerID, slots)
	})
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		s.logger.Error("Update: failed to replace availability for manager=%d: %v", req.ManagerID, err)
		return nil, fmt.Errorf("%w: failed to replace availability: %v", ErrInternal, err)
	}

	week, err := BuildWeek(slots)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("Update: availability for manager=%d replaced", req.ManagerID)

	return models.FromDomainWeek(req.ManagerID, week), nil
}
