package request_match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/matchingservice"
)

const noManagersReason = "no managers matched"

// UseCase use case подбора менеджеров: создает бронирование в фазе подбора и открывает сессию
type UseCase struct {
	reservationRepo ReservationRepository
	matchingClient  MatchingClient
	sessions        SessionOpener
	txManager       TransactionManager
	recorder        Recorder
	timeProvider    TimeProvider
	matchingTTL     time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	matchingClient MatchingClient,
	sessions SessionOpener,
	txManager TransactionManager,
	recorder Recorder,
	matchingTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		matchingClient:  matchingClient,
		sessions:        sessions,
		txManager:       txManager,
		recorder:        recorder,
		timeProvider:    &RealTimeProvider{},
		matchingTTL:     matchingTTL,
		logger:          logger,
	}
}

// Execute выполняет use case подбора
// При пустом результате подбора бронирование сразу переводится в PRE_CANCELED
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestMatch: customer=%d, date=%s, time=%s, turnaround=%d",
		req.CustomerID, req.RequestDate.Format(domain.DateFormat), req.StartTime, req.Turnaround)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestMatch: validation failed: %v", err)
		return nil, err
	}

	// 2. Окно обслуживания должно быть в будущем
	now := uc.timeProvider.Now()
	if err := validateWindow(req, now); err != nil {
		uc.logger.Warn("RequestMatch: %v", err)
		return nil, err
	}

	expiresAt := now.Add(uc.matchingTTL)

	// 3. Создаем бронирование в статусе REQUESTED
	res := &domain.Reservation{
		CustomerID:        req.CustomerID,
		Status:            domain.StatusRequested,
		RequestDate:       req.RequestDate,
		StartTime:         req.StartTime,
		Turnaround:        req.Turnaround,
		Price:             req.Price,
		ExtraServices:     make([]domain.ExtraService, 0, len(req.ExtraServices)),
		RoadAddress:       req.RoadAddress,
		DetailAddress:     req.DetailAddress,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		MatchingExpiresAt: &expiresAt,
	}
	for _, extra := range req.ExtraServices {
		res.ExtraServices = append(res.ExtraServices, domain.ExtraService{
			Name:    extra.Name,
			Price:   extra.Price,
			Minutes: extra.Minutes,
		})
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			return err
		}
		res = created
		return nil
	})
	if err != nil {
		uc.logger.Error("RequestMatch: failed to create reservation: %v", err)
		return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
	}

	// 4. Подбираем менеджеров (ставит мягкую блокировку на стороне MatchingService)
	candidates, err := uc.matchingClient.RequestMatch(ctx, matchingservice.Criteria{
		ReservationID: res.ID,
		RequestDate:   res.RequestDate.Format(domain.DateFormat),
		StartTime:     res.StartTime.String(),
		Turnaround:    res.Turnaround,
		Latitude:      res.Latitude,
		Longitude:     res.Longitude,
	})
	if err != nil {
		uc.logger.Error("RequestMatch: matching failed for reservation id=%d: %v", res.ID, err)
		uc.preCancel(ctx, res.ID, nil)
		return nil, fmt.Errorf("request match for reservation id=%d: %w", res.ID, err)
	}

	if len(candidates) == 0 {
		uc.logger.Warn("RequestMatch: no managers matched for reservation id=%d", res.ID)
		uc.preCancel(ctx, res.ID, nil)
		return nil, ErrNoManagersMatched
	}

	// 5. Сохраняем кандидатов, чтобы снять блокировку даже после рестарта
	if err := uc.reservationRepo.SaveCandidates(ctx, res.ID, candidates); err != nil {
		uc.logger.Error("RequestMatch: failed to save candidates for reservation id=%d: %v", res.ID, err)
		uc.preCancel(ctx, res.ID, domain.CandidateIDs(candidates))
		return nil, fmt.Errorf("%w: failed to save candidates: %v", ErrInternal, err)
	}

	// 6. Открываем сессию подбора
	if _, err := uc.sessions.Open(res, candidates); err != nil {
		uc.logger.Error("RequestMatch: failed to open session for reservation id=%d: %v", res.ID, err)
		uc.preCancel(ctx, res.ID, domain.CandidateIDs(candidates))
		return nil, err
	}

	uc.logger.Info("RequestMatch: reservation id=%d matched %d managers, expires at %s",
		res.ID, len(candidates), expiresAt.Format(time.RFC3339))

	return &Response{
		Reservation: res,
		Candidates:  candidates,
		ExpiresAt:   expiresAt,
	}, nil
}

// preCancel переводит неудавшийся подбор в PRE_CANCELED
// Ошибки только логируются: бронирование подберет фоновая очистка по matching_expires_at
func (uc *UseCase) preCancel(ctx context.Context, reservationID int64, held []int64) {
	if len(held) > 0 {
		if err := uc.matchingClient.ReleaseHolds(ctx, reservationID, held); err != nil {
			uc.logger.Warn("RequestMatch: failed to release holds for reservation id=%d: %v", reservationID, err)
			return
		}
	}

	reason := noManagersReason
	err := uc.reservationRepo.Cancel(ctx, reservationID, domain.StatusRequested, domain.StatusPreCanceled, &reason)
	if err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.Warn("RequestMatch: failed to pre-cancel reservation id=%d: %v", reservationID, err)
		return
	}

	uc.recorder.StatusTransition(string(domain.StatusRequested), string(domain.StatusPreCanceled))
}
