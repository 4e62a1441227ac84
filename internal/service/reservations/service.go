package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// amountTolerance допуск при сравнении суммы оплаты с ценой
const amountTolerance = 0.005

// Service сервис жизненного цикла бронирования со стороны клиента
type Service struct {
	reservationRepo ReservationRepository
	matchingClient  MatchingClient
	paymentClient   PaymentClient
	txManager       TransactionManager
	recorder        Recorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	matchingClient MatchingClient,
	paymentClient PaymentClient,
	txManager TransactionManager,
	recorder Recorder,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		matchingClient:  matchingClient,
		paymentClient:   paymentClient,
		txManager:       txManager,
		recorder:        recorder,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут клиент, назначенный менеджер, кандидат в фазе подбора и администратор
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, role domain.Role) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	var candidates []domain.Candidate
	if res.IsMatching() {
		candidates, err = s.reservationRepo.GetCandidates(ctx, id)
		if err != nil {
			s.logger.Error("GetByID: failed to load candidates for reservation id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: GetByID - get candidates: %v", ErrInternal, err)
		}
	}

	allowed := role == domain.RoleAdmin ||
		res.IsParty(userID) ||
		(role == domain.RoleManager && domain.ContainsManager(candidates, userID))
	if !allowed {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(res, candidates), nil
}

// Confirm финализирует бронирование: менеджер, CONFIRMED и списание оплаты в одной транзакции
// Повтор с тем же ключом идемпотентности не списывает деньги повторно
func (s *Service) Confirm(ctx context.Context, c domain.Confirmation) (*domain.Reservation, error) {
	s.logger.Info("Confirm: reservation id=%d, manager=%d, method=%s, amount=%.2f",
		c.ReservationID, c.ManagerID, c.PaymentMethod, c.Amount)

	if strings.TrimSpace(c.PaymentMethod) == "" {
		return nil, domain.NewValidationError("paymentMethod", "payment method is required")
	}

	var (
		others    []int64
		confirmed *domain.Reservation
	)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, c.ReservationID)
		if err != nil {
			return s.mapRepoError("Confirm", c.ReservationID, err)
		}

		if res.CustomerID != c.CustomerID {
			return ErrAccessDenied
		}

		if err := res.CheckTransition(domain.StatusConfirmed); err != nil {
			return err
		}

		candidates, err := s.reservationRepo.GetCandidates(ctx, c.ReservationID)
		if err != nil {
			return fmt.Errorf("%w: Confirm - get candidates: %v", ErrInternal, err)
		}
		if !domain.ContainsManager(candidates, c.ManagerID) {
			return domain.NewValidationError("managerId", fmt.Sprintf("manager %d is not a candidate", c.ManagerID))
		}

		if total := res.TotalPrice(); math.Abs(total-c.Amount) > amountTolerance {
			return domain.NewValidationError("amount", fmt.Sprintf("amount %.2f does not match price %.2f", c.Amount, total))
		}

		payment, err := s.paymentClient.Capture(ctx, paymentservice.CaptureRequest{
			ReservationID:  c.ReservationID,
			Method:         c.PaymentMethod,
			Amount:         c.Amount,
			IdempotencyKey: c.IdempotencyKey,
		})
		if err != nil {
			return fmt.Errorf("capture payment for reservation id=%d: %w", c.ReservationID, err)
		}

		err = s.reservationRepo.Confirm(ctx, c.ReservationID, reservationRepo.ConfirmParams{
			ManagerID:     c.ManagerID,
			PaymentMethod: &c.PaymentMethod,
			PaymentPrice:  &payment.Amount,
		})
		if err != nil {
			return s.mapRepoError("Confirm", c.ReservationID, err)
		}

		for _, id := range domain.CandidateIDs(candidates) {
			if id != c.ManagerID {
				others = append(others, id)
			}
		}

		res.Status = domain.StatusConfirmed
		res.SelectedManagerID = &c.ManagerID
		res.PaymentMethod = &c.PaymentMethod
		res.PaymentPrice = &payment.Amount
		confirmed = res
		return nil
	})
	if err != nil {
		s.logger.Warn("Confirm: reservation id=%d not confirmed: %v", c.ReservationID, err)
		return nil, err
	}

	s.recorder.StatusTransition(string(domain.StatusRequested), string(domain.StatusConfirmed))

	// Остальные кандидаты больше не нужны, ошибка не влияет на подтверждение
	if len(others) > 0 {
		if err := s.matchingClient.ReleaseHolds(ctx, c.ReservationID, others); err != nil {
			s.logger.Warn("Confirm: failed to release holds for reservation id=%d: %v", c.ReservationID, err)
		}
	}

	s.logger.Info("Confirm: reservation id=%d confirmed with manager=%d", c.ReservationID, c.ManagerID)

	// После коммита ошибка чтения не считается ошибкой подтверждения
	res, err := s.reservationRepo.GetByID(ctx, c.ReservationID)
	if err != nil {
		s.logger.Warn("Confirm: failed to reload reservation id=%d, returning committed state: %v", c.ReservationID, err)
		return confirmed, nil
	}
	return res, nil
}

// CancelBeforeConfirm компенсирующая отмена фазы подбора
// Сначала снимаются блокировки кандидатов, затем статус меняется на PRE_CANCELED:
// если снятие не удалось, бронирование остается в REQUESTED и будет повторно обработано фоновой задачей
func (s *Service) CancelBeforeConfirm(ctx context.Context, reservationID int64, candidateIDs []int64) error {
	s.logger.Info("CancelBeforeConfirm: reservation id=%d, candidates=%v", reservationID, candidateIDs)

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return s.mapRepoError("CancelBeforeConfirm", reservationID, err)
	}

	// Компенсировать можно только фазу подбора, подтвержденное бронирование не трогаем
	if res.Status != domain.StatusRequested {
		s.logger.Info("CancelBeforeConfirm: reservation id=%d is %s, nothing to compensate", reservationID, res.Status)
		return nil
	}

	if len(candidateIDs) > 0 {
		if err := s.matchingClient.ReleaseHolds(ctx, reservationID, candidateIDs); err != nil {
			return fmt.Errorf("release holds for reservation id=%d: %w", reservationID, err)
		}
	}

	var from domain.ReservationStatus
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return s.mapRepoError("CancelBeforeConfirm", reservationID, err)
		}
		if res.Status != domain.StatusRequested {
			return nil
		}

		from = res.Status
		if err := s.reservationRepo.Cancel(ctx, reservationID, res.Status, domain.StatusPreCanceled, nil); err != nil {
			return s.mapRepoError("CancelBeforeConfirm", reservationID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if from != "" {
		s.recorder.StatusTransition(string(from), string(domain.StatusPreCanceled))
		s.logger.Info("CancelBeforeConfirm: reservation id=%d moved %s -> %s", reservationID, from, domain.StatusPreCanceled)
	}
	return nil
}

// Cancel отмена бронирования клиентом до начала работ (CANCELED)
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.NewValidationError("reason", "cancel reason is required")
	}
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		return domain.NewValidationError("reason", fmt.Sprintf("must be at most %d characters", domain.MaxReasonLength))
	}

	var (
		from       domain.ReservationStatus
		candidates []int64
	)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return s.mapRepoError("Cancel", reservationID, err)
		}

		if res.CustomerID != req.UserID {
			s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.UserID, reservationID)
			return ErrAccessDenied
		}

		if err := res.CheckTransition(domain.StatusCanceled); err != nil {
			return err
		}

		if res.IsMatching() {
			held, err := s.reservationRepo.GetCandidates(ctx, reservationID)
			if err != nil {
				return fmt.Errorf("%w: Cancel - get candidates: %v", ErrInternal, err)
			}
			candidates = domain.CandidateIDs(held)
		}

		from = res.Status
		if err := s.reservationRepo.Cancel(ctx, reservationID, res.Status, domain.StatusCanceled, &reason); err != nil {
			return s.mapRepoError("Cancel", reservationID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recorder.StatusTransition(string(from), string(domain.StatusCanceled))

	if len(candidates) > 0 {
		if err := s.matchingClient.ReleaseHolds(ctx, reservationID, candidates); err != nil {
			s.logger.Warn("Cancel: failed to release holds for reservation id=%d: %v", reservationID, err)
		}
	}

	s.logger.Info("Cancel: reservation id=%d moved %s -> %s", reservationID, from, domain.StatusCanceled)
	return nil
}

// ApplyRefundStatus перезапись статуса возврата внешней системой
func (s *Service) ApplyRefundStatus(ctx context.Context, reservationID int64, code string) error {
	s.logger.Info("ApplyRefundStatus: reservation id=%d, status=%s", reservationID, code)

	to, ok := domain.ParseStatus(code)
	if !ok || !to.IsRefund() {
		return domain.NewValidationError("status", fmt.Sprintf("%q is not a refund status", code))
	}

	var from domain.ReservationStatus
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return s.mapRepoError("ApplyRefundStatus", reservationID, err)
		}
		if err := res.CheckTransition(to); err != nil {
			return err
		}

		from = res.Status
		if err := s.reservationRepo.UpdateStatus(ctx, reservationID, res.Status, to); err != nil {
			return s.mapRepoError("ApplyRefundStatus", reservationID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recorder.StatusTransition(string(from), string(to))
	s.logger.Info("ApplyRefundStatus: reservation id=%d moved %s -> %s", reservationID, from, to)
	return nil
}

// Вспомогательные методы

func (s *Service) mapRepoError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, reservationRepo.ErrReservationNotFound):
		s.logger.Warn("%s: reservation id=%d not found", op, id)
		return ErrReservationNotFound
	case errors.Is(err, reservationRepo.ErrStatusConflict):
		s.logger.Warn("%s: reservation id=%d changed concurrently", op, id)
		return ErrStatusChanged
	default:
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
