package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/execution/models"
)

// CheckRequest запрос на check-in или check-out
type CheckRequest struct {
	ReservationID      int64
	ManagerID          int64
	Files              []EvidenceFile
	FileGroupID        *int64 // Группа файлов прошлой неудачной попытки
	SkipFailedEvidence bool   // Продолжить без файлов, если загрузка не удалась
}

// Service сервис выполнения заказа менеджером: принятие, отказ, check-in, check-out
type Service struct {
	reservationRepo ReservationRepository
	fileClient      FileClient
	matchingClient  MatchingClient
	sessions        SessionDetacher
	txManager       TransactionManager
	recorder        Recorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса выполнения
func NewService(
	reservationRepo ReservationRepository,
	fileClient FileClient,
	matchingClient MatchingClient,
	sessions SessionDetacher,
	txManager TransactionManager,
	recorder Recorder,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		fileClient:      fileClient,
		matchingClient:  matchingClient,
		sessions:        sessions,
		txManager:       txManager,
		recorder:        recorder,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Accept менеджер-кандидат принимает бронирование: REQUESTED -> CONFIRMED
func (s *Service) Accept(ctx context.Context, reservationID, managerID int64) (*domain.Reservation, error) {
	s.logger.Info("Accept: reservation id=%d by manager=%d", reservationID, managerID)

	// 1. Предварительная проверка до закрытия сессии клиента
	candidates, err := s.checkCandidate(ctx, "Accept", reservationID, managerID, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	// 2. Сессия клиента больше не должна отменять бронирование
	if err := s.sessions.Detach(reservationID); err != nil {
		s.logger.Warn("Accept: customer session of reservation id=%d is busy: %v", reservationID, err)
		return nil, err
	}

	// 3. Назначаем менеджера
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return s.mapRepoError("Accept", reservationID, err)
		}
		if err := res.CheckTransition(domain.StatusConfirmed); err != nil {
			return err
		}

		err = s.reservationRepo.Confirm(ctx, reservationID, reservationRepo.ConfirmParams{ManagerID: managerID})
		if err != nil {
			return s.mapRepoError("Accept", reservationID, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Accept: reservation id=%d not accepted: %v", reservationID, err)
		return nil, err
	}

	s.recorder.StatusTransition(string(domain.StatusRequested), string(domain.StatusConfirmed))

	others := make([]int64, 0, len(candidates))
	for _, id := range domain.CandidateIDs(candidates) {
		if id != managerID {
			others = append(others, id)
		}
	}
	s.releaseHolds(ctx, "Accept", reservationID, others)

	s.logger.Info("Accept: reservation id=%d confirmed with manager=%d", reservationID, managerID)
	return s.load(ctx, "Accept", reservationID)
}

// Reject менеджер-кандидат отклоняет бронирование: REQUESTED -> REJECTED
// Причина отказа обязательна
func (s *Service) Reject(ctx context.Context, reservationID, managerID int64, req *models.RejectRequest) (*domain.Reservation, error) {
	s.logger.Info("Reject: reservation id=%d by manager=%d", reservationID, managerID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "reject reason is required")
	}
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		return nil, domain.NewValidationError("reason", fmt.Sprintf("must be at most %d characters", domain.MaxReasonLength))
	}

	candidates, err := s.checkCandidate(ctx, "Reject", reservationID, managerID, domain.StatusRejected)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Detach(reservationID); err != nil {
		s.logger.Warn("Reject: customer session of reservation id=%d is busy: %v", reservationID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return s.mapRepoError("Reject", reservationID, err)
		}
		if err := res.CheckTransition(domain.StatusRejected); err != nil {
			return err
		}

		if err := s.reservationRepo.Reject(ctx, reservationID, reason); err != nil {
			return s.mapRepoError("Reject", reservationID, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Reject: reservation id=%d not rejected: %v", reservationID, err)
		return nil, err
	}

	s.recorder.StatusTransition(string(domain.StatusRequested), string(domain.StatusRejected))
	s.releaseHolds(ctx, "Reject", reservationID, domain.CandidateIDs(candidates))

	s.logger.Info("Reject: reservation id=%d rejected by manager=%d", reservationID, managerID)
	return s.load(ctx, "Reject", reservationID)
}

// CheckIn начало работ назначенным менеджером: CONFIRMED -> IN_PROGRESS
func (s *Service) CheckIn(ctx context.Context, req *CheckRequest) (*models.CheckResponse, error) {
	s.logger.Info("CheckIn: reservation id=%d by manager=%d, files=%d", req.ReservationID, req.ManagerID, len(req.Files))

	if err := validateEvidence(req.Files); err != nil {
		return nil, err
	}

	// 1. Проверяем до загрузки файлов
	res, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, s.mapRepoError("CheckIn", req.ReservationID, err)
	}
	if err := s.checkCanCheckIn(res, req.ManagerID); err != nil {
		s.logger.Warn("CheckIn: reservation id=%d: %v", req.ReservationID, err)
		return nil, err
	}

	// 2. Загружаем подтверждающие файлы
	evidence, err := resolveEvidence(s.UploadEvidence(ctx, req.FileGroupID, req.Files), req.SkipFailedEvidence)
	if err != nil {
		s.logger.Warn("CheckIn: evidence upload failed for reservation id=%d: %v", req.ReservationID, err)
		return nil, err
	}

	// 3. Фиксируем начало работ
	checkID := uuid.NewString()
	inTime := s.timeProvider.Now()

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, req.ReservationID)
		if err != nil {
			return s.mapRepoError("CheckIn", req.ReservationID, err)
		}
		if err := s.checkCanCheckIn(res, req.ManagerID); err != nil {
			return err
		}

		err = s.reservationRepo.CheckIn(ctx, req.ReservationID, checkID, inTime, evidence.FileID())
		if err != nil {
			return s.mapRepoError("CheckIn", req.ReservationID, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("CheckIn: reservation id=%d not checked in: %v", req.ReservationID, err)
		return nil, err
	}

	s.recorder.StatusTransition(string(domain.StatusConfirmed), string(domain.StatusInProgress))
	s.logger.Info("CheckIn: reservation id=%d in progress, check_id=%s, evidence=%s",
		req.ReservationID, checkID, evidence.Outcome)

	return s.checkResponse(ctx, "CheckIn", req.ReservationID, evidence)
}

// CheckOut окончание работ назначенным менеджером: IN_PROGRESS -> COMPLETED
func (s *Service) CheckOut(ctx context.Context, req *CheckRequest) (*models.CheckResponse, error) {
	s.logger.Info("CheckOut: reservation id=%d by manager=%d, files=%d", req.ReservationID, req.ManagerID, len(req.Files))

	if err := validateEvidence(req.Files); err != nil {
		return nil, err
	}

	res, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, s.mapRepoError("CheckOut", req.ReservationID, err)
	}
	if err := s.checkCanCheckOut(res, req.ManagerID); err != nil {
		s.logger.Warn("CheckOut: reservation id=%d: %v", req.ReservationID, err)
		return nil, err
	}

	evidence, err := resolveEvidence(s.UploadEvidence(ctx, req.FileGroupID, req.Files), req.SkipFailedEvidence)
	if err != nil {
		s.logger.Warn("CheckOut: evidence upload failed for reservation id=%d: %v", req.ReservationID, err)
		return nil, err
	}

	outTime := s.timeProvider.Now()

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetForUpdate(ctx, req.ReservationID)
		if err != nil {
			return s.mapRepoError("CheckOut", req.ReservationID, err)
		}
		if err := s.checkCanCheckOut(res, req.ManagerID); err != nil {
			return err
		}

		err = s.reservationRepo.CheckOut(ctx, req.ReservationID, outTime, evidence.FileID())
		if err != nil {
			return s.mapRepoError("CheckOut", req.ReservationID, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("CheckOut: reservation id=%d not checked out: %v", req.ReservationID, err)
		return nil, err
	}

	s.recorder.StatusTransition(string(domain.StatusInProgress), string(domain.StatusCompleted))
	s.logger.Info("CheckOut: reservation id=%d completed, evidence=%s", req.ReservationID, evidence.Outcome)

	return s.checkResponse(ctx, "CheckOut", req.ReservationID, evidence)
}

// Вспомогательные методы

// checkCandidate проверяет, что менеджер в списке кандидатов и переход допустим
func (s *Service) checkCandidate(
	ctx context.Context,
	op string,
	reservationID, managerID int64,
	to domain.ReservationStatus,
) ([]domain.Candidate, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, s.mapRepoError(op, reservationID, err)
	}
	if err := res.CheckTransition(to); err != nil {
		s.logger.Warn("%s: reservation id=%d: %v", op, reservationID, err)
		return nil, err
	}

	candidates, err := s.reservationRepo.GetCandidates(ctx, reservationID)
	if err != nil {
		s.logger.Error("%s: failed to load candidates for reservation id=%d: %v", op, reservationID, err)
		return nil, fmt.Errorf("%w: %s - get candidates: %v", ErrInternal, op, err)
	}
	if !domain.ContainsManager(candidates, managerID) {
		s.logger.Warn("%s: manager=%d is not a candidate of reservation id=%d", op, managerID, reservationID)
		return nil, ErrAccessDenied
	}

	return candidates, nil
}

func (s *Service) checkCanCheckIn(res *domain.Reservation, managerID int64) error {
	if res.SelectedManagerID == nil || *res.SelectedManagerID != managerID {
		return ErrAccessDenied
	}
	if res.InTime != nil {
		return ErrAlreadyCheckedIn
	}
	return res.CheckTransition(domain.StatusInProgress)
}

func (s *Service) checkCanCheckOut(res *domain.Reservation, managerID int64) error {
	if res.SelectedManagerID == nil || *res.SelectedManagerID != managerID {
		return ErrAccessDenied
	}
	if res.InTime == nil {
		return ErrNotCheckedIn
	}
	if res.OutTime != nil {
		return ErrAlreadyCheckedOut
	}
	return res.CheckTransition(domain.StatusCompleted)
}

func (s *Service) releaseHolds(ctx context.Context, op string, reservationID int64, managerIDs []int64) {
	if len(managerIDs) == 0 {
		return
	}
	if err := s.matchingClient.ReleaseHolds(ctx, reservationID, managerIDs); err != nil {
		s.logger.Warn("%s: failed to release holds for reservation id=%d: %v", op, reservationID, err)
	}
}

func (s *Service) load(ctx context.Context, op string, reservationID int64) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, s.mapRepoError(op, reservationID, err)
	}
	return res, nil
}

func (s *Service) checkResponse(ctx context.Context, op string, reservationID int64, evidence UploadResult) (*models.CheckResponse, error) {
	res, err := s.load(ctx, op, reservationID)
	if err != nil {
		return nil, err
	}

	return &models.CheckResponse{
		ReservationID: res.ID,
		Status:        string(res.Status),
		CheckID:       res.CheckID,
		InTime:        res.InTime,
		OutTime:       res.OutTime,
		Evidence:      FromUploadResult(evidence),
	}, nil
}

// FromUploadResult преобразует результат загрузки в ответ
func FromUploadResult(result UploadResult) models.EvidenceResponse {
	resp := models.EvidenceResponse{
		Outcome:     string(result.Outcome),
		FileGroupID: result.FileID(),
		URLs:        result.URLs,
		FailedFiles: result.FailedFiles,
	}
	if resp.URLs == nil {
		resp.URLs = []string{}
	}
	if resp.FailedFiles == nil {
		resp.FailedFiles = []string{}
	}
	return resp
}

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
