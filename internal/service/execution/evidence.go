package execution

import (
	"context"
	"fmt"
	"io"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const maxEvidenceFileSize = domain.MaxEvidenceFileSizeMB << 20

// EvidenceFile подтверждающий файл check-in/check-out
type EvidenceFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadOutcome итог загрузки подтверждающих файлов
type UploadOutcome string

const (
	UploadSkipped   UploadOutcome = "skipped"
	UploadSucceeded UploadOutcome = "succeeded"
	UploadFailed    UploadOutcome = "failed"
)

// UploadResult результат загрузки
// Succeeded: GroupID и URLs заполнены, FailedFiles содержит файлы, которые не загрузились
// Failed: Err заполнен, URLs содержит уже загруженные файлы
type UploadResult struct {
	Outcome     UploadOutcome
	GroupID     int64
	URLs        []string
	FailedFiles []string
	Err         error
}

// FileID идентификатор группы файлов для сохранения в бронировании
func (r UploadResult) FileID() *int64 {
	if r.Outcome != UploadSucceeded {
		return nil
	}
	id := r.GroupID
	return &id
}

// validateEvidence проверяет количество и размер файлов до загрузки
func validateEvidence(files []EvidenceFile) error {
	if len(files) > domain.MaxEvidenceFiles {
		return domain.NewValidationError("files",
			fmt.Sprintf("at most %d files are allowed", domain.MaxEvidenceFiles))
	}

	for _, f := range files {
		if f.Size > maxEvidenceFileSize {
			return domain.NewValidationError("files",
				fmt.Sprintf("%s exceeds %d MB", f.Name, domain.MaxEvidenceFileSizeMB))
		}
	}

	return nil
}

// UploadEvidence загружает файлы по одному и собирает успешные в группу
// При повторе с existingGroupID группа обновляется, а не создается заново
func (s *Service) UploadEvidence(ctx context.Context, existingGroupID *int64, files []EvidenceFile) UploadResult {
	if len(files) == 0 {
		return UploadResult{Outcome: UploadSkipped}
	}

	urls := make([]string, 0, len(files))
	failed := make([]string, 0)
	var lastErr error

	for _, f := range files {
		url, err := s.fileClient.UploadFile(ctx, f.Name, f.ContentType, f.Content)
		if err != nil {
			s.logger.Warn("UploadEvidence: failed to upload %s: %v", f.Name, err)
			failed = append(failed, f.Name)
			lastErr = err
			continue
		}
		urls = append(urls, url)
	}

	if len(urls) == 0 {
		return UploadResult{
			Outcome:     UploadFailed,
			URLs:        urls,
			FailedFiles: failed,
			Err:         fmt.Errorf("%w: no files uploaded: %v", ErrEvidenceUpload, lastErr),
		}
	}

	if existingGroupID != nil {
		if err := s.fileClient.UpdateFileGroup(ctx, *existingGroupID, urls); err != nil {
			s.logger.Warn("UploadEvidence: failed to update file group id=%d: %v", *existingGroupID, err)
			return UploadResult{
				Outcome:     UploadFailed,
				URLs:        urls,
				FailedFiles: failed,
				Err:         fmt.Errorf("%w: update file group: %v", ErrEvidenceUpload, err),
			}
		}
		return UploadResult{
			Outcome:     UploadSucceeded,
			GroupID:     *existingGroupID,
			URLs:        urls,
			FailedFiles: failed,
		}
	}

	groupID, err := s.fileClient.CreateFileGroup(ctx, urls)
	if err != nil {
		s.logger.Warn("UploadEvidence: failed to create file group: %v", err)
		return UploadResult{
			Outcome:     UploadFailed,
			URLs:        urls,
			FailedFiles: failed,
			Err:         fmt.Errorf("%w: create file group: %v", ErrEvidenceUpload, err),
		}
	}

	return UploadResult{
		Outcome:     UploadSucceeded,
		GroupID:     groupID,
		URLs:        urls,
		FailedFiles: failed,
	}
}

// resolveEvidence решает, можно ли продолжать check-in/check-out с результатом загрузки
func resolveEvidence(result UploadResult, skipFailed bool) (UploadResult, error) {
	if result.Outcome != UploadFailed {
		return result, nil
	}
	if skipFailed {
		return UploadResult{Outcome: UploadSkipped, URLs: result.URLs, FailedFiles: result.FailedFiles}, nil
	}
	return result, &EvidenceError{Result: result}
}
