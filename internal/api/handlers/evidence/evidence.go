package evidence

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/execution"
	"github.com/m04kA/SMC-ReservationService/internal/service/execution/models"
)

const (
	fieldFiles      = "files"
	fieldFileGroup  = "fileGroupId"
	fieldSkipFailed = "skipFailedEvidence"

	maxMemory = 32 << 20

	msgEvidenceFailed = "не удалось загрузить фото, повторите попытку или продолжите без них"
)

// ParseCheckRequest собирает запрос check-in/check-out из multipart формы
// Вызывающий обязан вызвать cleanup после обработки запроса
func ParseCheckRequest(r *http.Request, reservationID, managerID int64) (*execution.CheckRequest, func(), error) {
	req := &execution.CheckRequest{
		ReservationID: reservationID,
		ManagerID:     managerID,
	}
	noop := func() {}

	// Запрос без тела: отметка без фото
	if r.ContentLength == 0 {
		return req, noop, nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return req, noop, nil
		}
		return nil, noop, domain.NewValidationError(fieldFiles, fmt.Sprintf("invalid multipart form: %v", err))
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	if raw := r.FormValue(fieldFileGroup); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || groupID <= 0 {
			cleanup()
			return nil, noop, domain.NewValidationError(fieldFileGroup, "must be a positive integer")
		}
		req.FileGroupID = &groupID
	}

	if raw := r.FormValue(fieldSkipFailed); raw != "" {
		skip, err := strconv.ParseBool(raw)
		if err != nil {
			cleanup()
			return nil, noop, domain.NewValidationError(fieldSkipFailed, "must be a boolean")
		}
		req.SkipFailedEvidence = skip
	}

	for _, header := range r.MultipartForm.File[fieldFiles] {
		f, err := header.Open()
		if err != nil {
			cleanup()
			return nil, noop, domain.NewValidationError(fieldFiles, fmt.Sprintf("cannot read %s", header.Filename))
		}
		opened = append(opened, f)
		req.Files = append(req.Files, execution.EvidenceFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		})
	}

	return req, cleanup, nil
}

// RespondError отвечает на неудачную загрузку фото
// Ответ содержит уже загруженные файлы, чтобы клиент мог повторить попытку с той же группой
func RespondError(w http.ResponseWriter, err error) bool {
	var evidenceErr *execution.EvidenceError
	if !errors.As(err, &evidenceErr) {
		return false
	}

	result := execution.FromUploadResult(evidenceErr.Result)
	handlers.RespondJSON(w, http.StatusBadGateway, models.EvidenceFailureResponse{
		Message:     msgEvidenceFailed,
		FileGroupID: result.FileGroupID,
		URLs:        result.URLs,
		FailedFiles: result.FailedFiles,
	})
	return true
}
