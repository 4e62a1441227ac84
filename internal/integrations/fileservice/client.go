package fileservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/integrations"
)

const serviceName = "fileservice"

// Client клиент для работы с файловым хранилищем
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента файлового хранилища
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// UploadFile загружает один файл и возвращает его URL
func (c *Client) UploadFile(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	url := fmt.Sprintf("%s/internal/files", c.baseURL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create form part: %v", ErrInternal, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("%w: failed to read file %s: %v", ErrInternal, name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to close form: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result UploadResponse
	if err := c.do(req, &result); err != nil {
		c.log.Warn("UploadFile: failed to upload %s: %v", name, err)
		return "", err
	}

	if result.URL == "" {
		return "", fmt.Errorf("%w: empty url for %s", ErrInvalidResponse, name)
	}

	return result.URL, nil
}

// CreateFileGroup объединяет загруженные файлы в группу и возвращает ее ID
func (c *Client) CreateFileGroup(ctx context.Context, urls []string) (int64, error) {
	url := fmt.Sprintf("%s/internal/file-groups", c.baseURL)

	req, err := c.jsonRequest(ctx, http.MethodPost, url, FileGroupRequest{URLs: urls})
	if err != nil {
		return 0, err
	}

	var result FileGroupResponse
	if err := c.do(req, &result); err != nil {
		return 0, err
	}

	c.log.Info("CreateFileGroup: group_id=%d, files=%d", result.ID, len(urls))
	return result.ID, nil
}

// UpdateFileGroup заменяет набор файлов существующей группы
func (c *Client) UpdateFileGroup(ctx context.Context, groupID int64, urls []string) error {
	url := fmt.Sprintf("%s/internal/file-groups/%d", c.baseURL, groupID)

	req, err := c.jsonRequest(ctx, http.MethodPut, url, FileGroupRequest{URLs: urls})
	if err != nil {
		return err
	}

	if err := c.do(req, nil); err != nil {
		return err
	}

	c.log.Info("UpdateFileGroup: group_id=%d, files=%d", groupID, len(urls))
	return nil
}

func (c *Client) jsonRequest(ctx context.Context, method, url string, in interface{}) (*http.Request, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return integrations.TransportError(serviceName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		// Продолжаем обработку
	default:
		return integrations.NewRemoteError(serviceName, resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
