package fileservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

func TestClient_UploadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "image-bytes", string(content))

		_, _ = w.Write([]byte(`{"url":"https://files/photo.jpg"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())

	url, err := client.UploadFile(context.Background(), "photo.jpg", "image/jpeg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://files/photo.jpg", url)
}

func TestClient_FileGroups(t *testing.T) {
	var updated FileGroupRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/internal/file-groups":
			_, _ = w.Write([]byte(`{"id":15}`))
		case r.Method == http.MethodPut && r.URL.Path == "/internal/file-groups/15":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())

	id, err := client.CreateFileGroup(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)

	require.NoError(t, client.UpdateFileGroup(context.Background(), 15, []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, updated.URLs)

	assert.Error(t, client.UpdateFileGroup(context.Background(), 99, nil))
}
