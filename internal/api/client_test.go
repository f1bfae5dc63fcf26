package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	token := ""
	client := NewClient(server.URL, time.Second, func() string { return token })

	var out map[string]string
	require.NoError(t, client.GetJSON(context.Background(), "/ping", &out))
	assert.Empty(t, gotAuth, "no header while logged out")

	token = "token-123"
	require.NoError(t, client.GetJSON(context.Background(), "/ping", &out))
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestErrorMessageExtracted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "room name already taken"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	err := client.PostJSON(context.Background(), "/lodgings", map[string]string{"name": "x"}, nil)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindHTTPStatus, appErr.Kind)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "room name already taken", appErr.Message)
}

func TestErrorWithoutMessageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	err := client.Delete(context.Background(), "/lodgings/1")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "request failed with status 500", appErr.Message)
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client := NewClient(server.URL, time.Second, nil)
	err := client.GetJSON(context.Background(), "/ping", &struct{}{})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindNetwork, appErr.Kind)
}

func TestMalformedResponseIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"name": `)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	err := client.GetJSON(context.Background(), "/lodgings/1", &struct{}{})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindParse, appErr.Kind)
}

func TestPutJSONSendsBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(gotBody)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	var out map[string]any
	require.NoError(t, client.PutJSON(context.Background(), "/lodgings/1", map[string]any{"name": "Garden Suite"}, &out))
	assert.Equal(t, "Garden Suite", gotBody["name"])
}

func TestPostJSONUnencodableBody(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second, nil)
	err := client.PostJSON(context.Background(), "/x", map[string]any{"fn": func() {}}, nil)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindParse, appErr.Kind)
}

func TestPostMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "room.jpg", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("fake-image-bytes"), data)

		json.NewEncoder(w).Encode(map[string]string{"url": "http://cdn/room.jpg"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	var resp struct {
		URL string `json:"url"`
	}
	err := client.PostMultipart(context.Background(), "/upload", "image", "room.jpg",
		bytes.NewReader([]byte("fake-image-bytes")), &resp)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/room.jpg", resp.URL)
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := client.GetJSON(ctx, "/slow", &struct{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
