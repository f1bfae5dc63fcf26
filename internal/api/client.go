package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
type TokenSource func() string

// Client issues authenticated JSON requests against the venue backend.
// It attaches the bearer token when one exists and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewClient creates a Client for the given base URL. token may be nil for
// a client that never authenticates.
func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// GetJSON issues a GET and decodes the 2xx response body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return apperror.Wrap(err, apperror.KindParse, "failed to encode request body")
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(encoded), "application/json", out)
}

// PutJSON issues a PUT with a JSON body and decodes the response into out.
func (c *Client) PutJSON(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return apperror.Wrap(err, apperror.KindParse, "failed to encode request body")
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(encoded), "application/json", out)
}

// Delete issues a DELETE. The response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// PostMultipart uploads a single file under the given form field and decodes
// the 2xx response into out.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return apperror.Wrap(err, apperror.KindNetwork, "failed to build multipart body")
	}
	if _, err := io.Copy(part, content); err != nil {
		return apperror.Wrap(err, apperror.KindNetwork, "failed to read upload content")
	}
	if err := w.Close(); err != nil {
		return apperror.Wrap(err, apperror.KindNetwork, "failed to finalize multipart body")
	}
	return c.do(ctx, http.MethodPost, path, buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperror.Wrap(err, apperror.KindNetwork, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.KindNetwork, "backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.Status(resp.StatusCode, errorMessage(resp.Body))
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(err, apperror.KindParse,
			fmt.Sprintf("malformed response from %s %s", method, path))
	}
	return nil
}

// errorMessage extracts the optional {message} body from a non-2xx response.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
