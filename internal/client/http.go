// Package client talks to the marks HTTP API. HTTPClient implements
// gateway.Gateway, so a CLI session can use the server as its gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/marks/internal/api"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/gateway"
)

// UserHeader identifies the acting user on every request.
const UserHeader = api.UserHeader

var _ gateway.Gateway = (*HTTPClient)(nil)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient targets baseURL (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	var resp api.ListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/bookmarks", ownerID, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Bookmarks == nil {
		resp.Bookmarks = []domain.Bookmark{}
	}
	return resp.Bookmarks, nil
}

func (c *HTTPClient) Create(ctx context.Context, draft domain.Draft) (domain.Bookmark, error) {
	var b domain.Bookmark
	body := api.CreateRequest{URL: draft.URL, Title: draft.Title}
	if err := c.doJSON(ctx, http.MethodPost, "/api/bookmarks", draft.OwnerID, body, &b); err != nil {
		return domain.Bookmark{}, err
	}
	return b, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id, ownerID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/bookmarks/"+url.PathEscape(id), ownerID, nil, nil)
}

// TriggerImport asks the server to run the bookmark file import now.
// It returns an *APIError with status 429 when a run is already queued.
func (c *HTTPClient) TriggerImport(ctx context.Context, ownerID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/import", ownerID, nil, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, user string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(UserHeader, user)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusAccepted {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return responseError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func responseError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var errResp api.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusBadRequest:
		return &domain.ValidationError{Message: msg}
	}
	return &APIError{StatusCode: status, Message: msg}
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
