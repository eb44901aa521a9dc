package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mindmaps/internal/document/model"
	"mindmaps/pkg/logger"
)

const mindmapsPath = "/api/Mindmaps"

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// RemoteRepository talks to the backend collection of mind maps.
type RemoteRepository struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteRepository(baseURL string, timeout time.Duration) *RemoteRepository {
	return &RemoteRepository{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

type userFilter struct {
	Where struct {
		UserID string `json:"userId"`
	} `json:"where"`
}

// Put upserts rec and returns the raw response body.
func (r *RemoteRepository) Put(ctx context.Context, rec *model.MindmapRecord) (json.RawMessage, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.BaseURL+mindmapsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	data, err := r.do(req)
	if err != nil {
		logger.Sugar.Errorf("Failed to upload mindmap %s: %v", rec.ID, err)
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("PUT %s: response is not JSON", mindmapsPath)
	}
	return json.RawMessage(data), nil
}

// ListByUser fetches every record owned by userID.
func (r *RemoteRepository) ListByUser(ctx context.Context, userID string) ([]model.MindmapRecord, error) {
	var f userFilter
	f.Where.UserID = userID
	filter, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	u := r.BaseURL + mindmapsPath + "?" + url.Values{"filter": {string(filter)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	data, err := r.do(req)
	if err != nil {
		logger.Sugar.Errorf("Failed to fetch mindmaps for user %s: %v", userID, err)
		return nil, err
	}
	var records []model.MindmapRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode mindmaps for user %s: %w", userID, err)
	}
	return records, nil
}

func (r *RemoteRepository) do(req *http.Request) ([]byte, error) {
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.Method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method: req.Method,
			URL:    req.URL.Path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}
