package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sample-media-gateway/internal/config"
	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// Compile-time checks
var _ adapter.JobAPIAdapter = (*Client)(nil)
var _ adapter.CatalogAdapter = (*Client)(nil)

// APIError carries a non-2xx backend response so the handler layer can
// surface the server-provided text with the original status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// Client talks to the external Backend Job API. An unconfigured base URL is
// a documented degraded mode: listings come back empty and submissions are
// rejected with domain.ErrBackendUnavailable.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zerolog.Logger
}

func NewClient(cfg config.BackendConfig, logger *zerolog.Logger) *Client {
	cliLog := logger.With().Str("component", "BackendClient").Logger()
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		cliLog.Warn().Msg("backend.base_url not set; serving empty catalog")
	}
	return &Client{
		baseURL: base,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		log:     &cliLog,
	}
}

func (c *Client) Configured() bool { return c.baseURL != "" }

func (c *Client) Submit(ctx context.Context, provider, rawURL, bearer string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrBackendUnavailable
	}

	body, err := json.Marshal(map[string]string{"url": rawURL})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/process/"+url.PathEscape(provider), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit %s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: readError(resp.Body)}
	}

	var out struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("submit %s: decode: %w", provider, err)
	}
	if out.TaskID == "" {
		return "", fmt.Errorf("submit %s: empty task_id in response", provider)
	}
	return out.TaskID, nil
}

func (c *Client) Status(ctx context.Context, taskID string) (adapter.JobStatus, error) {
	if !c.Configured() {
		return adapter.JobStatus{}, domain.ErrBackendUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/process/status/"+url.PathEscape(taskID), nil)
	if err != nil {
		return adapter.JobStatus{}, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return adapter.JobStatus{}, fmt.Errorf("status %s: %w", taskID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return adapter.JobStatus{}, &APIError{StatusCode: resp.StatusCode, Message: readError(resp.Body)}
	}

	var out struct {
		Status   string   `json:"status"`
		Message  string   `json:"message"`
		Progress *float64 `json:"progress"`
		Error    string   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return adapter.JobStatus{}, fmt.Errorf("status %s: decode: %w", taskID, err)
	}

	st := adapter.JobStatus{
		Status:   model.TaskStatus(out.Status),
		Message:  out.Message,
		Progress: -1,
		Error:    out.Error,
	}
	if !st.Status.Valid() {
		return adapter.JobStatus{}, fmt.Errorf("status %s: unknown status %q", taskID, out.Status)
	}
	if out.Progress != nil {
		st.Progress = int(*out.Progress)
	}
	return st, nil
}

func (c *Client) ListSamples(ctx context.Context, limit, offset int) ([]model.Sample, error) {
	if !c.Configured() {
		// Degrade to an empty result set rather than fail.
		return []model.Sample{}, nil
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/samples?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readError(resp.Body)}
	}

	var out struct {
		Samples []model.Sample `json:"samples"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list samples: decode: %w", err)
	}
	if out.Samples == nil {
		out.Samples = []model.Sample{}
	}
	return out.Samples, nil
}

// readError pulls a human-readable message out of an error response body,
// preferring the JSON "error" field over raw text.
func readError(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}
	var out struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &out) == nil {
		if out.Error != "" {
			return out.Error
		}
		if out.Message != "" {
			return out.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
