// Package client provides an HTTP client for the upstream match analysis API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/commnet/internal/models"
)

// maxErrBody bounds how much of an error response is kept in the error message.
const maxErrBody = 4096

// Client talks to the upstream match API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new API client.
// If baseURL is empty, uses COMMNET_API_URL env var or defaults to localhost:8080.
// A zero timeout falls back to 30s.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("COMMNET_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends req and returns the response body of a 200 response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, statusError(resp, b)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func matchPath(matchID int64, suffix string) string {
	return "/api/matches/" + strconv.FormatInt(matchID, 10) + suffix
}

func patternQuery(source, target models.Act) url.Values {
	q := url.Values{}
	q.Set("sourceDa", strconv.Itoa(int(source)))
	q.Set("targetDa", strconv.Itoa(int(target)))
	return q
}

// GetMatch fetches the full payload of a match: duration, voice logs and events.
// The payload is validated against the match schema before decoding.
func (c *Client) GetMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	body, err := c.get(ctx, matchPath(matchID, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", matchID, err)
	}
	if err := validateMatch(body); err != nil {
		return nil, fmt.Errorf("get match %d: %w", matchID, err)
	}

	var match models.Match
	if err := json.Unmarshal(body, &match); err != nil {
		return nil, fmt.Errorf("get match %d: %w: %v", matchID, ErrInvalidPayload, err)
	}
	if match.ID == 0 {
		match.ID = matchID
	}
	return &match, nil
}

// GetPatternSummary fetches the 10-second bucket series for a pattern.
// The wildcard pattern is sent as source=-1, target=-1.
func (c *Client) GetPatternSummary(ctx context.Context, matchID int64, source, target models.Act) ([]models.SummaryBucket, error) {
	var buckets []models.SummaryBucket
	if err := c.getJSON(ctx, matchPath(matchID, "/metrics"), patternQuery(source, target), &buckets); err != nil {
		return nil, fmt.Errorf("get pattern summary %d (%s-%s): %w", matchID, source, target, err)
	}
	return models.Decorate(buckets), nil
}

type densityResponse struct {
	Density float64 `json:"density"`
}

// GetPreciseDensity asks upstream for the exact density of a pattern over
// [startSec, endSec] in whole seconds.
func (c *Client) GetPreciseDensity(ctx context.Context, matchID, startSec, endSec int64, source, target models.Act) (float64, error) {
	q := patternQuery(source, target)
	q.Set("start", strconv.FormatInt(startSec, 10))
	q.Set("end", strconv.FormatInt(endSec, 10))

	var resp densityResponse
	if err := c.getJSON(ctx, matchPath(matchID, "/analysis"), q, &resp); err != nil {
		return 0, fmt.Errorf("get precise density %d [%d,%d]: %w", matchID, startSec, endSec, err)
	}
	return resp.Density, nil
}

// ListMatches returns every uploaded match.
func (c *Client) ListMatches(ctx context.Context) ([]models.MatchSummary, error) {
	var matches []models.MatchSummary
	if err := c.getJSON(ctx, "/api/matches/list", nil, &matches); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

// UploadName picks the display name for an upload: the given name, or the
// file's base name without its .zip extension.
func UploadName(name, filename string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSuffix(filepath.Base(filename), ".zip")
}

// SubmitMatch uploads a match archive and returns the new match id.
func (c *Client) SubmitMatch(ctx context.Context, filename string, archive io.Reader, name string) (int64, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, archive); err != nil {
		return 0, fmt.Errorf("copy archive: %w", err)
	}
	if err := w.WriteField("matchCode", UploadName(name, filename)); err != nil {
		return 0, fmt.Errorf("write match code: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/matches", &buf)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("submit match: %w", err)
	}

	var id int64
	if err := json.Unmarshal(bytes.TrimSpace(body), &id); err != nil {
		return 0, fmt.Errorf("submit match: %w: %v", ErrInvalidPayload, err)
	}
	return id, nil
}

// IsAvailable checks if the upstream API is reachable.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.get(ctx, "/api/matches/list", nil)
	return err == nil
}
