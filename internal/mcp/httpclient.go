package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sco1/zwom/internal/storage"
)

// HTTPClient implements DataSource by calling the zwomd REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but the workout
// library lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: reading %s: %w", path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, storage.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}

// jsonWorkout is the metadata shape the zwomd API serves.
type jsonWorkout struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	FTP         *int      `json:"ftp"`
	CreatedAt   time.Time `json:"created_at"`
}

func (j jsonWorkout) toWorkout() storage.Workout {
	return storage.Workout{
		ID:          j.ID,
		Name:        j.Name,
		Author:      j.Author,
		Description: j.Description,
		FTP:         j.FTP,
		CreatedAt:   j.CreatedAt,
	}
}

// ListWorkouts fetches workout metadata from the remote library.
func (c *HTTPClient) ListWorkouts(ctx context.Context, name string) ([]storage.Workout, error) {
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}

	var rows []jsonWorkout
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decoding workouts: %w", err)
	}

	out := make([]storage.Workout, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toWorkout())
	}
	return out, nil
}

// GetWorkout fetches one workout's metadata plus both bodies: the rendered
// document and the source text.
func (c *HTTPClient) GetWorkout(ctx context.Context, id uuid.UUID) (*storage.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var row jsonWorkout
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: decoding workout: %w", err)
	}
	w := row.toWorkout()

	doc, err := c.get(ctx, "/api/v1/workouts/"+id.String()+"/zwo", nil)
	if err != nil {
		return nil, err
	}
	w.ZWO = string(doc)

	src, err := c.get(ctx, "/api/v1/workouts/"+id.String()+"/zwom", nil)
	if err != nil {
		return nil, err
	}
	w.ZWOM = string(src)

	return &w, nil
}
