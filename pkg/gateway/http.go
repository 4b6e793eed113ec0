package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

const defaultTimeout = 12 * time.Second

// HTTPGateway talks to the backend's REST collection of mood entries.
// Zero-value fields fall back to sane defaults; APIKey empty means no user
// context and every call fails ErrUnauthenticated before touching the wire.
type HTTPGateway struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewHTTPGateway builds a gateway with the default client timeout.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Insert creates an entry remotely and returns the confirmed record. The
// returned record keeps the locally generated id the backend echoed back.
func (g *HTTPGateway) Insert(ctx context.Context, entry *mood.Entry) (*mood.Entry, error) {
	body, err := g.send(ctx, http.MethodPost, "/v1/mood-entries", entry, nil)
	if err != nil {
		return nil, err
	}

	var confirmed mood.Entry
	if err := json.Unmarshal(body, &confirmed); err != nil {
		return nil, fmt.Errorf("%w: decode insert response: %v", ErrRejected, err)
	}
	return &confirmed, nil
}

// Query returns a user's entries within [start, end].
func (g *HTTPGateway) Query(ctx context.Context, userID string, start, end time.Time) ([]*mood.Entry, error) {
	params := url.Values{}
	params.Set("userId", userID)
	params.Set("start", start.UTC().Format(time.RFC3339))
	params.Set("end", end.UTC().Format(time.RFC3339))

	body, err := g.send(ctx, http.MethodGet, "/v1/mood-entries", nil, params)
	if err != nil {
		return nil, err
	}

	var entries []*mood.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode query response: %v", ErrRejected, err)
	}
	for _, e := range entries {
		e.Synced = true
	}
	return entries, nil
}

// Upsert creates or merges an entry. The client token rides along as the
// conflict key so the backend merges rather than duplicating a record whose
// insert succeeded but whose acknowledgment was lost.
func (g *HTTPGateway) Upsert(ctx context.Context, entry *mood.Entry) error {
	params := url.Values{}
	params.Set("onConflict", "clientToken")

	_, err := g.send(ctx, http.MethodPut, "/v1/mood-entries", entry, params)
	return err
}

func (g *HTTPGateway) send(ctx context.Context, method, path string, payload any, params url.Values) ([]byte, error) {
	if g.APIKey == "" {
		return nil, fmt.Errorf("%w: no api key configured", ErrUnauthenticated)
	}

	endpoint := g.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: encode request: %v", ErrRejected, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRejected, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := g.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthenticated, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, truncate(raw))
	}

	return raw, nil
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// Compile-time interface check
var _ Gateway = (*HTTPGateway)(nil)
