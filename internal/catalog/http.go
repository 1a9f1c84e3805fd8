package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobswipe/internal/types"
)

// DefaultHTTPTimeout bounds a single catalog request
const DefaultHTTPTimeout = 15 * time.Second

// maxCatalogBytes caps the response body read from the catalog endpoint
const maxCatalogBytes = 10 << 20

// HTTPLoader fetches the catalog from a companion server's GET /jobs endpoint
type HTTPLoader struct {
	baseURL string
	client  *http.Client
}

// NewHTTPLoader creates a loader for the server at baseURL. A nil client uses DefaultHTTPTimeout.
func NewHTTPLoader(baseURL string, client *http.Client) (*HTTPLoader, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{Source: "http", Message: fmt.Sprintf("invalid base URL %q", baseURL), Cause: err}
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPLoader{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

// FetchAll implements Loader
func (h *HTTPLoader) FetchAll(ctx context.Context) ([]types.Job, error) {
	endpoint := h.baseURL + "/jobs"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Source: "http", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &Error{Source: "http", Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Source: "http", Message: fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, endpoint)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, &Error{Source: "http", Message: "failed to read response body", Cause: err}
	}

	var jobs []types.Job
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, &Error{Source: "http", Message: "invalid catalog JSON", Cause: err}
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}
