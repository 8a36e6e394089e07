package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

const (
	// DefaultNLMBaseURL is the NLM Clinical Tables service.
	DefaultNLMBaseURL = "https://clinicaltables.nlm.nih.gov"
	// nlmSearchPath is the ICD-10-CM search endpoint.
	nlmSearchPath = "/api/icd10cm/v3/search"
	// defaultMaxList is how many candidates are requested per lookup. The
	// search is fuzzy, so the exact code is not always the first hit.
	defaultMaxList = 7
	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// HTTPError is returned for a non-200 response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Body)
}

// NLMClient looks codes up in the NLM Clinical Tables ICD-10-CM API.
type NLMClient struct {
	baseURL    string
	httpClient *http.Client
	maxList    int
}

// NLMOption configures an NLMClient.
type NLMOption func(*NLMClient)

// WithBaseURL sets a custom base URL.
func WithBaseURL(u string) NLMOption {
	return func(c *NLMClient) {
		if strings.TrimSpace(u) != "" {
			c.baseURL = strings.TrimRight(strings.TrimSpace(u), "/")
		}
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(timeout time.Duration) NLMOption {
	return func(c *NLMClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxList sets how many candidates are requested per lookup.
func WithMaxList(n int) NLMOption {
	return func(c *NLMClient) {
		if n > 0 {
			c.maxList = n
		}
	}
}

// NewNLMClient creates a client for the NLM Clinical Tables API.
func NewNLMClient(opts ...NLMOption) *NLMClient {
	c := &NLMClient{
		baseURL:    DefaultNLMBaseURL,
		httpClient: &http.Client{Timeout: DefaultLookupTimeout},
		maxList:    defaultMaxList,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup searches for code and returns the candidate whose code matches it
// exactly, ignoring dots and case. Any other candidate is not an answer.
func (c *NLMClient) Lookup(ctx context.Context, code string) (Entry, error) {
	query := url.Values{}
	query.Set("sf", "code,name")
	query.Set("terms", code)
	query.Set("maxList", strconv.Itoa(c.maxList))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+nlmSearchPath+"?"+query.Encode(), nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return Entry{}, HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	candidates, err := parseNLMResponse(body)
	if err != nil {
		return Entry{}, err
	}

	want := matchKey(code)
	for _, candidate := range candidates {
		if matchKey(candidate.Code) == want {
			return candidate, nil
		}
	}
	return Entry{}, fmt.Errorf("%s: %w", code, ErrNotFound)
}

// parseNLMResponse decodes [total, [codes], extra, [[code, name], ...]].
func parseNLMResponse(body []byte) ([]Entry, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("failed to parse search result: %w", err)
	}
	if len(parts) < 4 {
		return nil, fmt.Errorf("failed to parse search result: expected 4 elements, got %d", len(parts))
	}

	var rows [][]string
	if err := json.Unmarshal(parts[3], &rows); err != nil {
		return nil, fmt.Errorf("failed to parse search rows: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		entry := Entry{Code: row[0]}
		if len(row) > 1 {
			entry.Name = row[1]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func matchKey(code string) string {
	return strings.ToUpper(hierarchy.Clean(strings.TrimSpace(code)))
}
