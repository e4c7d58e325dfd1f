package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// contentType is the registry REST API content type.
const contentType = "application/vnd.schemaregistry.v1+json"

// codeSubjectNotFound is the registry error code for an unknown subject.
const codeSubjectNotFound = 40401

const defaultTimeout = 15 * time.Second

// HTTPClient reads version history from a schema registry over its REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client

	// schemaCache holds fetched schema content keyed by subject and version.
	// Registered versions are immutable, so entries never go stale.
	schemaCache sync.Map
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a registry client for the given base URL. A zero or
// negative timeout selects the default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// errorEnvelope is the registry error response body.
type errorEnvelope struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

// schemaRecord is the wire form of one registered version.
type schemaRecord struct {
	Schema     string `json:"schema"`
	Subject    string `json:"subject"`
	Version    int    `json:"version"`
	ID         int    `json:"id"`
	SchemaType string `json:"schemaType,omitempty"`
}

func (c *HTTPClient) Versions(ctx context.Context, subject string) ([]int, error) {
	var versions []int
	path := fmt.Sprintf("/subjects/%s/versions", url.PathEscape(subject))
	if err := c.get(ctx, path, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *HTTPClient) Schema(ctx context.Context, subject string, version int) (string, error) {
	cacheKey := fmt.Sprintf("%s@%d", subject, version)
	if cached, ok := c.schemaCache.Load(cacheKey); ok {
		return cached.(string), nil
	}

	var record schemaRecord
	path := fmt.Sprintf("/subjects/%s/versions/%d", url.PathEscape(subject), version)
	if err := c.get(ctx, path, &record); err != nil {
		return "", err
	}

	c.schemaCache.Store(cacheKey, record.Schema)
	return record.Schema, nil
}

// get issues one request against the REST API and decodes the response body
// into out. An unknown subject maps to ErrSubjectNotFound; every other
// non-success response carries the registry's message when one was sent.
func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope errorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			if resp.StatusCode == http.StatusNotFound && envelope.ErrorCode == codeSubjectNotFound {
				return fmt.Errorf("%s: %w", envelope.Message, ErrSubjectNotFound)
			}
			return fmt.Errorf("registry returned %d: %s", resp.StatusCode, envelope.Message)
		}
		if resp.StatusCode == http.StatusNotFound {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("registry returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	return nil
}
