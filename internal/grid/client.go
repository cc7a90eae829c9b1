// Package grid provides minimal clients for the GRID esports data platform:
// a central-data GraphQL client for series discovery and a file-download
// client for fetching series artifacts.
package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CentralData is a client for the GRID central-data GraphQL endpoint.
type CentralData struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewCentralData returns a central-data client authenticated with the given
// API key.
func NewCentralData(url, apiKey string) *CentralData {
	return &CentralData{
		url:    strings.TrimRight(url, "/"),
		apiKey: apiKey,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

// graphQLError is one entry of a GraphQL "errors" array.
type graphQLError struct {
	Message string `json:"message"`
}

// query posts a GraphQL document and decodes the "data" object into out.
// A non-empty "errors" array fails the call even on HTTP 200.
func (c *CentralData) query(ctx context.Context, doc string, variables map[string]any, out interface{}) error {
	payload, err := json.Marshal(map[string]any{
		"query":     doc,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("grid: POST %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("grid: POST %s: HTTP %d", c.url, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("grid: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("grid: graphql: %s", strings.Join(msgs, "; "))
	}
	if envelope.Data == nil {
		return fmt.Errorf("grid: response has no data object")
	}
	return json.Unmarshal(envelope.Data, out)
}
