// Package extraction talks to the document text-extraction service used for
// the free-text family (scanned PDFs and similar). The service receives the
// raw document bytes and answers with the extracted plain text.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client is an HTTP client for the extraction service.
type Client struct {
	http     *http.Client
	endpoint *url.URL
}

// New creates a client for the given http(s) endpoint.
func New(endpoint string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("scheme %s is not supported", u.Scheme)
	}
	return &Client{
		endpoint: u,
		http:     &http.Client{},
	}, nil
}

type extractResponse struct {
	Text string `json:"text"`
}

// ExtractText sends the document bytes to the service and returns the plain
// text. Failures are recoverable: the ingest pipeline records them as
// per-document errors.
func (c *Client) ExtractText(ctx context.Context, data []byte) (string, error) {
	extractURL, err := c.endpoint.Parse("/api/v1/extract")
	if err != nil {
		return "", fmt.Errorf("unable to parse URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, extractURL.String(), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to perform HTTP request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", res.Status)
	}

	var out extractResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("unable to decode response: %w", err)
	}
	return out.Text, nil
}

// Healthz checks if the extraction service is healthy.
func (c *Client) Healthz() (bool, error) {
	healthEndpoint, err := c.endpoint.Parse("/healthz")
	if err != nil {
		return false, err
	}
	res, err := c.http.Get(healthEndpoint.String())
	if err != nil {
		return false, err
	}
	defer func() { _ = res.Body.Close() }()
	return res.StatusCode == http.StatusOK, nil
}

// SetHTTPTransport overrides the underlying transport, mainly for tests.
func (c *Client) SetHTTPTransport(transport http.RoundTripper) {
	c.http.Transport = transport
}

// Passthrough treats the document bytes as already being plain text. Used
// for .txt documents and by the CLI when no extraction service is
// configured.
type Passthrough struct{}

// ExtractText returns the bytes decoded as UTF-8 text.
func (Passthrough) ExtractText(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}
