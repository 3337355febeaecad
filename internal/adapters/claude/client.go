package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
)

const (
	DefaultBaseURL   = "https://claude.ai"
	bootstrapPath    = "/api/bootstrap"
	maxResponseBytes = 1 << 20
	userAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"
)

// Client talks to the usage and bootstrap endpoints of the Claude web
// service. The credential is forwarded verbatim as the Cookie header.
// Requests are bounded only by ctx and HTTPClient; see NewHTTPClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient returns the HTTP client requests go through, with timeout as
// its overall per-request limit.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

var _ ports.UsageAPI = Client{}

type bootstrapResponse struct {
	Account struct {
		LastActiveOrgID string `json:"lastActiveOrgId"`
	} `json:"account"`
}

// Bootstrap returns the organization the credential was last active in.
func (c Client) Bootstrap(ctx context.Context, credential string) (string, error) {
	body, err := c.get(ctx, bootstrapPath, credential)
	if err != nil {
		return "", fmt.Errorf("request bootstrap: %w", err)
	}

	var payload bootstrapResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: bootstrap: %v", domain.ErrDecode, err)
	}

	return payload.Account.LastActiveOrgID, nil
}

// Usage returns the raw usage document of organizationID. Only a 200 answer
// is a success.
func (c Client) Usage(ctx context.Context, organizationID, credential string) ([]byte, error) {
	if organizationID == "" {
		return nil, errors.New("organization id is required")
	}

	body, err := c.get(ctx, "/api/organizations/"+url.PathEscape(organizationID)+"/usage", credential)
	if err != nil {
		return nil, fmt.Errorf("request usage: %w", err)
	}

	return body, nil
}

func (c Client) get(ctx context.Context, path, credential string) ([]byte, error) {
	endpoint, err := buildAPIURL(c.baseURL(), path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, credential)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &domain.StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrTransport, err)
	}

	return body, nil
}

func (c Client) setHeaders(req *http.Request, credential string) {
	origin := c.baseURL()

	req.Header.Set("Cookie", credential)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", origin)
	req.Header.Set("Referer", origin+"/settings/usage")
	req.Header.Set("User-Agent", userAgent)
}

func (c Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}

	return c.BaseURL
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
