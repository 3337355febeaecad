package claude

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCredential = "sessionKey=sk-1; lastActiveOrg=org-1"

func TestClientUsageSendsCredentialAndHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/organizations/org-1/usage", r.URL.Path)
		assert.Equal(t, testCredential, r.Header.Get("Cookie"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("Origin"))
		assert.Contains(t, r.Header.Get("Referer"), "/settings/usage")
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")

		_, _ = w.Write([]byte(`{"five_hour":{"utilization":42}}`))
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL, HTTPClient: server.Client()}

	body, err := client.Usage(context.Background(), "org-1", testCredential)
	require.NoError(t, err)
	assert.JSONEq(t, `{"five_hour":{"utilization":42}}`, string(body))
}

func TestClientUsageNonOKReturnsStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL, HTTPClient: server.Client()}

	_, err := client.Usage(context.Background(), "org-1", testCredential)
	require.Error(t, err)

	var statusErr *domain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Equal(t, "HTTP 401", domain.ErrorMessage(err))
}

func TestClientUsageTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := Client{BaseURL: baseURL, HTTPClient: NewHTTPClient(time.Second)}

	_, err := client.Usage(context.Background(), "org-1", testCredential)
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, "Network error", domain.ErrorMessage(err))
}

func TestClientUsageHTTPClientTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := Client{BaseURL: server.URL, HTTPClient: NewHTTPClient(50 * time.Millisecond)}

	_, err := client.Usage(context.Background(), "org-1", testCredential)
	require.ErrorIs(t, err, domain.ErrTransport)
}

func TestClientUsageRequiresOrganization(t *testing.T) {
	t.Parallel()

	_, err := Client{}.Usage(context.Background(), "", testCredential)
	require.Error(t, err)
}

func TestClientBootstrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{name: "organization present", status: http.StatusOK, body: `{"account":{"lastActiveOrgId":"org-7"}}`, want: "org-7"},
		{name: "organization missing", status: http.StatusOK, body: `{"account":{}}`, want: ""},
		{name: "invalid json", status: http.StatusOK, body: `<html>`, wantErr: domain.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/bootstrap", r.URL.Path)
				assert.Equal(t, "sessionKey=sk-1", r.Header.Get("Cookie"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client := Client{BaseURL: server.URL, HTTPClient: server.Client()}

			got, err := client.Bootstrap(context.Background(), "sessionKey=sk-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildAPIURLRejectsInvalidBase(t *testing.T) {
	t.Parallel()

	_, err := buildAPIURL("ftp://claude.ai", bootstrapPath)
	require.Error(t, err)

	_, err = buildAPIURL("https://", bootstrapPath)
	require.Error(t, err)

	got, err := buildAPIURL("https://claude.ai", bootstrapPath)
	require.NoError(t, err)
	assert.Equal(t, "https://claude.ai/api/bootstrap", got)
}
