package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var crossed = domain.Notification{AccountID: "acc-1", AccountName: "Work", Threshold: 75, Percentage: 78}

func TestDesktopNotify(t *testing.T) {
	var gotTitle, gotMessage string
	desktop := &Desktop{send: func(title, message string) error {
		gotTitle, gotMessage = title, message
		return nil
	}}

	require.NoError(t, desktop.Notify(context.Background(), crossed))
	assert.Equal(t, "Claude usage: Work", gotTitle)
	assert.Equal(t, "Session usage passed 75% (now 78%)", gotMessage)
}

func TestDesktopNotifyWrapsError(t *testing.T) {
	desktop := &Desktop{send: func(string, string) error { return errors.New("no dbus") }}

	err := desktop.Notify(context.Background(), crossed)
	require.Error(t, err)
	assert.ErrorContains(t, err, "desktop notification")
}

func TestNtfyNotify(t *testing.T) {
	var received ntfyPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	ntfy := NewNtfy(server.URL + "/usage")
	require.NoError(t, ntfy.Notify(context.Background(), crossed))

	assert.Equal(t, "Claude usage: Work", received.Title)
	assert.Equal(t, "Session usage passed 75% (now 78%)", received.Message)
	assert.Equal(t, 4, received.Priority)
}

func TestNtfyNotifyRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	err := NewNtfy(server.URL).Notify(context.Background(), crossed)
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 403")
}

func TestMultiNotifyReachesEveryTransport(t *testing.T) {
	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)

	first.EXPECT().Notify(mock.Anything, crossed).Return(errors.New("first failed")).Once()
	second.EXPECT().Notify(mock.Anything, crossed).Return(nil).Once()

	err := Multi{first, second}.Notify(context.Background(), crossed)
	require.Error(t, err)
	assert.ErrorContains(t, err, "first failed")
}

func TestMultiNotifyEmpty(t *testing.T) {
	assert.NoError(t, Multi{}.Notify(context.Background(), crossed))
}
