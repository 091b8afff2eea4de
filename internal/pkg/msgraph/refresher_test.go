package msgraph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefresher(tokenURL string) *TokenRefresher {
	return NewTokenRefresher(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     tokenURL,
	})
}

func TestTokenRefresherRefresh_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostFormValue("grant_type"))
		assert.Equal(t, "old-refresh", r.PostFormValue("refresh_token"))
		assert.Equal(t, "client-id", r.PostFormValue("client_id"))
		assert.Equal(t, "client-secret", r.PostFormValue("client_secret"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":3600,"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	set, err := newTestRefresher(srv.URL).Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", set.AccessToken)
	assert.Equal(t, "new-refresh", set.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), set.ExpiresAt, 5*time.Second)
}

func TestTokenRefresherRefresh_NoRotation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"new-access","expires_in":600}`))
	}))
	defer srv.Close()

	set, err := newTestRefresher(srv.URL).Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", set.AccessToken)
	// No rotated refresh token in the response: field stays empty so the
	// caller keeps the previous value.
	assert.Empty(t, set.RefreshToken)
}

func TestTokenRefresherRefresh_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"AADSTS70000: token revoked"}`))
	}))
	defer srv.Close()

	_, err := newTestRefresher(srv.URL).Refresh(context.Background(), "revoked-refresh")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, http.StatusBadRequest, refreshErr.StatusCode)
	assert.Contains(t, refreshErr.Body, "invalid_grant")
}

func TestTokenRefresherRefresh_EmptyRefreshToken(t *testing.T) {
	_, err := newTestRefresher("http://unused").Refresh(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestTokenRefresherRefresh_EndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestRefresher(srv.URL).Refresh(context.Background(), "old-refresh")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestTokenRefresherRefresh_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	_, err := newTestRefresher(srv.URL).Refresh(context.Background(), "old-refresh")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRefreshFailed))
}
