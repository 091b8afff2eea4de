package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSet is the result of a successful refresh-token exchange. RefreshToken
// is empty when the provider chose not to rotate it; the caller keeps the
// previous value in that case.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Refresher exchanges a refresh token for a new token pair. Satisfied by
// *TokenRefresher; fakes implement it in tests.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// TokenRefresher performs the OAuth2 refresh_token grant against the
// Microsoft identity platform. It is stateless; persisting the result is the
// caller's job. Failures are never retried here.
type TokenRefresher struct {
	cfg        Config
	httpClient *http.Client
}

func NewTokenRefresher(cfg Config) *TokenRefresher {
	return &TokenRefresher{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenEndpointResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// Refresh posts the refresh_token grant and returns the new token pair.
// The provider error payload is preserved inside a *RefreshError so the
// boundary can tell a revoked token from an outage.
func (r *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, &RefreshError{Err: errors.New("refresh token is empty")}
	}

	form := url.Values{}
	form.Set("client_id", r.cfg.ClientID)
	form.Set("client_secret", r.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &RefreshError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &RefreshError{Err: fmt.Errorf("token endpoint request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &RefreshError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp tokenEndpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, &RefreshError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if tokenResp.AccessToken == "" {
		return nil, &RefreshError{Err: errors.New("token response contained no access token")}
	}

	// expires_in is seconds from now; the absolute instant is the only form
	// ever persisted.
	return &TokenSet{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}
