package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource resolves a user to a valid bearer token. Satisfied by
// *TokenResolver; fakes implement it in tests.
type TokenSource interface {
	Resolve(ctx context.Context, userID uint) (string, error)
	ForceRefresh(ctx context.Context, userID uint) (string, error)
}

// Client is the Graph resource gateway. Every operation takes domain-level
// parameters, resolves the access token internally and translates the Graph
// JSON into the portal's own types. Construct one per process and inject it;
// there is no package-level instance.
type Client struct {
	cfg        Config
	tokens     TokenSource
	httpClient *http.Client
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// url resolves a path or an absolute continuation link to a request URL.
// @odata.nextLink cursors come back absolute and are used verbatim.
func (c *Client) url(pathOrLink string) string {
	if strings.HasPrefix(pathOrLink, "http://") || strings.HasPrefix(pathOrLink, "https://") {
		return pathOrLink
	}
	return c.cfg.BaseURL + pathOrLink
}

// do issues one Graph request for the given user. On a 401 it forces a token
// refresh and retries exactly once; every other failure maps straight through
// wrapStatus. The response body is returned for 2xx.
func (c *Client) do(ctx context.Context, userID uint, method, pathOrLink string, body []byte, contentType string) ([]byte, error) {
	token, err := c.tokens.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, status, err := c.roundTrip(ctx, token, method, pathOrLink, body, contentType)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		// The stored expiry said the token was fine but Graph disagreed.
		// Refresh once and retry; a second 401 surfaces as ErrAuthExpired.
		token, err = c.tokens.ForceRefresh(ctx, userID)
		if err != nil {
			return nil, err
		}
		data, status, err = c.roundTrip(ctx, token, method, pathOrLink, body, contentType)
		if err != nil {
			return nil, err
		}
	}

	if err := wrapStatus(status, string(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) roundTrip(ctx context.Context, token, method, pathOrLink string, body []byte, contentType string) ([]byte, int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(pathOrLink), reader)
	if err != nil {
		return nil, 0, &GatewayError{Body: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &GatewayError{Body: fmt.Sprintf("graph request: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &GatewayError{Body: fmt.Sprintf("read response: %v", err)}
	}
	return data, resp.StatusCode, nil
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, userID uint, pathOrLink string, out interface{}) error {
	data, err := c.do(ctx, userID, http.MethodGet, pathOrLink, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &GatewayError{Body: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// postJSON issues a POST with a JSON body; out may be nil for endpoints that
// return 202/204.
func (c *Client) postJSON(ctx context.Context, userID uint, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &GatewayError{Body: fmt.Sprintf("encode request: %v", err)}
	}
	data, err := c.do(ctx, userID, http.MethodPost, path, body, "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &GatewayError{Body: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// patchJSON issues a PATCH with a JSON body and discards the response.
func (c *Client) patchJSON(ctx context.Context, userID uint, path string, in interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &GatewayError{Body: fmt.Sprintf("encode request: %v", err)}
	}
	_, err = c.do(ctx, userID, http.MethodPatch, path, body, "application/json")
	return err
}

// delete issues a DELETE and discards the response.
func (c *Client) delete(ctx context.Context, userID uint, path string) error {
	_, err := c.do(ctx, userID, http.MethodDelete, path, nil, "")
	return err
}
