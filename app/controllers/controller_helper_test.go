package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
)

func graphErrorResponse(t *testing.T, err error) (int, string) {
	t.Helper()

	app := fiber.New()
	app.Get("/err", func(c *fiber.Ctx) error {
		return renderGraphError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/err", nil), -1)
	require.NoError(t, testErr)
	defer resp.Body.Close()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body.Error
}

func TestRenderGraphError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no credential", msgraph.ErrNoCredential, http.StatusUnauthorized, "no_linked_account"},
		{"refresh failed", &msgraph.RefreshError{StatusCode: 400, Body: "invalid_grant"}, http.StatusUnauthorized, "reauthentication_required"},
		{"auth expired", msgraph.ErrAuthExpired, http.StatusUnauthorized, "reauthentication_required"},
		{"forbidden", msgraph.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", msgraph.ErrNotFound, http.StatusNotFound, "not_found"},
		{"graph outage", &msgraph.GatewayError{StatusCode: 503, Body: "down"}, http.StatusBadGateway, "graph_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := graphErrorResponse(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
