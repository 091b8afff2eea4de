package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/app/repository"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
)

var (
	repos *repository.Repositories
	graph *msgraph.Client
)

// Setup injects the repositories and the Graph gateway into the controller
// package. Called once from the router during startup.
func Setup(r *repository.Repositories, g *msgraph.Client) {
	repos = r
	graph = g
}

// renderGraphError maps the Graph error taxonomy to JSON responses. Refresh
// and auth failures are rendered as an explicit re-authentication prompt
// because no automated recovery exists once a refresh token is revoked.
func renderGraphError(c *fiber.Ctx, err error) error {
	var gwErr *msgraph.GatewayError

	switch {
	case errors.Is(err, msgraph.ErrNoCredential):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "no_linked_account",
			"message": "no Microsoft account is linked - sign in with Microsoft first",
		})
	case errors.Is(err, msgraph.ErrRefreshFailed), errors.Is(err, msgraph.ErrAuthExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "reauthentication_required",
			"message": "your Microsoft session has expired - please sign out and sign in again",
		})
	case errors.Is(err, msgraph.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "you do not have access to this resource",
		})
	case errors.Is(err, msgraph.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "the requested resource does not exist",
		})
	case errors.As(err, &gwErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "graph_unavailable",
			"message": "Microsoft Graph request failed",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "unexpected error",
		})
	}
}

// paramUint parses a numeric route parameter.
func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// paramQueryUint parses a numeric query string value.
func paramQueryUint(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "bad_request",
		"message": message,
	})
}

func notFoundJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "not_found",
		"message": "resource not found",
	})
}
