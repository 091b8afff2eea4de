package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

// HandleListEvents returns the user's calendar events. Defaults to the
// upcoming four weeks when no range is given.
func HandleListEvents(c *fiber.Ctx) error {
	from := time.Now()
	to := from.AddDate(0, 0, 28)
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "from must be RFC3339")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "to must be RFC3339")
		}
		to = parsed
	}

	events, err := graph.ListEvents(c.Context(), usercontext.GetUserID(c), from, to)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

type scheduleRequest struct {
	Emails   []string `json:"emails"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Interval int      `json:"interval_minutes"`
}

// HandleGetSchedules returns the free/busy view for a set of colleagues.
// A 403 from Graph (no access to a calendar) is rendered as forbidden, never
// as an empty schedule.
func HandleGetSchedules(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		// Also accept query-style invocation for simple lookups
		emails := strings.Split(c.Query("emails"), ",")
		if len(emails) == 0 || emails[0] == "" {
			return badRequest(c, "invalid request body")
		}
		req.Emails = emails
		req.Interval, _ = strconv.Atoi(c.Query("interval", "30"))
	}
	if len(req.Emails) == 0 {
		return badRequest(c, "at least one email is required")
	}

	from := time.Now()
	to := from.Add(24 * time.Hour)
	if req.From != "" {
		parsed, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return badRequest(c, "from must be RFC3339")
		}
		from = parsed
	}
	if req.To != "" {
		parsed, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return badRequest(c, "to must be RFC3339")
		}
		to = parsed
	}

	schedules, err := graph.GetSchedules(c.Context(), usercontext.GetUserID(c), req.Emails, from, to, req.Interval)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"schedules": schedules})
}
