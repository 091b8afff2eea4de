package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/cache"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/statistics"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

const groupsCacheTTL = 5 * time.Minute

// HandleDashboardGroups feeds the dashboard groups widget. This is the one
// display-only view that degrades instead of failing: when Graph is
// unavailable the widget shows an empty list explicitly labelled degraded so
// it can never be mistaken for an authoritative answer. Mutating endpoints
// never get this treatment.
func HandleDashboardGroups(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	cacheKey := fmt.Sprintf("dashboard:groups:%d", userID)

	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var groups []msgraph.Group
		if json.Unmarshal([]byte(cached), &groups) == nil {
			return c.JSON(fiber.Map{"groups": groups, "degraded": false, "cached": true})
		}
	}

	groups, err := graph.MyGroups(c.Context(), userID)
	if err != nil {
		return c.JSON(fiber.Map{
			"groups":   []msgraph.Group{},
			"degraded": true,
			"message":  "group membership is currently unavailable",
		})
	}

	if data, err := json.Marshal(groups); err == nil {
		_ = cache.Set(cacheKey, string(data), groupsCacheTTL)
	}
	return c.JSON(fiber.Map{"groups": groups, "degraded": false})
}

// HandleDashboardStats returns the portal-wide counters. Served from the
// statistics cache; Graph is never involved.
func HandleDashboardStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatisticsData())
}

// HandleListGroups is the authoritative groups listing; unlike the dashboard
// widget, failures surface here.
func HandleListGroups(c *fiber.Ctx) error {
	groups, err := graph.MyGroups(c.Context(), usercontext.GetUserID(c))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}
