package msgraph

import (
	"context"
	"net/url"
	"time"
)

// ListEvents returns the user's calendar events inside the given range.
// Continuation cursors are followed internally; calendars are small enough
// that the portal always shows the complete range.
func (c *Client) ListEvents(ctx context.Context, userID uint, from, to time.Time) ([]Event, error) {
	query := url.Values{}
	query.Set("$orderby", "start/dateTime")
	query.Set("$select", "id,subject,bodyPreview,start,end,isAllDay,location,organizer,webLink")
	if !from.IsZero() && !to.IsZero() {
		query.Set("$filter", "start/dateTime ge '"+from.UTC().Format(time.RFC3339)+"' and start/dateTime le '"+to.UTC().Format(time.RFC3339)+"'")
	}

	var events []Event
	path := "/me/events?" + query.Encode()
	for path != "" {
		var list graphList[graphEvent]
		if err := c.getJSON(ctx, userID, path, &list); err != nil {
			return nil, err
		}
		for _, g := range list.Value {
			events = append(events, eventFromGraph(g))
		}
		path = list.NextLink
	}
	return events, nil
}

type graphScheduleRequest struct {
	Schedules                []string          `json:"schedules"`
	StartTime                graphDateTimeZone `json:"startTime"`
	EndTime                  graphDateTimeZone `json:"endTime"`
	AvailabilityViewInterval int               `json:"availabilityViewInterval"`
}

// GetSchedules returns the free/busy view for the given mailboxes. A 403
// means the user may not see a colleague's calendar and is surfaced as
// ErrForbidden, distinct from a mailbox with no bookings.
func (c *Client) GetSchedules(ctx context.Context, userID uint, emails []string, from, to time.Time, intervalMinutes int) ([]Schedule, error) {
	if intervalMinutes <= 0 {
		intervalMinutes = 30
	}
	req := graphScheduleRequest{
		Schedules:                emails,
		StartTime:                graphDateTimeZone{DateTime: from.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
		EndTime:                  graphDateTimeZone{DateTime: to.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
		AvailabilityViewInterval: intervalMinutes,
	}

	var list graphList[graphScheduleInformation]
	if err := c.postJSON(ctx, userID, "/me/calendar/getSchedule", req, &list); err != nil {
		return nil, err
	}

	schedules := make([]Schedule, 0, len(list.Value))
	for _, g := range list.Value {
		schedules = append(schedules, scheduleFromGraph(g))
	}
	return schedules, nil
}
