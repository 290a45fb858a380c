package action

import (
	"context"
	"fmt"
	"time"
)

// ClockProvider answers get_time. Purely local, no outbound calls. An
// invalid timezone is not a failure: the payload falls back to UTC and
// carries an explanatory error note.
type ClockProvider struct {
	now func() time.Time
}

// NewClockProvider creates the get_time capability.
func NewClockProvider() *ClockProvider {
	return &ClockProvider{now: time.Now}
}

// NewClockProviderAt creates a clock with a fixed time source for tests.
func NewClockProviderAt(now func() time.Time) *ClockProvider {
	return &ClockProvider{now: now}
}

func (c *ClockProvider) Name() string { return "get_time" }

func (c *ClockProvider) Validate(map[string]any) error { return nil }

func (c *ClockProvider) Invoke(_ context.Context, params map[string]any) (any, error) {
	tz := stringParam(params, "timezone")
	now := c.now()

	var (
		local   time.Time
		zone    = tz
		errNote string
	)
	switch tz {
	case "", "local", "auto":
		local = now.Local()
		zone = "local"
	default:
		loc, err := time.LoadLocation(tz)
		if err != nil {
			local = now.UTC()
			zone = "UTC"
			errNote = fmt.Sprintf("Invalid timezone '%s', showing UTC instead", tz)
		} else {
			local = now.In(loc)
		}
	}

	payload := map[string]any{
		"time":        local.Format("Monday, January 2, 2006 3:04:05 PM"),
		"date":        local.Format("2006-01-02"),
		"time_only":   local.Format("3:04:05 PM"),
		"day_of_week": local.Weekday().String(),
		"month":       local.Month().String(),
		"year":        local.Year(),
		"timezone":    zone,
		"timestamp":   now.UTC().Format(time.RFC3339),
		"unix":        now.Unix(),
		"additional_info": map[string]any{
			"is_weekend":   local.Weekday() == time.Saturday || local.Weekday() == time.Sunday,
			"day_of_year":  local.YearDay(),
			"week_of_year": isoWeek(local),
			"quarter":      (int(local.Month())-1)/3 + 1,
			"is_leap_year": isLeapYear(local.Year()),
		},
	}
	if errNote != "" {
		payload["error"] = errNote
	}
	return payload, nil
}

func (c *ClockProvider) Format(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	t, ok := m["time"].(string)
	if !ok || t == "" {
		return "", false
	}
	return "Current time: " + t, true
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
