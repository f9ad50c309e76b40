// Package stats computes the dashboard summary over a user's application
// records. It is the only in-process logic in the service: everything else
// is translation between HTTP and the collaborator.
package stats

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"

	"github.com/trackr/trackr/internal/model"
)

// recentWindow is the trailing window for "recent" applications.
// The boundary instant itself is included.
const recentWindow = 72 * time.Hour

// weeklyWindowDays is the number of calendar days covered by the weekly
// view, today included.
const weeklyWindowDays = 7

// Summary is the dashboard payload for one user.
type Summary struct {
	StatusCounts       map[string]int      `json:"statusCounts"`
	TotalApplications  int                 `json:"totalApplications"`
	RecentApplications []model.Application `json:"recentApplications"`
	WeeklyAppliedStats WeeklyStats         `json:"weeklyAppliedStats"`
}

// WeeklyStats maps weekday names to "Applied" counts, keeping a fixed key
// order: the day after the reference day first, wrapping around to the
// reference day last. A plain map cannot hold that ordering through JSON
// encoding, hence the custom marshaller.
type WeeklyStats struct {
	days   []string
	counts map[string]int
}

// Days returns the weekday names in presentation order.
func (w WeeklyStats) Days() []string {
	return w.days
}

// Count returns the count for a weekday name.
func (w WeeklyStats) Count(day string) int {
	return w.counts[day]
}

// Len returns the number of keys. Zero only for the empty-input summary.
func (w WeeklyStats) Len() int {
	return len(w.days)
}

// MarshalJSON encodes the stats as a JSON object in presentation order.
func (w WeeklyStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range w.days {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(day))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(w.counts[day]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summarize aggregates a user's application records as of now.
//
// An empty input produces empty defaults, including an empty (not
// zero-filled) weekly map; the non-empty path always zero-fills all seven
// weekdays.
//
// Creation timestamps arrive as loosely formatted strings and are parsed
// lazily: only "Applied" records feed the time-windowed views, so only those
// are parsed. A record that cannot be parsed fails the whole summary.
func Summarize(apps []model.Application, now time.Time) (Summary, error) {
	if len(apps) == 0 {
		return Summary{
			StatusCounts:       map[string]int{},
			TotalApplications:  0,
			RecentApplications: []model.Application{},
			WeeklyAppliedStats: WeeklyStats{},
		}, nil
	}

	now = now.UTC()
	recentCutoff := now.Add(-recentWindow)
	today := dateOnly(now)
	weekStart := today.AddDate(0, 0, -(weeklyWindowDays - 1))

	statusCounts := make(map[string]int)
	recent := make([]model.Application, 0)
	weekdayCounts := make(map[string]int)

	for _, app := range apps {
		status := app.Status
		if status == "" {
			status = "Unknown"
		}
		statusCounts[status]++

		if app.Status != model.StatusApplied {
			continue
		}

		created, err := dateparse.ParseIn(app.CreatedAt, time.UTC)
		if err != nil {
			return Summary{}, fmt.Errorf("parse created_at %q: %w", app.CreatedAt, err)
		}
		created = created.UTC()

		if !created.Before(recentCutoff) {
			recent = append(recent, app)
		}

		day := dateOnly(created)
		if !day.Before(weekStart) && !day.After(today) {
			weekdayCounts[created.Weekday().String()]++
		}
	}

	return Summary{
		StatusCounts:       statusCounts,
		TotalApplications:  len(apps),
		RecentApplications: recent,
		WeeklyAppliedStats: rollingWeek(now, weekdayCounts),
	}, nil
}

// rollingWeek zero-fills all seven weekdays, ordered from tomorrow's weekday
// around to today's.
func rollingWeek(now time.Time, counts map[string]int) WeeklyStats {
	days := make([]string, 0, 7)
	filled := make(map[string]int, 7)

	for i := 1; i <= 7; i++ {
		day := time.Weekday((int(now.Weekday()) + i) % 7).String()
		days = append(days, day)
		filled[day] = counts[day]
	}

	return WeeklyStats{days: days, counts: filled}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
