// Package period turns a period token and a reference instant into the
// current and previous reporting windows and their chart buckets.
package period

import (
	"strings"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
)

// Policy decides how week and month windows are measured.
type Policy int

const (
	// RollingRange measures week and month as the last 7 and 30 days.
	RollingRange Policy = iota
	// CalendarRange aligns week to Sunday and month to the 1st.
	CalendarRange
)

func (p Policy) String() string {
	if p == CalendarRange {
		return "calendar"
	}
	return "rolling"
}

const day = 24 * time.Hour

// Parse validates a period token. Matching is case-insensitive.
func Parse(s string) (entity.PeriodToken, error) {
	t := entity.PeriodToken(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case entity.PeriodToday, entity.PeriodWeek, entity.PeriodMonth, entity.PeriodYear:
		return t, nil
	}
	return "", gerr.InvalidPeriod
}

// Resolve computes the current window ending at now and the previous window
// ending one nanosecond before the current one starts. Calendar arithmetic
// happens in now.Location().
func Resolve(token entity.PeriodToken, now time.Time, policy Policy) (entity.Period, error) {
	p := entity.Period{
		Token:      token,
		CurrentEnd: now,
	}

	switch token {
	case entity.PeriodToday:
		p.CurrentStart = startOfDay(now)
		p.PreviousStart = p.CurrentStart.AddDate(0, 0, -1)
	case entity.PeriodWeek:
		if policy == CalendarRange {
			p.CurrentStart = startOfWeek(now)
			p.PreviousStart = p.CurrentStart.AddDate(0, 0, -7)
		} else {
			p.CurrentStart = now.Add(-7 * day)
			p.PreviousStart = now.Add(-14 * day)
		}
	case entity.PeriodMonth:
		if policy == CalendarRange {
			p.CurrentStart = startOfMonth(now)
			p.PreviousStart = p.CurrentStart.AddDate(0, -1, 0)
		} else {
			p.CurrentStart = now.Add(-30 * day)
			p.PreviousStart = now.Add(-60 * day)
		}
	case entity.PeriodYear:
		p.CurrentStart = startOfYear(now)
		p.PreviousStart = p.CurrentStart.AddDate(-1, 0, 0)
	default:
		return entity.Period{}, gerr.InvalidPeriod
	}

	p.PreviousEnd = lastInstantBefore(p.CurrentStart)
	return p, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the midnight of the Sunday on or before t.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func lastInstantBefore(t time.Time) time.Time {
	return t.Add(-time.Nanosecond)
}
