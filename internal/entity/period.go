package entity

import "time"

// PeriodToken names a reporting period.
type PeriodToken string

const (
	PeriodToday PeriodToken = "today"
	PeriodWeek  PeriodToken = "week"
	PeriodMonth PeriodToken = "month"
	PeriodYear  PeriodToken = "year"
)

// PeriodTokens lists supported tokens in display order.
var PeriodTokens = []PeriodToken{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear}

type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range, both ends inclusive.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.From) && !t.After(tr.To)
}

// Period is a current window and the equivalent window right before it.
// All bounds are inclusive.
type Period struct {
	Token         PeriodToken
	CurrentStart  time.Time
	CurrentEnd    time.Time
	PreviousStart time.Time
	PreviousEnd   time.Time
}

func (p Period) Current() TimeRange {
	return TimeRange{From: p.CurrentStart, To: p.CurrentEnd}
}

func (p Period) Previous() TimeRange {
	return TimeRange{From: p.PreviousStart, To: p.PreviousEnd}
}

// Bucket is one labelled slot of a chart series.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}
