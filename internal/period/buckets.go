package period

import (
	"fmt"
	"sort"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
	gerr "github.com/marketlane/sellermetrics/internal/errors"
)

var (
	weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthLabels   = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// Buckets splits the calendar unit containing now into chart buckets:
// 24 hours for today, Sun..Sat for week, "Week N" slices for month and
// Jan..Dec for year. Bucket ends are inclusive.
func Buckets(token entity.PeriodToken, now time.Time) ([]entity.Bucket, error) {
	switch token {
	case entity.PeriodToday:
		return hourBuckets(now), nil
	case entity.PeriodWeek:
		return dayBuckets(now), nil
	case entity.PeriodMonth:
		return weekBuckets(now), nil
	case entity.PeriodYear:
		return monthBuckets(now), nil
	}
	return nil, gerr.InvalidPeriod
}

// hourBuckets tiles now's calendar day by wall-clock hour. A skipped hour
// on a DST transition day gets an empty bucket (End before Start) and a
// repeated hour stays in the bucket of its label.
func hourBuckets(now time.Time) []entity.Bucket {
	y, m, d := now.Date()
	loc := now.Location()

	var starts [25]time.Time
	starts[24] = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	for h := 23; h >= 0; h-- {
		start := time.Date(y, m, d, h, 0, 0, 0, loc)
		if start.Hour() != h || !start.Before(starts[h+1]) {
			start = starts[h+1]
		}
		starts[h] = start
	}

	bb := make([]entity.Bucket, 0, 24)
	for h := range 24 {
		bb = append(bb, entity.Bucket{
			Label: fmt.Sprintf("%d:00", h),
			Start: starts[h],
			End:   lastInstantBefore(starts[h+1]),
		})
	}
	return bb
}

func dayBuckets(now time.Time) []entity.Bucket {
	sunday := startOfWeek(now)
	bb := make([]entity.Bucket, 0, len(weekdayLabels))
	for i, label := range weekdayLabels {
		start := sunday.AddDate(0, 0, i)
		bb = append(bb, entity.Bucket{
			Label: label,
			Start: start,
			End:   lastInstantBefore(start.AddDate(0, 0, 1)),
		})
	}
	return bb
}

// weekBuckets covers the month up to now in 7-day slices counted from the
// 1st. The last slice is not clamped to the month end.
func weekBuckets(now time.Time) []entity.Bucket {
	first := startOfMonth(now)
	n := (now.Day() + int(first.Weekday()) + 6) / 7
	bb := make([]entity.Bucket, 0, n)
	for i := range n {
		start := first.AddDate(0, 0, 7*i)
		bb = append(bb, entity.Bucket{
			Label: fmt.Sprintf("Week %d", i+1),
			Start: start,
			End:   lastInstantBefore(start.AddDate(0, 0, 7)),
		})
	}
	return bb
}

func monthBuckets(now time.Time) []entity.Bucket {
	jan := startOfYear(now)
	bb := make([]entity.Bucket, 0, len(monthLabels))
	for i, label := range monthLabels {
		start := jan.AddDate(0, i, 0)
		bb = append(bb, entity.Bucket{
			Label: label,
			Start: start,
			End:   lastInstantBefore(start.AddDate(0, 1, 0)),
		})
	}
	return bb
}

// Locate returns the index of the bucket containing t, or -1. Buckets must
// be sorted and non-overlapping.
func Locate(bb []entity.Bucket, t time.Time) int {
	i := sort.Search(len(bb), func(i int) bool {
		return !bb[i].End.Before(t)
	})
	if i < len(bb) && bb[i].Contains(t) {
		return i
	}
	return -1
}
