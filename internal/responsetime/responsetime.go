// Package responsetime measures how fast a seller answers the first message
// of a conversation.
package responsetime

import (
	"sort"
	"time"

	"github.com/marketlane/sellermetrics/internal/entity"
)

const (
	DefaultCeiling          = 24 * time.Hour
	DefaultCurrentEstimate  = 30 * time.Minute
	DefaultPreviousEstimate = 45 * time.Minute
)

// Analyzer pairs inbound messages with seller replies. Gaps at or above
// Ceiling are treated as outliers and dropped.
type Analyzer struct {
	Ceiling          time.Duration
	CurrentEstimate  time.Duration
	PreviousEstimate time.Duration
}

// New returns an Analyzer, substituting defaults for zero durations.
func New(ceiling, currentEstimate, previousEstimate time.Duration) *Analyzer {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if currentEstimate <= 0 {
		currentEstimate = DefaultCurrentEstimate
	}
	if previousEstimate <= 0 {
		previousEstimate = DefaultPreviousEstimate
	}
	return &Analyzer{
		Ceiling:          ceiling,
		CurrentEstimate:  currentEstimate,
		PreviousEstimate: previousEstimate,
	}
}

// Analyze averages the reply gaps of sellerUserId over messages sent within
// [from, to]. Without a measurable pair it falls back to estimate when the
// seller wrote anything in the window, and to Unavailable otherwise.
func (a *Analyzer) Analyze(convs []entity.Conversation, sellerUserId string, from, to time.Time, estimate time.Duration) entity.ResponseTime {
	window := entity.TimeRange{From: from, To: to}

	var (
		total   time.Duration
		samples int
		active  bool
	)
	for _, c := range convs {
		msgs := inWindow(c.Messages, window)
		for _, m := range msgs {
			if m.SenderId == sellerUserId {
				active = true
				break
			}
		}
		gap, ok := firstReply(msgs, sellerUserId)
		if !ok || gap >= a.Ceiling {
			continue
		}
		total += gap
		samples++
	}

	switch {
	case samples > 0:
		return entity.ResponseTime{
			Kind:    entity.ResponseTimeMeasured,
			Minutes: total.Minutes() / float64(samples),
			Samples: samples,
		}
	case active:
		return entity.ResponseTime{
			Kind:    entity.ResponseTimeEstimated,
			Minutes: estimate.Minutes(),
		}
	default:
		return entity.ResponseTime{Kind: entity.ResponseTimeUnavailable}
	}
}

// Current analyzes the current window of p.
func (a *Analyzer) Current(convs []entity.Conversation, sellerUserId string, p entity.Period) entity.ResponseTime {
	return a.Analyze(convs, sellerUserId, p.CurrentStart, p.CurrentEnd, a.CurrentEstimate)
}

// Previous analyzes the previous window of p.
func (a *Analyzer) Previous(convs []entity.Conversation, sellerUserId string, p entity.Period) entity.ResponseTime {
	return a.Analyze(convs, sellerUserId, p.PreviousStart, p.PreviousEnd, a.PreviousEstimate)
}

func inWindow(msgs []entity.Message, window entity.TimeRange) []entity.Message {
	out := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		if window.Contains(m.CreatedAt) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// firstReply finds the first message not sent by the seller and the first
// seller message strictly after it.
func firstReply(msgs []entity.Message, sellerUserId string) (time.Duration, bool) {
	inbound := -1
	for i, m := range msgs {
		if m.SenderId != sellerUserId {
			inbound = i
			break
		}
	}
	if inbound < 0 {
		return 0, false
	}
	asked := msgs[inbound].CreatedAt
	for _, m := range msgs[inbound+1:] {
		if m.SenderId == sellerUserId && m.CreatedAt.After(asked) {
			return m.CreatedAt.Sub(asked), true
		}
	}
	return 0, false
}
