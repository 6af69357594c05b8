package aggregator

import (
	"fmt"
	"math"
	"time"

	"chatwrapped-go/internal/types"
)

// Options selects the calendar year and the zone used for local-time buckets.
type Options struct {
	Year     int
	Location *time.Location
}

// CurrentYear is the default target year for callers at the edge.
func CurrentYear(now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Year()
}

// Analyze filters records to the target year and assembles the summary.
// It either returns a complete result or an error, never a partial one.
func Analyze(records []types.ConversationRecord, opts Options) (types.AnalysisResult, error) {
	if opts.Year <= 0 {
		return types.AnalysisResult{}, fmt.Errorf("%w: target year not set", ErrDegenerateInput)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	inYear, err := FilterByYear(records, opts.Year, loc)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	temporal, err := Temporal(inYear, loc)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	shape, err := Shape(inYear)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	polite := Politeness(inYear)
	themes := Themes(inYear)

	return types.AnalysisResult{
		TotalConversations:    len(inYear),
		FirstChat:             temporal.FirstChat,
		LastChat:              temporal.LastChat,
		AvgPerDay:             temporal.AvgPerDay,
		LongestBreak:          temporal.LongestBreak,
		AvgConversationLength: shape.AvgConversationLength,
		PeakHour:              temporal.PeakHour,
		WeekendCount:          temporal.WeekendCount,
		WeekdayCount:          temporal.WeekdayCount,
		PolitenessScore:       polite.Score,
		MostActiveDay:         temporal.MostActiveDay,
		LongestConversation:   shape.LongestConversation,
		LongestStreak:         temporal.LongestStreak,
		Themes:                themes.Summary,
	}, nil
}

// round1 rounds half up to one decimal place.
func round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
