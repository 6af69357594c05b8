package aggregator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"chatwrapped-go/internal/types"
)

const secondsPerDay = 24 * 60 * 60

const (
	chatDateLayout   = "1/2/2006"
	activeDateLayout = "Mon Jan 02 2006"
)

// TemporalStats holds every timestamp-derived metric.
type TemporalStats struct {
	Count         int
	FirstChat     string
	LastChat      string
	TimeSpanDays  float64
	AvgPerDay     float64
	LongestBreak  float64
	PeakHour      string
	WeekendCount  int
	WeekdayCount  int
	MostActiveDay string
	LongestStreak int
}

// Temporal computes span, cadence, gaps, streaks and the hour/day modes.
func Temporal(records []types.ConversationRecord, loc *time.Location) (TemporalStats, error) {
	if loc == nil {
		loc = time.Local
	}
	timestamps := sortedTimestamps(records)
	if len(timestamps) == 0 {
		return TemporalStats{}, fmt.Errorf("%w: no timestamped records", ErrDegenerateInput)
	}
	first := timestamps[0]
	last := timestamps[len(timestamps)-1]

	st := TemporalStats{
		Count:     len(timestamps),
		FirstChat: toTime(first, loc).Format(chatDateLayout),
		LastChat:  toTime(last, loc).Format(chatDateLayout),
	}
	st.TimeSpanDays = (last - first) / secondsPerDay
	st.AvgPerDay = round1(float64(len(records)) / math.Max(1, st.TimeSpanDays))
	st.LongestBreak = round1(longestGap(timestamps) / secondsPerDay)
	st.PeakHour = formatHour(peakHour(timestamps, loc))
	st.WeekendCount = weekendCount(timestamps, loc)
	st.WeekdayCount = len(timestamps) - st.WeekendCount
	st.MostActiveDay = mostActiveDay(timestamps, loc)
	st.LongestStreak = longestStreak(timestamps)
	return st, nil
}

func sortedTimestamps(records []types.ConversationRecord) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.HasCreateTime() {
			out = append(out, *r.CreateTime)
		}
	}
	sort.Float64s(out)
	return out
}

func longestGap(sorted []float64) float64 {
	gap := 0.0
	for i := 1; i < len(sorted); i++ {
		gap = math.Max(gap, sorted[i]-sorted[i-1])
	}
	return gap
}

// peakHour folds over hours 0..23 ascending; the first strictly larger count wins.
func peakHour(sorted []float64, loc *time.Location) int {
	var counts [24]int
	for _, ts := range sorted {
		counts[toTime(ts, loc).Hour()]++
	}
	best := 0
	for h := 1; h < len(counts); h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return best
}

func formatHour(h int) string {
	switch {
	case h == 0:
		return "12:00 AM"
	case h < 12:
		return fmt.Sprintf("%d:00 AM", h)
	case h == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", h-12)
	}
}

func weekendCount(sorted []float64, loc *time.Location) int {
	n := 0
	for _, ts := range sorted {
		switch toTime(ts, loc).Weekday() {
		case time.Saturday, time.Sunday:
			n++
		}
	}
	return n
}

// mostActiveDay folds over local dates in chronological order, keeping the first maximum.
func mostActiveDay(sorted []float64, loc *time.Location) string {
	counts := map[string]int{}
	var order []string
	for _, ts := range sorted {
		key := toTime(ts, loc).Format(activeDateLayout)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return best
}

// longestStreak counts consecutive whole-day indices (UTC days since epoch).
func longestStreak(sorted []float64) int {
	var days []int64
	for _, ts := range sorted {
		d := int64(math.Floor(ts / secondsPerDay))
		if len(days) == 0 || days[len(days)-1] != d {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0
	}
	best, cur := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 1
		}
	}
	return best
}
