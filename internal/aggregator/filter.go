package aggregator

import (
	"math"
	"time"

	"chatwrapped-go/internal/types"
)

// FilterByYear keeps records created in year, interpreted in loc.
// Order is preserved. An empty result is a NoDataError.
func FilterByYear(records []types.ConversationRecord, year int, loc *time.Location) ([]types.ConversationRecord, error) {
	if loc == nil {
		loc = time.Local
	}
	out := make([]types.ConversationRecord, 0, len(records))
	for _, r := range records {
		if !r.HasCreateTime() {
			continue
		}
		if toTime(*r.CreateTime, loc).Year() == year {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &NoDataError{Year: year}
	}
	return out, nil
}

// toTime converts epoch seconds to a millisecond-precision local time.
func toTime(sec float64, loc *time.Location) time.Time {
	return time.UnixMilli(int64(math.Trunc(sec * 1000))).In(loc)
}
