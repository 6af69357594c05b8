package aggregator

import (
	"fmt"

	"chatwrapped-go/internal/types"
)

type ShapeStats struct {
	AvgConversationLength float64
	LongestConversation   int
}

// Shape derives average and maximum turn counts.
func Shape(records []types.ConversationRecord) (ShapeStats, error) {
	if len(records) == 0 {
		return ShapeStats{}, fmt.Errorf("%w: shape of empty record set", ErrDegenerateInput)
	}
	total, longest := 0, 0
	for _, r := range records {
		n := r.Turns()
		total += n
		if n > longest {
			longest = n
		}
	}
	return ShapeStats{
		AvgConversationLength: round1(float64(total) / float64(len(records))),
		LongestConversation:   longest,
	}, nil
}
