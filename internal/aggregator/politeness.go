package aggregator

import (
	"math"
	"strings"

	"chatwrapped-go/internal/types"
)

var politeMarkers = []string{"please", "thank"}

type PolitenessStats struct {
	UserMessages   int
	PoliteMessages int
	Score          int
}

// Politeness scores user messages on a 1..5 scale, or 0 when there are none.
// A message is polite at most once no matter how many markers it contains.
func Politeness(records []types.ConversationRecord) PolitenessStats {
	var st PolitenessStats
	for _, r := range records {
		for _, node := range r.Mapping {
			if node.Message == nil || node.Message.Role != types.RoleUser {
				continue
			}
			st.UserMessages++
			if isPolite(messageText(node.Message)) {
				st.PoliteMessages++
			}
		}
	}
	if st.UserMessages > 0 {
		ratio := float64(st.PoliteMessages) / float64(st.UserMessages)
		st.Score = int(math.Floor(1 + ratio*4 + 0.5))
	}
	return st
}

func messageText(m *types.Message) string {
	if m.HasParts {
		return strings.Join(m.Parts, " ")
	}
	return m.Content
}

func isPolite(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range politeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
