package aggregator

import (
	"fmt"
	"time"

	"chatwrapped-go/internal/types"
)

// ts returns epoch seconds for a UTC wall-clock time.
func ts(year int, month time.Month, day, hour, min int) float64 {
	return float64(time.Date(year, month, day, hour, min, 0, 0, time.UTC).Unix())
}

func conv(title string, created float64, turns int) types.ConversationRecord {
	r := types.ConversationRecord{Title: title}
	if created != 0 {
		c := created
		r.CreateTime = &c
	}
	for i := 0; i < turns; i++ {
		r.Mapping = append(r.Mapping, types.MessageNode{ID: fmt.Sprintf("n%d", i)})
	}
	return r
}

func convAt(created float64) types.ConversationRecord {
	return conv(types.UntitledTitle, created, 0)
}

func userMsg(text string) types.MessageNode {
	return types.MessageNode{ID: text, Message: &types.Message{Role: types.RoleUser, Parts: []string{text}, HasParts: true}}
}

func withNodes(r types.ConversationRecord, nodes ...types.MessageNode) types.ConversationRecord {
	r.Mapping = append(r.Mapping, nodes...)
	return r
}
