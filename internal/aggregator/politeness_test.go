package aggregator

import (
	"testing"

	"chatwrapped-go/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPoliteness(t *testing.T) {
	assistant := types.MessageNode{ID: "a", Message: &types.Message{Role: "assistant", Parts: []string{"please and thank you"}, HasParts: true}}
	empty := types.MessageNode{ID: "root"}
	scalar := types.MessageNode{ID: "s", Message: &types.Message{Role: types.RoleUser, Content: "THANKS a lot"}}

	tests := []struct {
		name       string
		nodes      []types.MessageNode
		wantUser   int
		wantPolite int
		wantScore  int
	}{
		{"no user messages", []types.MessageNode{assistant, empty}, 0, 0, 0},
		{"none polite", []types.MessageNode{userMsg("do it"), userMsg("now")}, 2, 0, 1},
		{"all polite", []types.MessageNode{userMsg("Please help"), scalar}, 2, 2, 5},
		{"both markers count once", []types.MessageNode{userMsg("thank you, please"), userMsg("go")}, 2, 1, 3},
		{"two of three", []types.MessageNode{userMsg("pleased to meet you"), userMsg("thankful"), userMsg("x"), assistant}, 3, 2, 4},
		{"one of four", []types.MessageNode{userMsg("please"), userMsg("a"), userMsg("b"), userMsg("c")}, 4, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withNodes(conv("t", 1, 0), tt.nodes...)
			st := Politeness([]types.ConversationRecord{r})
			assert.Equal(t, tt.wantUser, st.UserMessages)
			assert.Equal(t, tt.wantPolite, st.PoliteMessages)
			assert.Equal(t, tt.wantScore, st.Score)
			assert.GreaterOrEqual(t, st.Score, 0)
			assert.LessOrEqual(t, st.Score, 5)
		})
	}
}

func TestMessageText(t *testing.T) {
	assert.Equal(t, "a b", messageText(&types.Message{Parts: []string{"a", "b"}, HasParts: true, Content: "ignored"}))
	assert.Equal(t, "", messageText(&types.Message{HasParts: true, Content: "ignored"}))
	assert.Equal(t, "raw", messageText(&types.Message{Content: "raw"}))
}
