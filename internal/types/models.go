package types

// UntitledTitle is substituted for conversations whose title is missing or blank.
const UntitledTitle = "(untitled)"

// RoleUser is the author role of messages typed by the account owner.
const RoleUser = "user"

// ConversationRecord is one chat from the export. It is read-only once loaded.
type ConversationRecord struct {
	Title      string        `json:"title"`
	CreateTime *float64      `json:"create_time,omitempty"`
	UpdateTime *float64      `json:"update_time,omitempty"`
	Mapping    []MessageNode `json:"mapping,omitempty"`
}

// MessageNode is one entry of a conversation's message graph.
// Nodes without a message still count as a turn.
type MessageNode struct {
	ID      string   `json:"id"`
	Message *Message `json:"message,omitempty"`
}

type Message struct {
	Role     string   `json:"role"`
	Parts    []string `json:"parts,omitempty"`
	HasParts bool     `json:"-"`
	Content  string   `json:"content,omitempty"`
}

// Turns is the number of nodes in the message graph.
func (c ConversationRecord) Turns() int {
	return len(c.Mapping)
}

// HasCreateTime reports whether the record takes part in temporal analysis.
func (c ConversationRecord) HasCreateTime() bool {
	return c.CreateTime != nil && *c.CreateTime != 0
}
