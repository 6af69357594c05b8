package dataset

import (
	"strconv"
	"strings"

	"chatwrapped-go/internal/types"
	"github.com/tidwall/gjson"
)

// previewTitles is how many titles a Summary keeps.
const previewTitles = 50

// Summary is a cheap overview of an export, computed before any year filtering.
type Summary struct {
	TotalConversations int      `json:"total_conversations"`
	Timestamped        int      `json:"timestamped"`
	Untitled           int      `json:"untitled"`
	Titles             []string `json:"titles"`
}

// ExtractConversations accepts either a top-level array of conversations or
// an object with a "conversations" array. Non-object entries are dropped and
// any other shape yields no records.
func ExtractConversations(doc gjson.Result) []types.ConversationRecord {
	list := doc
	if !list.IsArray() {
		if !doc.IsObject() {
			return []types.ConversationRecord{}
		}
		list = doc.Get("conversations")
		if !list.IsArray() {
			return []types.ConversationRecord{}
		}
	}
	out := []types.ConversationRecord{}
	list.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			out = append(out, toRecord(item))
		}
		return true
	})
	return out
}

func toRecord(conv gjson.Result) types.ConversationRecord {
	rec := types.ConversationRecord{
		Title:      types.UntitledTitle,
		CreateTime: epochSeconds(conv.Get("create_time")),
		UpdateTime: epochSeconds(conv.Get("update_time")),
	}
	if t := conv.Get("title"); t.Type == gjson.String && strings.TrimSpace(t.Str) != "" {
		rec.Title = t.Str
	}
	mapping := conv.Get("mapping")
	switch {
	case mapping.IsObject():
		// a repeated key keeps its first position and its last value
		seen := map[string]int{}
		mapping.ForEach(func(key, node gjson.Result) bool {
			n := toNode(key.String(), node)
			if i, dup := seen[n.ID]; dup {
				rec.Mapping[i] = n
				return true
			}
			seen[n.ID] = len(rec.Mapping)
			rec.Mapping = append(rec.Mapping, n)
			return true
		})
	case mapping.IsArray():
		i := 0
		mapping.ForEach(func(_, node gjson.Result) bool {
			rec.Mapping = append(rec.Mapping, toNode(strconv.Itoa(i), node))
			i++
			return true
		})
	}
	return rec
}

func toNode(id string, node gjson.Result) types.MessageNode {
	n := types.MessageNode{ID: id}
	if msg := node.Get("message"); node.IsObject() && msg.IsObject() {
		n.Message = toMessage(msg)
	}
	return n
}

func toMessage(msg gjson.Result) *types.Message {
	m := &types.Message{Role: msg.Get("author.role").Str}
	content := msg.Get("content")
	switch {
	case content.IsObject() && content.Get("parts").IsArray():
		m.HasParts = true
		content.Get("parts").ForEach(func(_, p gjson.Result) bool {
			if p.Type == gjson.String {
				m.Parts = append(m.Parts, p.Str)
			}
			return true
		})
	case content.Type == gjson.String:
		m.Content = content.Str
	case content.Type == gjson.Number:
		m.Content = content.Raw
	}
	return m
}

// epochSeconds reads a numeric or numeric-string timestamp. Zero counts as absent.
func epochSeconds(v gjson.Result) *float64 {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f == 0 {
		return nil
	}
	return &f
}

// Summarize counts records and keeps the first titles for preview.
func Summarize(records []types.ConversationRecord) Summary {
	s := Summary{TotalConversations: len(records), Titles: []string{}}
	for _, r := range records {
		if r.HasCreateTime() {
			s.Timestamped++
		}
		if r.Title == types.UntitledTitle {
			s.Untitled++
		}
		if len(s.Titles) < previewTitles {
			s.Titles = append(s.Titles, r.Title)
		}
	}
	return s
}
