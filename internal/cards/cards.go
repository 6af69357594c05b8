package cards

import (
	"fmt"
	"regexp"
	"strconv"

	"chatwrapped-go/internal/aggregator"
	"chatwrapped-go/internal/types"
)

// Card is one labelled statistic as shown on the dashboard and in the video.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// Section groups the cards of one video scene.
type Section struct {
	Scene  string                  `json:"scene"`
	Title  string                  `json:"title"`
	Cards  []Card                  `json:"cards,omitempty"`
	Themes []aggregator.ThemeCount `json:"themes,omitempty"`
}

var themePattern = regexp.MustCompile(`(\w+)\s*\((\d+)\)`)

// ParseThemes recovers the ranked themes from the summary text.
func ParseThemes(text string) []aggregator.ThemeCount {
	if text == "" || text == aggregator.NoThemes {
		return nil
	}
	var out []aggregator.ThemeCount
	for _, m := range themePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, aggregator.ThemeCount{Theme: m[1], Count: n})
	}
	return out
}

// Build lays the result out in scene order: overview, patterns, themes, timeline.
func Build(res types.AnalysisResult) []Section {
	return []Section{
		{
			Scene: "overview",
			Title: "Your Chat Overview",
			Cards: []Card{
				{Label: "Total Conversations", Value: strconv.Itoa(res.TotalConversations), Icon: "💬"},
				{Label: "Avg per Day", Value: formatFloat(res.AvgPerDay), Icon: "📅"},
				{Label: "Avg Conversation Length", Value: formatFloat(res.AvgConversationLength), Icon: "📏"},
				{Label: "Politeness Score", Value: strconv.Itoa(res.PolitenessScore), Icon: "😊"},
			},
		},
		{
			Scene: "patterns",
			Title: "Your Chat Patterns",
			Cards: []Card{
				{Label: "Peak Hour", Value: res.PeakHour, Icon: "⏰"},
				{Label: "Weekend Chats", Value: strconv.Itoa(res.WeekendCount), Icon: "🏖️"},
				{Label: "Weekday Chats", Value: strconv.Itoa(res.WeekdayCount), Icon: "💼"},
				{Label: "Longest Break", Value: fmt.Sprintf("%s days", formatFloat(res.LongestBreak)), Icon: "⏸️"},
				{Label: "Longest Streak", Value: fmt.Sprintf("%d days", res.LongestStreak), Icon: "🔥"},
			},
		},
		{
			Scene:  "themes",
			Title:  "Your Chat Themes",
			Themes: ParseThemes(res.Themes),
		},
		{
			Scene: "timeline",
			Title: "Your Chat Timeline",
			Cards: []Card{
				{Label: "First Chat", Value: res.FirstChat, Icon: "🚀"},
				{Label: "Last Chat", Value: res.LastChat, Icon: "🏁"},
				{Label: "Most Active Day", Value: res.MostActiveDay, Icon: "⭐"},
			},
		},
	}
}

// formatFloat prints whole numbers without a decimal point, like a JS number.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
