package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"chatwrapped-go/internal/types"
)

// NoThemes is reported when no title matches any theme.
const NoThemes = "No clear themes detected"

const maxThemes = 3

type Theme struct {
	Name     string
	Keywords []string
}

// ThemeTable is matched in declaration order; ties keep this order.
var ThemeTable = []Theme{
	{Name: "coding", Keywords: []string{"code", "programming", "python", "javascript", "function", "debug", "api", "database", "sql", "html", "css", "react", "node", "git", "github"}},
	{Name: "learning", Keywords: []string{"learn", "study", "tutorial", "course", "education", "explain", "understand", "concept", "theory"}},
	{Name: "writing", Keywords: []string{"write", "essay", "article", "blog", "content", "story", "poem", "creative", "draft", "edit"}},
	{Name: "work", Keywords: []string{"work", "job", "career", "project", "meeting", "presentation", "report", "business", "professional"}},
	{Name: "personal", Keywords: []string{"personal", "life", "relationship", "family", "friend", "health", "fitness", "travel", "hobby"}},
}

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

type ThemeStats struct {
	Ranked  []ThemeCount
	Summary string
}

// Themes classifies titles against ThemeTable and ranks themes by hits.
func Themes(records []types.ConversationRecord) ThemeStats {
	var titles []string
	for _, r := range records {
		if r.Title != types.UntitledTitle {
			titles = append(titles, strings.ToLower(r.Title))
		}
	}

	ranked := []ThemeCount{}
	for _, theme := range ThemeTable {
		count := 0
		for _, title := range titles {
			if matchesTheme(title, theme) {
				count++
			}
		}
		if count > 0 {
			ranked = append(ranked, ThemeCount{Theme: theme.Name, Count: count})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	return ThemeStats{Ranked: ranked, Summary: FormatThemes(ranked)}
}

func matchesTheme(lowerTitle string, theme Theme) bool {
	for _, kw := range theme.Keywords {
		if strings.Contains(lowerTitle, kw) {
			return true
		}
	}
	return false
}

// FormatThemes renders at most three ranked themes, or NoThemes.
func FormatThemes(ranked []ThemeCount) string {
	if len(ranked) == 0 {
		return NoThemes
	}
	if len(ranked) > maxThemes {
		ranked = ranked[:maxThemes]
	}
	parts := make([]string, len(ranked))
	for i, tc := range ranked {
		parts[i] = fmt.Sprintf("%s (%d)", tc.Theme, tc.Count)
	}
	return "Top themes: " + strings.Join(parts, ", ")
}
