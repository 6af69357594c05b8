package dashboard

import (
	"fmt"
	"strings"

	"chatwrapped-go/internal/cards"
	"chatwrapped-go/internal/dataset"
	"chatwrapped-go/internal/types"
	"github.com/charmbracelet/lipgloss"
)

// cardsPerRow keeps the dashboard inside a 100 column terminal.
const cardsPerRow = 3

// Render draws the summary as bordered cards grouped by scene.
func Render(res types.AnalysisResult, year int) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(fmt.Sprintf("🎁 Your %d ChatWrapped", year)))
	b.WriteString("\n")

	for _, section := range cards.Build(res) {
		b.WriteString(styleSectionTitle.Render(section.Title))
		b.WriteString("\n")
		if section.Scene == "themes" {
			b.WriteString(renderThemes(section))
		} else {
			b.WriteString(renderCards(section.Cards))
		}
		b.WriteString("\n\n")
	}
	b.WriteString(styleMuted.Render(fmt.Sprintf("Longest conversation: %d turns", res.LongestConversation)))
	b.WriteString("\n")
	return b.String()
}

func renderCards(cs []cards.Card) string {
	var rows []string
	for start := 0; start < len(cs); start += cardsPerRow {
		end := start + cardsPerRow
		if end > len(cs) {
			end = len(cs)
		}
		var row []string
		for _, c := range cs[start:end] {
			body := styleLabel.Render(c.Icon+" "+c.Label) + "\n" + styleValue.Render(c.Value)
			row = append(row, styleCard.Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderThemes(section cards.Section) string {
	if len(section.Themes) == 0 {
		return styleMuted.Render("No clear themes detected in your conversations")
	}
	tags := make([]string, len(section.Themes))
	for i, t := range section.Themes {
		tags[i] = styleTheme.Render(fmt.Sprintf("#%s ×%d", t.Theme, t.Count))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tags...)
}

// RenderTitles lists the preview titles of an export.
func RenderTitles(s dataset.Summary) string {
	if len(s.Titles) == 0 {
		return styleMuted.Render("No titles found; counts still computed from structure.") + "\n"
	}
	var b strings.Builder
	b.WriteString(styleSectionTitle.Render(fmt.Sprintf("Conversation titles (first %d of %d)", len(s.Titles), s.TotalConversations)))
	b.WriteString("\n")
	for _, t := range s.Titles {
		b.WriteString("• " + t + "\n")
	}
	return b.String()
}
