package report

import (
	"fmt"
	"io"

	"chatwrapped-go/internal/cards"
	"chatwrapped-go/internal/types"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	themesSheet  = "Themes"
)

type row struct {
	field string
	label string
	value interface{}
}

func summaryRows(res types.AnalysisResult) []row {
	return []row{
		{"totalConversations", "Total Conversations", res.TotalConversations},
		{"firstChat", "First Chat", res.FirstChat},
		{"lastChat", "Last Chat", res.LastChat},
		{"avgPerDay", "Avg per Day", res.AvgPerDay},
		{"longestBreak", "Longest Break (days)", res.LongestBreak},
		{"avgConversationLength", "Avg Conversation Length", res.AvgConversationLength},
		{"peakHour", "Peak Hour", res.PeakHour},
		{"weekendCount", "Weekend Chats", res.WeekendCount},
		{"weekdayCount", "Weekday Chats", res.WeekdayCount},
		{"politenessScore", "Politeness Score", res.PolitenessScore},
		{"mostActiveDay", "Most Active Day", res.MostActiveDay},
		{"longestConversation", "Longest Conversation (turns)", res.LongestConversation},
		{"longestStreak", "Longest Streak (days)", res.LongestStreak},
		{"themes", "Themes", res.Themes},
	}
}

// Build lays the result out as a two-sheet workbook. The caller closes it.
func Build(res types.AnalysisResult, year int) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("new style: %w", err)
	}

	header := []interface{}{"Field", "Label", fmt.Sprintf("%d", year)}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range summaryRows(res) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.field, r.label, r.value}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write %s: %w", r.field, err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "C1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "C", "C", 48); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(themesSheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	themeHeader := []interface{}{"Theme", "Conversations"}
	if err := f.SetSheetRow(themesSheet, "A1", &themeHeader); err != nil {
		return nil, err
	}
	for i, t := range cards.ParseThemes(res.Themes) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{t.Theme, t.Count}
		if err := f.SetSheetRow(themesSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write theme %s: %w", t.Theme, err)
		}
	}
	if err := f.SetCellStyle(themesSheet, "A1", "B1", bold); err != nil {
		return nil, err
	}
	return f, nil
}

// Write streams the workbook in xlsx format.
func Write(w io.Writer, res types.AnalysisResult, year int) error {
	f, err := Build(res, year)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to path.
func Save(path string, res types.AnalysisResult, year int) error {
	f, err := Build(res, year)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
