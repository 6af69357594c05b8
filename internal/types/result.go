package types

// AnalysisResult is the statistics object shared by the dashboard, the
// spreadsheet report and the video renderer. Field names are a wire contract.
type AnalysisResult struct {
	TotalConversations    int     `json:"totalConversations"`
	FirstChat             string  `json:"firstChat"`
	LastChat              string  `json:"lastChat"`
	AvgPerDay             float64 `json:"avgPerDay"`
	LongestBreak          float64 `json:"longestBreak"`
	AvgConversationLength float64 `json:"avgConversationLength"`
	PeakHour              string  `json:"peakHour"`
	WeekendCount          int     `json:"weekendCount"`
	WeekdayCount          int     `json:"weekdayCount"`
	PolitenessScore       int     `json:"politenessScore"`
	MostActiveDay         string  `json:"mostActiveDay"`
	LongestConversation   int     `json:"longestConversation"`
	LongestStreak         int     `json:"longestStreak"`
	Themes                string  `json:"themes"`
}
