package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"chatwrapped-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// 2024-03-15T12:00:00Z
const exportJSON = `[{"title": "Debug SQL", "create_time": 1710504000, "mapping": {}}]`

func writeExport(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHATWRAPPED_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("CHATWRAPPED_SERVER", "")
	path := filepath.Join(dir, "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(exportJSON), 0o644))
	return dir, path
}

func TestReportCommand(t *testing.T) {
	dir, export := writeExport(t)
	out := filepath.Join(dir, "summary.xlsx")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"report", export, "--year", "2024", "--tz", "UTC", "--out", out})
	require.NoError(t, cmd.Execute())

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Summary", "C2")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestAnalyzeCommand_NoDataForYear(t *testing.T) {
	_, export := writeExport(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze", export, "--year", "2020", "--tz", "UTC", "--json"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, "No conversations found for 2020", err.Error())
}

func TestAnalyzeCommand_BadTimezone(t *testing.T) {
	_, export := writeExport(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze", export, "--tz", "Mars/Olympus"})
	assert.Error(t, cmd.Execute())
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	writeExport(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze", "/nonexistent/conversations.json"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeCommand_TitlesKeepJSONClean(t *testing.T) {
	_, export := writeExport(t)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"analyze", export, "--year", "2024", "--tz", "UTC", "--json", "--titles"})
	require.NoError(t, cmd.Execute())

	var res types.AnalysisResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res), stdout.String())
	assert.Equal(t, 1, res.TotalConversations)
	assert.Contains(t, stderr.String(), "Debug SQL")
}

func TestAnalyzeCommand_ServerGetsTimeZone(t *testing.T) {
	_, export := writeExport(t)

	var gotTZ, gotYear string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTZ = r.URL.Query().Get("tz")
		gotYear = r.URL.Query().Get("year")
		_ = json.NewEncoder(w).Encode(types.AnalysisResult{TotalConversations: 1, PeakHour: "9:00 PM"})
	}))
	defer srv.Close()

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"analyze", export, "--server", srv.URL, "--year", "2024", "--tz", "Asia/Tokyo", "--json"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "Asia/Tokyo", gotTZ)
	assert.Equal(t, "2024", gotYear)
	var res types.AnalysisResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, "9:00 PM", res.PeakHour)
}
