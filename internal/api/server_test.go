package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chatwrapped-go/internal/config"
	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/processor"
	"chatwrapped-go/internal/render"
	"chatwrapped-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// 2024-03-15T12:00:00Z and 2024-03-16T13:00:00Z
const exportJSON = `[
  {"title": "Write a python script", "create_time": 1710504000,
   "mapping": {"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["thanks!"]}}}}},
  {"title": "Recipe ideas", "create_time": 1710594000, "mapping": {}}
]`

func newTestServer(t *testing.T, renderCommand string, maxUpload int64) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Year = 2024
	cfg.RenderCommand = renderCommand
	cfg.RenderDir = dir
	cfg.OutputDir = dir
	cfg.RenderTimeout = 30 * time.Second

	log := logger.NewWithOptions(logger.Options{Environment: "test", Output: &bytes.Buffer{}})
	r, err := render.New(cfg, log)
	require.NoError(t, err)
	proc, err := processor.New(cfg, r, log)
	require.NoError(t, err)
	return NewServer(proc, log, maxUpload), dir
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	return body
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &b, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "true", 0)

	w := serve(s, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t, "true", 0)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := serve(s, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestNotFoundEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "true", 0)

	w := serve(s, httptest.NewRequest("GET", "/nonexistent", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyze_Multipart(t *testing.T) {
	s, _ := newTestServer(t, "true", 1<<20)

	body, contentType := multipartUpload(t, "conversations.json", []byte(exportJSON))
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(s, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res types.AnalysisResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 2, res.TotalConversations)
	assert.Equal(t, "3/15/2024", res.FirstChat)
	assert.Equal(t, 5, res.PolitenessScore)
	assert.Equal(t, "Top themes: coding (1), writing (1)", res.Themes)
}

func TestAnalyze_RawBody(t *testing.T) {
	s, _ := newTestServer(t, "true", 1<<20)

	req := httptest.NewRequest("POST", "/api/analyze?year=2024", strings.NewReader(exportJSON))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var raw map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	assert.Len(t, raw, 14)
	assert.Contains(t, raw, "longestStreak")
}

func TestAnalyze_Errors(t *testing.T) {
	s, _ := newTestServer(t, "true", 1<<20)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		msg    string
	}{
		{"invalid json", "/api/analyze", "{nope", http.StatusBadRequest, "Invalid file format. Please upload a valid JSON file."},
		{"zip upload", "/api/analyze?filename=export.zip", "PK\x03\x04data", http.StatusUnsupportedMediaType, "ZIP files not supported yet. Please upload a JSON file."},
		{"no data for year", "/api/analyze?year=2019", exportJSON, http.StatusUnprocessableEntity, "No conversations found for 2019"},
		{"bad year", "/api/analyze?year=abc", exportJSON, http.StatusBadRequest, "Invalid year"},
		{"bad time zone", "/api/analyze?tz=Mars/Olympus", exportJSON, http.StatusBadRequest, "Invalid time zone"},
		{"empty body", "/api/analyze", "", http.StatusBadRequest, "No file uploaded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(s, httptest.NewRequest("POST", tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.msg, decodeError(t, w).Error)
		})
	}
}

func TestAnalyze_MissingMultipartFile(t *testing.T) {
	s, _ := newTestServer(t, "true", 1<<20)

	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest("POST", "/api/analyze", &b)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decodeError(t, w).Error)
}

func TestAnalyze_TimeZone(t *testing.T) {
	s, _ := newTestServer(t, "true", 1<<20)

	w := serve(s, httptest.NewRequest("POST", "/api/analyze?tz=Asia/Tokyo", strings.NewReader(exportJSON)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res types.AnalysisResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	// 12:00 and 13:00 UTC are 21:00 and 22:00 in Tokyo
	assert.Equal(t, "9:00 PM", res.PeakHour)
}

func TestAnalyze_TooLarge(t *testing.T) {
	s, _ := newTestServer(t, "true", 16)

	w := serve(s, httptest.NewRequest("POST", "/api/analyze", strings.NewReader(exportJSON)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "File too large. Maximum size is 16 bytes.", decodeError(t, w).Error)
}

func TestAnalyze_TooLargeMultipart(t *testing.T) {
	s, _ := newTestServer(t, "true", 64)

	body, contentType := multipartUpload(t, "conversations.json", []byte(exportJSON))
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "File too large. Maximum size is 64 bytes.", decodeError(t, w).Error)
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		16:            "16 bytes",
		1023:          "1023 bytes",
		1024:          "1 KB",
		1500:          "2 KB",
		1 << 20:       "1 MB",
		100 << 20:     "100 MB",
		(1 << 20) + 1: "2 MB",
	}
	for n, want := range cases {
		assert.Equal(t, want, formatSize(n), n)
	}
}

func TestFailLogsError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithOptions(logger.Options{Environment: "production", Output: &buf})
	cfg := config.Default()
	cfg.Timezone = "UTC"
	proc, err := processor.New(cfg, nil, log)
	require.NoError(t, err)
	s := NewServer(proc, log, 1<<20)

	w := serve(s, httptest.NewRequest("POST", "/api/analyze", strings.NewReader("{nope")))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "parse failed" {
			found = true
			assert.Contains(t, entry["error"], "invalid file format")
		}
	}
	assert.True(t, found, buf.String())
}

func TestCreateVideo(t *testing.T) {
	s, dir := newTestServer(t, `sh -c 'printf video > "$2"' fake-render`, 0)

	body, _ := json.Marshal(types.AnalysisResult{TotalConversations: 2})
	w := serve(s, httptest.NewRequest("POST", "/api/create-video", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp videoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Video generated successfully", resp.Message)
	assert.FileExists(t, filepath.Join(dir, resp.Filename))

	w = serve(s, httptest.NewRequest("GET", "/api/video/"+resp.Filename, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, "5", w.Header().Get("Content-Length"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "video", w.Body.String())
}

func TestCreateVideo_Failure(t *testing.T) {
	s, _ := newTestServer(t, `sh -c 'echo renderer crashed >&2; exit 1' fake-render`, 0)

	w := serve(s, httptest.NewRequest("POST", "/api/create-video", strings.NewReader(`{"totalConversations":1}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Video generation failed", body.Error)
	assert.Equal(t, "renderer crashed", body.Details)
}

func TestCreateVideo_BadBody(t *testing.T) {
	s, _ := newTestServer(t, "true", 0)

	w := serve(s, httptest.NewRequest("POST", "/api/create-video", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid analysis data", decodeError(t, w).Error)
}

func TestVideo_Lookup(t *testing.T) {
	s, dir := newTestServer(t, "true", 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	w := serve(s, httptest.NewRequest("GET", "/api/video/notes.txt", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(s, httptest.NewRequest("GET", "/api/video/missing.mp4", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Video not found", decodeError(t, w).Error)
}

func TestReport(t *testing.T) {
	s, _ := newTestServer(t, "true", 0)

	body, _ := json.Marshal(types.AnalysisResult{TotalConversations: 12, Themes: "Coding (3)"})
	w := serve(s, httptest.NewRequest("POST", "/api/report?year=2023", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="chatwrapped-2023.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Themes"}, f.GetSheetList())
}
