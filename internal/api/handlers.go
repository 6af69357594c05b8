package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"

	"chatwrapped-go/internal/report"
	"chatwrapped-go/internal/types"
	"github.com/go-chi/chi/v5"
)

const defaultUploadName = "conversations.json"

type videoResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// analyze accepts a multipart "file" field or the raw export as the body.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "analyze")

	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	loc, ok := locationParam(w, r)
	if !ok {
		return
	}
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	name, data, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, log, err, "")
			return
		}
		log.WithError(err).Warn("unreadable upload")
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	if data == nil {
		log.Warn("no file uploaded")
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	log = log.WithField("file", name).WithField("bytes", len(data))

	res, err := s.proc.Analyze(name, data, year, loc)
	if err != nil {
		fail(w, log, err, "Failed to analyze data")
		return
	}
	log.WithField("duration_ms", res.DurationMs).Info("analysis served")
	writeJSON(w, http.StatusOK, res.Analysis)
}

func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return "", nil, err
		}
		file, header, err := r.FormFile("file")
		if err == http.ErrMissingFile {
			return "", nil, nil
		}
		if err != nil {
			return "", nil, err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, err
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, nil
	}
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = defaultUploadName
	}
	return name, data, nil
}

// yearParam reads ?year=; 0 means the server default.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}

// locationParam reads ?tz= as an IANA zone; nil means the server default.
func locationParam(w http.ResponseWriter, r *http.Request) (*time.Location, bool) {
	raw := r.URL.Query().Get("tz")
	if raw == "" {
		return nil, true
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time zone")
		return nil, false
	}
	return loc, true
}

func decodeAnalysis(w http.ResponseWriter, r *http.Request) (types.AnalysisResult, bool) {
	var res types.AnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid analysis data")
		return res, false
	}
	return res, true
}

func (s *Server) createVideo(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "create-video")
	res, ok := decodeAnalysis(w, r)
	if !ok {
		return
	}

	art, err := s.proc.CreateVideo(r.Context(), res)
	if err != nil {
		fail(w, log, err, "Video generation failed")
		return
	}
	log.WithField("filename", art.Filename).WithField("duration_ms", art.DurationMs).Info("video ready")
	writeJSON(w, http.StatusOK, videoResponse{
		Success:  true,
		Filename: art.Filename,
		Message:  "Video generated successfully",
	})
}

func (s *Server) video(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "video")
	path, err := s.proc.OpenVideo(chi.URLParam(r, "filename"))
	if err != nil {
		fail(w, log, err, "Failed to serve video")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		fail(w, log, err, "Failed to serve video")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		fail(w, log, err, "Failed to serve video")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		log.WithError(err).Warn("video stream interrupted")
	}
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "report")
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	year = s.proc.ResolveYear(year)
	res, ok := decodeAnalysis(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, res, year); err != nil {
		fail(w, log, err, "Failed to build report")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="chatwrapped-%d.xlsx"`, year))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
