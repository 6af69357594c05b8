package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chatwrapped-go/internal/aggregator"
	"chatwrapped-go/internal/dataset"
	"chatwrapped-go/internal/processor"
	"chatwrapped-go/internal/render"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps a domain error onto a status and a user-facing message.
func fail(w http.ResponseWriter, log *logrus.Entry, err error, fallback string) {
	var (
		parseErr       *dataset.ParseError
		unsupportedErr *dataset.UnsupportedFormatError
		noDataErr      *aggregator.NoDataError
		renderErr      *render.Error
		tooLarge       *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		log.WithError(err).Warn("upload too large")
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %s.", formatSize(tooLarge.Limit)))
	case errors.As(err, &parseErr):
		log.WithError(err).Warn("parse failed")
		writeError(w, http.StatusBadRequest, "Invalid file format. Please upload a valid JSON file.")
	case errors.As(err, &unsupportedErr):
		log.WithError(err).Warn("unsupported upload")
		writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("%s files not supported yet. Please upload a JSON file.", strings.ToUpper(unsupportedErr.Format.String())))
	case errors.As(err, &noDataErr):
		log.WithError(err).Info("no data for year")
		writeError(w, http.StatusUnprocessableEntity, noDataErr.Error())
	case errors.Is(err, render.ErrInvalidVideoName):
		writeError(w, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, render.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, "Video not found")
	case errors.Is(err, processor.ErrRenderingDisabled):
		writeError(w, http.StatusServiceUnavailable, "Video generation is not available")
	case errors.As(err, &renderErr):
		log.WithError(err).Error("video generation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Video generation failed", Details: renderErr.Output})
	default:
		log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// formatSize rounds up to the largest unit that keeps the limit non-zero.
func formatSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%d MB", (n+mb-1)/mb)
	case n >= kb:
		return fmt.Sprintf("%d KB", (n+kb-1)/kb)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
