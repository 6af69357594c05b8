package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// VideoResponse is the body of a successful create-video call.
type VideoResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

var errEmptyBody = errors.New("empty body")

// Client talks to a running ChatWrapped API. Analyze and downloads retry 5xx
// answers and transport errors with exponential backoff; 4xx answers are
// final. CreateVideo is sent exactly once since every attempt starts a render.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry

	InitialInterval time.Duration
	MaxElapsed      time.Duration
	// RequestTimeout bounds one analyze attempt.
	RequestTimeout time.Duration
	// RenderTimeout bounds the create-video call and should exceed the
	// server's own render timeout.
	RenderTimeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{},
		log:             logger.New().WithField("module", "client"),
		InitialInterval: backoff.DefaultInitialInterval,
		MaxElapsed:      30 * time.Second,
		RequestTimeout:  2 * time.Minute,
		RenderTimeout:   11 * time.Minute,
	}
}

// Analyze uploads an export and returns the server's summary. An empty tz
// leaves the zone to the server.
func (c *Client) Analyze(ctx context.Context, filename string, data []byte, year int, tz string) (types.AnalysisResult, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	if _, err := part.Write(data); err != nil {
		return types.AnalysisResult{}, err
	}
	_ = w.Close()

	endpoint := c.baseURL + "/api/analyze"
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if tz != "" {
		q.Set("tz", tz)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	body := b.Bytes()
	var out types.AnalysisResult
	op := func() error {
		attemptCtx, cancel := withTimeout(ctx, c.RequestTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return retryable(c.doJSON(req, &out))
	}
	return out, c.retry(ctx, op)
}

// CreateVideo asks the server to render a video for res. It is never retried.
func (c *Client) CreateVideo(ctx context.Context, res types.AnalysisResult) (VideoResponse, error) {
	body, err := json.Marshal(res)
	if err != nil {
		return VideoResponse{}, err
	}
	ctx, cancel := withTimeout(ctx, c.RenderTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create-video", bytes.NewReader(body))
	if err != nil {
		return VideoResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out VideoResponse
	if err := c.doJSON(req, &out); err != nil {
		return VideoResponse{}, fmt.Errorf("create video: %w", err)
	}
	return out, nil
}

// DownloadVideo streams a rendered video into dst.
func (c *Client) DownloadVideo(ctx context.Context, filename string, dst io.Writer) (int64, error) {
	endpoint := c.baseURL + "/api/video/" + url.PathEscape(filename)
	var n int64
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return retryable(err)
		}
		n, err = io.Copy(dst, resp.Body)
		if err != nil {
			// dst may hold a partial copy
			return backoff.Permanent(fmt.Errorf("download video: %w", err))
		}
		return nil
	}
	return n, c.retry(ctx, op)
}

// doJSON sends req once and decodes a successful answer into target.
func (c *Client) doJSON(req *http.Request, target interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("json decode error: %v body=%s", err, string(body))
	}
	return nil
}

// retryable marks everything but 5xx answers, transport errors and empty
// bodies as permanent.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode >= 500 {
			return err
		}
		return backoff.Permanent(err)
	}
	var ue *url.Error
	if errors.As(err, &ue) || errors.Is(err, errEmptyBody) {
		return err
	}
	return backoff.Permanent(err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (c *Client) retry(ctx context.Context, op backoff.Operation) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.InitialInterval
	bo.MaxElapsedTime = c.MaxElapsed
	notify := func(err error, wait time.Duration) {
		c.log.WithError(err).WithField("retry_in", wait.String()).Warn("request failed, retrying")
	}
	return backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify)
}

// checkStatus turns error answers into a StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
}

func errorMessage(body []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		return env.Error
	}
	return strings.TrimSpace(string(body))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
