package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"chatwrapped-go/internal/config"
	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const videoExt = ".mp4"

// stderrTail bounds how much renderer output is echoed back in errors.
const stderrTail = 2048

var (
	ErrInvalidVideoName = errors.New("invalid video file name")
	ErrVideoNotFound    = errors.New("video not found")
)

// Error reports a failed render with the tail of the process output.
type Error struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *Error) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("video generation failed: %v", e.Err)
	}
	return fmt.Sprintf("video generation failed: %v: %s", e.Err, e.Output)
}

func (e *Error) Unwrap() error { return e.Err }

// Props is the document the composition receives.
type Props struct {
	AnalysisData types.AnalysisResult `json:"analysisData"`
	Schedule     Schedule             `json:"schedule"`
}

// Artifact describes a rendered video on disk.
type Artifact struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Path       string `json:"-"`
	DurationMs int64  `json:"duration_ms"`
}

// Renderer runs the external video renderer once per call. There is no
// retry and no deduplication of concurrent renders.
type Renderer struct {
	command     []string
	dir         string
	outputDir   string
	composition string
	timeout     time.Duration
	schedule    Schedule
	log         *logrus.Entry
}

func New(cfg config.Config, log *logger.Logger) (*Renderer, error) {
	command, err := cfg.RenderArgs()
	if err != nil {
		return nil, err
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}
	if log == nil {
		log = logger.New()
	}
	return &Renderer{
		command:     command,
		dir:         cfg.RenderDir,
		outputDir:   outputDir,
		composition: cfg.Composition,
		timeout:     cfg.RenderTimeout,
		schedule:    DefaultSchedule(),
		log:         log.WithField("component", "render"),
	}, nil
}

// Render invokes: <command...> <composition> <output.mp4> --props <props.json>
func (r *Renderer) Render(ctx context.Context, res types.AnalysisResult) (Artifact, error) {
	start := time.Now()
	id := uuid.New().String()
	art := Artifact{ID: id, Filename: "chatwrapped-" + id + videoExt}
	art.Path = filepath.Join(r.outputDir, art.Filename)
	log := r.log.WithField("render_id", id)

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return art, fmt.Errorf("create output dir: %w", err)
	}
	propsPath, err := r.writeProps(id, res)
	if err != nil {
		return art, err
	}
	defer func() {
		if err := os.Remove(propsPath); err != nil {
			log.WithError(err).Warn("could not delete props file")
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.command[1:]...), r.composition, art.Path, "--props", propsPath)
	cmd := exec.CommandContext(ctx, r.command[0], args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.WithFields(logrus.Fields{"command": r.command[0], "dir": r.dir, "output": art.Path}).Info("starting video generation")
	runErr := cmd.Run()
	art.DurationMs = time.Since(start).Milliseconds()
	log.WithField("duration_ms", art.DurationMs).Debug("renderer output:\n" + stdout.String())

	if runErr != nil {
		e := &Error{ExitCode: -1, Output: tail(stderr.String()), Err: runErr}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			e.ExitCode = exitErr.ExitCode()
		}
		log.WithField("exit_code", e.ExitCode).WithError(runErr).Error("video generation failed")
		return art, e
	}
	if _, err := os.Stat(art.Path); err != nil {
		log.Error("video file not found after generation")
		return art, &Error{Output: tail(stdout.String()), Err: errors.New("video file not found after generation")}
	}
	log.WithField("duration_ms", art.DurationMs).Info("video generated")
	return art, nil
}

func (r *Renderer) writeProps(id string, res types.AnalysisResult) (string, error) {
	data, err := json.MarshalIndent(Props{AnalysisData: res, Schedule: r.schedule}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode props: %w", err)
	}
	path := filepath.Join(r.outputDir, "analysis-"+id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write props: %w", err)
	}
	return path, nil
}

// Open resolves a rendered video by file name. Only bare .mp4 names are accepted.
func (r *Renderer) Open(filename string) (string, error) {
	if !strings.HasSuffix(filename, videoExt) || filepath.Base(filename) != filename || strings.HasPrefix(filename, ".") {
		return "", ErrInvalidVideoName
	}
	path := filepath.Join(r.outputDir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrVideoNotFound
	}
	return path, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		return s[len(s)-stderrTail:]
	}
	return s
}
