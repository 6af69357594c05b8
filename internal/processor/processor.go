package processor

import (
	"context"
	"time"

	"chatwrapped-go/internal/aggregator"
	"chatwrapped-go/internal/config"
	"chatwrapped-go/internal/dataset"
	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/render"
	"chatwrapped-go/internal/types"
	"github.com/sirupsen/logrus"
)

// Result is returned by the analyze flow.
type Result struct {
	Analysis   types.AnalysisResult `json:"analysis"`
	Summary    dataset.Summary      `json:"summary"`
	Year       int                  `json:"year"`
	DurationMs int64                `json:"duration_ms"`
}

// VideoRenderer produces and looks up rendered videos.
type VideoRenderer interface {
	Render(ctx context.Context, res types.AnalysisResult) (render.Artifact, error)
	Open(filename string) (string, error)
}

// Processor ties parsing, aggregation and rendering together for one request.
type Processor struct {
	loc      *time.Location
	year     int
	renderer VideoRenderer
	log      *logrus.Entry
	now      func() time.Time
}

func New(cfg config.Config, renderer VideoRenderer, log *logger.Logger) (*Processor, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New()
	}
	return &Processor{
		loc:      loc,
		year:     cfg.Year,
		renderer: renderer,
		log:      log.WithField("component", "processor"),
		now:      time.Now,
	}, nil
}

// Location is the zone used for local-time buckets.
func (p *Processor) Location() *time.Location { return p.loc }

// ResolveYear picks the requested year, then the configured one, then the current year.
func (p *Processor) ResolveYear(requested int) int {
	return p.resolveYear(requested, p.loc)
}

func (p *Processor) resolveYear(requested int, loc *time.Location) int {
	if requested > 0 {
		return requested
	}
	if p.year > 0 {
		return p.year
	}
	return aggregator.CurrentYear(p.now(), loc)
}

// Analyze decodes an uploaded export and computes the yearly summary.
// A nil loc means the configured zone.
func (p *Processor) Analyze(name string, data []byte, year int, loc *time.Location) (Result, error) {
	start := time.Now()
	if loc == nil {
		loc = p.loc
	}
	res := Result{Year: p.resolveYear(year, loc)}
	log := p.log.WithFields(logrus.Fields{"file": name, "bytes": len(data), "year": res.Year, "tz": loc.String()})

	records, err := dataset.Decode(name, data)
	if err != nil {
		res.DurationMs = time.Since(start).Milliseconds()
		log.WithError(err).Warn("decode failed")
		return res, err
	}
	res.Summary = dataset.Summarize(records)
	log = log.WithField("conversations", res.Summary.TotalConversations)

	analysis, err := aggregator.Analyze(records, aggregator.Options{Year: res.Year, Location: loc})
	res.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		log.WithError(err).Warn("analysis failed")
		return res, err
	}
	res.Analysis = analysis
	log.WithFields(logrus.Fields{
		"in_year":     analysis.TotalConversations,
		"duration_ms": res.DurationMs,
	}).Info("analysis complete")
	return res, nil
}
