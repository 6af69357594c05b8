package processor

import (
	"context"
	"errors"

	"chatwrapped-go/internal/render"
	"chatwrapped-go/internal/types"
)

var ErrRenderingDisabled = errors.New("video rendering is not configured")

// CreateVideo renders one video for an already computed summary.
func (p *Processor) CreateVideo(ctx context.Context, res types.AnalysisResult) (render.Artifact, error) {
	if p.renderer == nil {
		return render.Artifact{}, ErrRenderingDisabled
	}
	p.log.WithField("total_conversations", res.TotalConversations).Info("video generation requested")
	return p.renderer.Render(ctx, res)
}

// OpenVideo resolves a rendered video's path on disk.
func (p *Processor) OpenVideo(filename string) (string, error) {
	if p.renderer == nil {
		return "", ErrRenderingDisabled
	}
	return p.renderer.Open(filename)
}
