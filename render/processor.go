package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"renderbot/config"
	"renderbot/jobs"
	"renderbot/types"
)

// Fetcher retrieves a remote resource into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Encoder produces one muxed output file from the ordered video list and the
// narration track.
type Encoder interface {
	Encode(ctx context.Context, listPath, narrationPath, outputPath string) error
}

// Publisher uploads a local artifact to durable storage.
type Publisher interface {
	Publish(ctx context.Context, artifactPath string) (types.PublishedArtifact, error)
}

// Notifier delivers the completion callback.
type Notifier interface {
	Notify(ctx context.Context, webhookURL, finalURL string) error
}

// Processor runs accepted render requests as background jobs with bounded
// concurrency. Each job owns an isolated scratch directory that is removed on
// every exit path.
type Processor struct {
	fetcher   Fetcher
	encoder   Encoder
	publisher Publisher
	notifier  Notifier
	registry  jobs.Registry
	cfg       *config.Config

	semaphore chan struct{}
	wg        sync.WaitGroup
}

func NewProcessor(fetcher Fetcher, encoder Encoder, publisher Publisher, notifier Notifier, registry jobs.Registry, cfg *config.Config) *Processor {
	bound := cfg.MaxConcurrentRenders
	if bound < 1 {
		bound = 1
	}
	return &Processor{
		fetcher:   fetcher,
		encoder:   encoder,
		publisher: publisher,
		notifier:  notifier,
		registry:  registry,
		cfg:       cfg,
		semaphore: make(chan struct{}, bound),
	}
}

// Submit registers a job for the request and starts it in the background.
// It returns the job id immediately; the render itself runs out-of-band so
// the request path never blocks on it.
func (p *Processor) Submit(ctx context.Context, req types.RenderRequest) (string, error) {
	job := jobs.New(req.Title)
	if err := p.registry.Create(ctx, job); err != nil {
		return "", fmt.Errorf("register job: %w", err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.semaphore <- struct{}{}
		defer func() { <-p.semaphore }()

		// The job deliberately detaches from the request context: the
		// caller already got its acceptance response.
		p.run(context.Background(), job.ID, req)
	}()

	return job.ID, nil
}

// Wait blocks until all in-flight jobs have finished.
func (p *Processor) Wait() {
	p.wg.Wait()
}

func (p *Processor) run(ctx context.Context, jobID string, req types.RenderRequest) {
	log.Printf("[job %s] render started (%d clips)", jobID, len(req.VideoClips))

	artifact, err := p.render(ctx, jobID, req)
	if err != nil {
		p.fail(ctx, jobID, err)
		return
	}

	p.complete(ctx, jobID, artifact.PublicURL)
	log.Printf("[job %s] render complete: %s", jobID, artifact.PublicURL)
}

func (p *Processor) render(ctx context.Context, jobID string, req types.RenderRequest) (types.PublishedArtifact, error) {
	var artifact types.PublishedArtifact

	scratch, err := os.MkdirTemp(p.cfg.ScratchDir, "render-"+jobID+"-")
	if err != nil {
		return artifact, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	// Fetching: clips and narration are independent, so they download in
	// parallel; the first failure cancels the rest.
	p.setStatus(ctx, jobID, jobs.StatusFetching)

	assets := make([]ClipAsset, len(req.VideoClips))
	g, gctx := errgroup.WithContext(ctx)
	for i, clip := range req.VideoClips {
		dest := filepath.Join(scratch, fmt.Sprintf("scene_%d_%d%s", clip.SceneNum, i, config.OutputExtension))
		assets[i] = ClipAsset{Clip: clip, Path: dest}
		g.Go(func() error {
			return withRetry(gctx, p.cfg.FetchAttempts, p.cfg.RetryBaseDelay, func() error {
				return p.fetcher.Fetch(gctx, clip.URL, dest)
			})
		})
	}

	narrationPath := filepath.Join(scratch, "narration.mp3")
	g.Go(func() error {
		return withRetry(gctx, p.cfg.FetchAttempts, p.cfg.RetryBaseDelay, func() error {
			return p.fetcher.Fetch(gctx, req.NarrationURL, narrationPath)
		})
	})

	if err := g.Wait(); err != nil {
		return artifact, stageErr(StageFetch, err)
	}

	// Assembling
	p.setStatus(ctx, jobID, jobs.StatusAssembling)
	manifest, err := PlanAssembly(assets, scratch)
	if err != nil {
		return artifact, stageErr(StageAssemble, err)
	}

	// Encoding
	p.setStatus(ctx, jobID, jobs.StatusEncoding)
	outputPath := filepath.Join(scratch, "final"+config.OutputExtension)
	if err := p.encoder.Encode(ctx, manifest.ListPath, narrationPath, outputPath); err != nil {
		return artifact, stageErr(StageEncode, err)
	}

	// Publishing
	p.setStatus(ctx, jobID, jobs.StatusPublishing)
	err = withRetry(ctx, p.cfg.PublishAttempts, p.cfg.RetryBaseDelay, func() error {
		a, err := p.publisher.Publish(ctx, outputPath)
		if err != nil {
			return err
		}
		artifact = a
		return nil
	})
	if err != nil {
		return types.PublishedArtifact{}, stageErr(StagePublish, err)
	}

	// Notifying: the artifact is already durably published, so a delivery
	// failure is logged but does not fail the job.
	if req.Webhook != "" {
		p.setStatus(ctx, jobID, jobs.StatusNotifying)
		err := withRetry(ctx, p.cfg.NotifyAttempts, p.cfg.RetryBaseDelay, func() error {
			return p.notifier.Notify(ctx, req.Webhook, artifact.PublicURL)
		})
		if err != nil {
			log.Printf("[job %s] webhook delivery failed: %v", jobID, stageErr(StageNotify, err))
		}
	}

	return artifact, nil
}

func (p *Processor) setStatus(ctx context.Context, jobID string, status jobs.Status) {
	if err := p.registry.SetStatus(ctx, jobID, status); err != nil {
		log.Printf("[job %s] status update failed: %v", jobID, err)
	}
}

func (p *Processor) fail(ctx context.Context, jobID string, cause error) {
	log.Printf("[job %s] render failed: %v", jobID, cause)
	if err := p.registry.Fail(ctx, jobID, cause.Error()); err != nil {
		log.Printf("[job %s] status update failed: %v", jobID, err)
	}
}

func (p *Processor) complete(ctx context.Context, jobID, finalURL string) {
	if err := p.registry.Complete(ctx, jobID, finalURL); err != nil {
		log.Printf("[job %s] status update failed: %v", jobID, err)
	}
}
