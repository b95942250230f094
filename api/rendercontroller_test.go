package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"renderbot/config"
	"renderbot/jobs"
	"renderbot/render"
	"renderbot/types"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, url, dest string) error {
	return os.WriteFile(dest, []byte("media"), 0o644)
}

// gateEncoder blocks until released so tests can observe in-flight jobs.
type gateEncoder struct {
	gate chan struct{}
}

func newGateEncoder() *gateEncoder {
	return &gateEncoder{gate: make(chan struct{})}
}

func (e *gateEncoder) Encode(ctx context.Context, listPath, narrationPath, outputPath string) error {
	<-e.gate
	return os.WriteFile(outputPath, []byte("encoded"), 0o644)
}

func (e *gateEncoder) release() { close(e.gate) }

type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, artifactPath string) (types.PublishedArtifact, error) {
	return types.PublishedArtifact{
		StorageKey: "renders/test.mp4",
		PublicURL:  "https://media.example.com/renders/test.mp4",
	}, nil
}

type stubNotifier struct{}

func (stubNotifier) Notify(ctx context.Context, webhookURL, finalURL string) error { return nil }

type apiFixture struct {
	router    *gin.Engine
	registry  *jobs.MemoryRegistry
	processor *render.Processor
	encoder   *gateEncoder
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := jobs.NewMemoryRegistry()
	encoder := newGateEncoder()
	cfg := &config.Config{
		ScratchDir:           t.TempDir(),
		MaxConcurrentRenders: 2,
		FetchAttempts:        1,
		PublishAttempts:      1,
		NotifyAttempts:       1,
		RetryBaseDelay:       time.Millisecond,
	}
	proc := render.NewProcessor(stubFetcher{}, encoder, stubPublisher{}, stubNotifier{}, registry, cfg)

	return &apiFixture{
		router:    NewRouter(proc, registry),
		registry:  registry,
		processor: proc,
		encoder:   encoder,
	}
}

func (f *apiFixture) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	defer f.encoder.release()

	w := f.request(http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`health status = %q, want "ok"`, body["status"])
	}
}

func TestRenderAcceptedBeforeEncodingFinishes(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(http.MethodPost, "/render", `{
		"title": "launch recap",
		"videoClips": [
			{"url": "https://cdn.example.com/scene2.mp4", "duration": 8, "sceneNum": 2},
			{"url": "https://cdn.example.com/scene1.mp4", "duration": 8, "sceneNum": 1}
		],
		"narrationUrl": "https://cdn.example.com/narration.mp3"
	}`)

	if w.Code != http.StatusAccepted {
		t.Fatalf("POST /render status = %d, want 202 (body: %s)", w.Code, w.Body.String())
	}

	var resp RenderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Status != "processing" {
		t.Errorf(`response status = %q, want "processing"`, resp.Status)
	}
	if resp.JobID == "" {
		t.Fatal("response must carry a job id")
	}

	// The response arrived while the encoder is still gated, so the job
	// cannot be terminal yet.
	job, err := f.registry.Get(context.Background(), resp.JobID)
	if err != nil {
		t.Fatalf("job not registered: %v", err)
	}
	if job.Status == jobs.StatusCompleted || job.Status == jobs.StatusFailed {
		t.Errorf("job already terminal (%s) before encoder released", job.Status)
	}

	f.encoder.release()
	f.processor.Wait()

	job, _ = f.registry.Get(context.Background(), resp.JobID)
	if job.Status != jobs.StatusCompleted {
		t.Errorf("job status = %s, want completed (error: %s)", job.Status, job.Error)
	}
}

func TestRenderRejectsMalformedJSON(t *testing.T) {
	f := newAPIFixture(t)
	defer f.encoder.release()

	w := f.request(http.MethodPost, "/render", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRenderRejectsEmptyClipList(t *testing.T) {
	f := newAPIFixture(t)
	defer f.encoder.release()

	w := f.request(http.MethodPost, "/render", `{
		"title": "empty",
		"videoClips": [],
		"narrationUrl": "https://cdn.example.com/narration.mp3"
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRenderRejectsMissingNarration(t *testing.T) {
	f := newAPIFixture(t)
	defer f.encoder.release()

	w := f.request(http.MethodPost, "/render", `{
		"title": "silent",
		"videoClips": [{"url": "https://cdn.example.com/scene1.mp4", "sceneNum": 1}]
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRenderStatusEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	defer f.encoder.release()

	job := jobs.New("status check")
	f.registry.Create(context.Background(), job)
	f.registry.SetStatus(context.Background(), job.ID, jobs.StatusEncoding)

	w := f.request(http.MethodGet, "/render/"+job.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got jobs.Job
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.ID != job.ID || got.Status != jobs.StatusEncoding {
		t.Errorf("got job %+v", got)
	}
}

func TestRenderStatusUnknownJob(t *testing.T) {
	f := newAPIFixture(t)
	defer f.encoder.release()

	w := f.request(http.MethodGet, "/render/does-not-exist", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
