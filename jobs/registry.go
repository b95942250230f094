package jobs

import (
	"context"
	"sync"
	"time"
)

// Registry stores job records so callers can poll render outcomes.
type Registry interface {
	Create(ctx context.Context, job *Job) error
	SetStatus(ctx context.Context, id string, status Status) error
	// Fail marks the job failed with the given reason.
	Fail(ctx context.Context, id string, reason string) error
	// Complete marks the job completed and records the published URL.
	Complete(ctx context.Context, id string, finalURL string) error
	Get(ctx context.Context, id string) (*Job, error)
}

// MemoryRegistry is the default in-process registry. Records do not survive
// a restart, matching the service's single-process deployment.
type MemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{jobs: make(map[string]*Job)}
}

func (r *MemoryRegistry) Create(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

func (r *MemoryRegistry) SetStatus(ctx context.Context, id string, status Status) error {
	return r.update(id, func(j *Job) {
		j.Status = status
	})
}

func (r *MemoryRegistry) Fail(ctx context.Context, id string, reason string) error {
	return r.update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = reason
	})
}

func (r *MemoryRegistry) Complete(ctx context.Context, id string, finalURL string) error {
	return r.update(id, func(j *Job) {
		j.Status = StatusCompleted
		j.FinalURL = finalURL
	})
}

func (r *MemoryRegistry) Get(ctx context.Context, id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *MemoryRegistry) update(id string, fn func(*Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
	return nil
}
