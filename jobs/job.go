package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by registries for unknown job ids.
var ErrNotFound = errors.New("job not found")

// Status tracks a render job through the pipeline. Transitions are strictly
// forward on success; StatusFailed is reachable from any non-terminal state.
type Status string

const (
	StatusAccepted   Status = "accepted"
	StatusFetching   Status = "fetching"
	StatusAssembling Status = "assembling"
	StatusEncoding   Status = "encoding"
	StatusPublishing Status = "publishing"
	StatusNotifying  Status = "notifying"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is the queryable record of one render, from acceptance to its terminal
// state. The id is returned to the caller so the outcome can be polled.
type Job struct {
	ID     string `json:"job_id"`
	Title  string `json:"title,omitempty"`
	Status Status `json:"status"`
	// Error holds the failure reason, prefixed with the stage it came from.
	Error     string    `json:"error,omitempty"`
	FinalURL  string    `json:"final_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an accepted job with a fresh id.
func New(title string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    StatusAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
