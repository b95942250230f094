package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"renderbot/config"
	"renderbot/types"
)

// ObjectStore is the slice of the S3 wrapper the publisher needs.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// R2Publisher uploads render artifacts to object storage under a fresh
// renders/<uuid>.mp4 key and derives the public URL from the configured base.
type R2Publisher struct {
	store         ObjectStore
	bucket        string
	publicBaseURL string
}

func NewR2Publisher(store ObjectStore, bucket, publicBaseURL string) *R2Publisher {
	return &R2Publisher{
		store:         store,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (p *R2Publisher) Publish(ctx context.Context, artifactPath string) (types.PublishedArtifact, error) {
	var artifact types.PublishedArtifact

	f, err := os.Open(artifactPath)
	if err != nil {
		return artifact, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	// Published keys are never reused; regenerate if the key is somehow taken.
	key := RenderKey()
	if exists, err := p.store.Exists(ctx, p.bucket, key); err == nil && exists {
		key = RenderKey()
	}

	if err := p.store.Put(ctx, p.bucket, key, f, config.OutputContentType); err != nil {
		return artifact, fmt.Errorf("upload %s: %w", key, err)
	}

	artifact.StorageKey = key
	artifact.PublicURL = p.publicBaseURL + "/" + key
	return artifact, nil
}

// RenderKey generates a globally unique storage key for one published render.
func RenderKey() string {
	return config.RenderKeyPrefix + uuid.NewString() + config.OutputExtension
}
