package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"renderbot/config"
)

// HTTPFetcher downloads remote media into local scratch files. Bodies are
// streamed to disk in fixed-size chunks so memory stays bounded regardless of
// file size or whether the server reports a content length.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: http.DefaultClient}
}

// Fetch retrieves url and writes it to dest. The destination directory must
// already exist and be writable.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.CopyBuffer(out, resp.Body, make([]byte, config.FetchChunkSize)); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}
