package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"renderbot/types"
)

// ClipAsset pairs a fetched local file with the clip it came from.
type ClipAsset struct {
	Clip types.Clip
	Path string
}

// Manifest is the ordered encoder input: the video assets in final order and
// the concat list file the encoder reads them from.
type Manifest struct {
	Videos   []ClipAsset
	ListPath string
}

// PlanAssembly orders the fetched clips by scene number and writes the concat
// list file into dir. The sort is stable: clips sharing a scene number keep
// their original request order.
func PlanAssembly(assets []ClipAsset, dir string) (*Manifest, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyManifest
	}

	ordered := make([]ClipAsset, len(assets))
	copy(ordered, assets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Clip.SceneNum < ordered[j].Clip.SceneNum
	})

	listPath := filepath.Join(dir, "videos.txt")
	var b strings.Builder
	for _, asset := range ordered {
		fmt.Fprintf(&b, "file '%s'\n", asset.Path)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write concat list: %w", err)
	}

	return &Manifest{Videos: ordered, ListPath: listPath}, nil
}
