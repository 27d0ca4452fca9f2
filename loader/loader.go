// Package loader provides translation dataset loaders. A dataset is a JSON
// object fetched from a path derived from the language code
// (<base>/<code>.<ext>); any transport error, non-2xx status or parse error
// is a load failure the caller falls back from.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// DefaultExt is the dataset file extension used when none is configured.
const DefaultExt = "json"

// HTTP loads datasets over HTTP from BasePath.
type HTTP struct {
	// BasePath is the URL prefix the code-derived file name is appended to,
	// e.g. "https://example.com/locales".
	BasePath string
	// Ext is the file extension without the dot. Defaults to DefaultExt.
	Ext string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// NewHTTP creates an HTTP loader for the given base path.
func NewHTTP(basePath string) *HTTP {
	return &HTTP{BasePath: basePath}
}

// Load fetches and decodes the dataset for a language code.
func (h *HTTP) Load(ctx context.Context, code string) (map[string]any, error) {
	url := strings.TrimRight(h.BasePath, "/") + "/" + code + "." + h.ext()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request for %q: %w", code, err)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset for %q: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch dataset for %q: unexpected status %s", code, resp.Status)
	}

	var dataset map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&dataset); err != nil {
		return nil, fmt.Errorf("decode dataset for %q: %w", code, err)
	}
	return dataset, nil
}

func (h *HTTP) ext() string {
	if h.Ext == "" {
		return DefaultExt
	}
	return h.Ext
}

// FS loads datasets from a file system, typically an embed.FS or os.DirFS.
type FS struct {
	FS fs.FS
	// Dir is the directory holding the dataset files. "." means the root.
	Dir string
	// Ext is the file extension without the dot. Defaults to DefaultExt.
	Ext string
}

// NewFS creates a file-system loader reading <dir>/<code>.json files.
func NewFS(fsys fs.FS, dir string) *FS {
	return &FS{FS: fsys, Dir: dir}
}

// Load reads and decodes the dataset for a language code.
func (f *FS) Load(_ context.Context, code string) (map[string]any, error) {
	ext := f.Ext
	if ext == "" {
		ext = DefaultExt
	}

	data, err := fs.ReadFile(f.FS, path.Join(f.Dir, code+"."+ext))
	if err != nil {
		return nil, fmt.Errorf("read dataset for %q: %w", code, err)
	}

	var dataset map[string]any
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("decode dataset for %q: %w", code, err)
	}
	return dataset, nil
}
