package site

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"video-gallery/shared/months"
)

// BuildResult summarises a static build.
type BuildResult struct {
	Months    int
	Videos    int
	Redirects int
	Assets    int
}

// Build writes the static gallery to outDir: the newest month as index.html,
// one page per month and a redirect stub for every month between the oldest
// and newest, so /go/<key>/ always lands on a page.
func (r *Renderer) Build(outDir string, g *Gallery, assetDir string) (*BuildResult, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BuildResult{Months: len(g.Keys()), Videos: g.VideoCount()}

	newest, err := g.Newest()
	if err != nil {
		log.Printf("Warning: %v, writing empty gallery", err)
		newest = ""
	}
	if err := r.writePage(filepath.Join(outDir, "index.html"), func(w io.Writer) error {
		return r.RenderMonth(w, g, newest, nil)
	}); err != nil {
		return nil, err
	}

	for _, key := range g.Keys() {
		path := filepath.Join(outDir, "months", key, "index.html")
		if err := r.writePage(path, func(w io.Writer) error {
			return r.RenderMonth(w, g, key, nil)
		}); err != nil {
			return nil, err
		}
	}

	for _, key := range months.Span(g.Keys()) {
		target, ok := g.Resolve(key)
		if !ok {
			continue
		}
		path := filepath.Join(outDir, "go", key, "index.html")
		if err := r.writePage(path, func(w io.Writer) error {
			return r.RenderRedirect(w, target)
		}); err != nil {
			return nil, err
		}
		result.Redirects++
	}

	if assetDir != "" {
		n, err := copyTree(assetDir, filepath.Join(outDir, "assets"))
		if err != nil {
			return nil, err
		}
		result.Assets = n
	}

	return result, nil
}

func (r *Renderer) writePage(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// copyTree copies regular files from src into dst. A missing src is not an
// error.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		log.Printf("Warning: asset directory %s does not exist, skipping", src)
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to copy assets: %w", err)
	}
	return copied, nil
}
