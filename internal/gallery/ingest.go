// Package gallery turns batches of selected image files into ordered inline
// image payloads for a voyage's photo gallery.
//
// Order is user-meaningful: the first gallery entry is the record's cover.
// Reads run concurrently but the output always matches the input file order,
// never read-completion order. A batch is atomic: any single read failure
// fails the whole batch and leaves the existing gallery untouched.
package gallery

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Ingestor reads image files into data-URL payloads. The zero value is not
// usable; construct with New.
type Ingestor struct {
	// ReadFile is swappable for tests and alternative file surfaces
	// (drag-and-drop handlers hand over paths, not open handles).
	ReadFile func(name string) ([]byte, error)
}

// New returns an Ingestor backed by the local filesystem.
func New() *Ingestor {
	return &Ingestor{ReadFile: os.ReadFile}
}

// Ingest filters the batch to image-typed files, reads each concurrently and
// returns existing with the new payloads appended in input order. When no
// image files remain after filtering, existing is returned unchanged. On any
// read failure the whole batch is abandoned and existing is returned with
// the error.
func (ing *Ingestor) Ingest(ctx context.Context, paths []string, existing []string) ([]string, error) {
	accepted := make([]string, 0, len(paths))
	for _, p := range paths {
		if isImagePath(p) {
			accepted = append(accepted, p)
		}
	}
	if len(accepted) == 0 {
		return existing, nil
	}

	payloads := make([]string, len(accepted))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range accepted {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := ing.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", filepath.Base(path), err)
			}
			payloads[i] = encodeDataURL(path, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return existing, err
	}

	merged := make([]string, 0, len(existing)+len(payloads))
	merged = append(merged, existing...)
	merged = append(merged, payloads...)
	return merged, nil
}

// Remove drops the image at index, preserving the order of the remainder.
// The cover is whatever ends up first; removing the only element leaves an
// empty gallery and therefore no cover.
func Remove(gallery []string, index int) []string {
	if index < 0 || index >= len(gallery) {
		return gallery
	}
	out := make([]string, 0, len(gallery)-1)
	out = append(out, gallery[:index]...)
	out = append(out, gallery[index+1:]...)
	return out
}

// Cover returns the gallery's representative image, empty when there is none.
func Cover(gallery []string) string {
	if len(gallery) == 0 {
		return ""
	}
	return gallery[0]
}

func isImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "image/")
}

func encodeDataURL(path string, data []byte) string {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	// Strip charset parameters; data URLs carry the bare media type here.
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
