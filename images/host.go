// Package images stores catalog images with a hosting provider and removes
// them again when the owning row is deleted.
package images

import (
	"context"
	"io"
	"path"
	"strings"
)

type Host interface {
	// Upload stores the image and returns its public URL.
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	// Delete removes the image behind url. Deleting an image that is
	// already gone is not an error.
	Delete(ctx context.Context, url string) error
}

// DeleteAll removes every url, stopping at the first failure.
func DeleteAll(ctx context.Context, host Host, urls ...string) error {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := host.Delete(ctx, url); err != nil {
			return err
		}
	}
	return nil
}

// PublicID extracts the provider id from an image URL: the last path
// segment without its extension, prefixed by folder when set.
func PublicID(url, folder string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	base := path.Base(url)
	id := strings.TrimSuffix(base, path.Ext(base))
	if folder != "" {
		return folder + "/" + id
	}
	return id
}
