package images

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// Disk keeps images in a local directory that the server exposes under
// /uploads.
type Disk struct {
	Dir           string
	PublicBaseURL string
}

func NewDisk(dir, publicBaseURL string) *Disk {
	return &Disk{Dir: dir, PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (d *Disk) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(d.Dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), cleanFilename(filename))
	out, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s", d.PublicBaseURL, name), nil
}

func (d *Disk) Delete(ctx context.Context, url string) error {
	localPath := filepath.Join(d.Dir, filepath.Base(url))
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// cleanFilename drops repeated image extensions and unsafe characters.
func cleanFilename(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		e := strings.ToLower(filepath.Ext(base))
		if e != ".jpg" && e != ".jpeg" && e != ".png" && e != ".gif" && e != ".webp" {
			break
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.ReplaceAll(base, " ", "_")
	return unsafeChars.ReplaceAllString(base+ext, "_")
}
