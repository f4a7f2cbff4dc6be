package images

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Memory is an in-process Host used by tests and local development.
type Memory struct {
	mu      sync.Mutex
	Stored  map[string]bool
	Deleted []string
	FailOn  string
}

func NewMemory() *Memory {
	return &Memory{Stored: map[string]bool{}}
}

func (m *Memory) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "https://images.test/" + filename
	m.Stored[url] = true
	return url, nil
}

func (m *Memory) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOn != "" && url == m.FailOn {
		return errors.New("image host unavailable")
	}
	delete(m.Stored, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}
