// Package documents reads document templates from the template container
// and writes generated documents to the output container.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/storage"
)

// TemplateStatus reports whether a configured template blob exists.
type TemplateStatus struct {
	Name      string `json:"name"`
	Key       string `json:"key"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Store adapts the two blob containers to template and output operations.
type Store struct {
	templates storage.System
	output    storage.System
	keys      map[string]string
	prefix    string
	logger    *slog.Logger
}

// New creates a Store. cfg must be finalized.
func New(templates, output storage.System, cfg *Config, logger *slog.Logger) *Store {
	return &Store{
		templates: templates,
		output:    output,
		keys:      cfg.Templates,
		prefix:    cfg.OutputPrefix,
		logger:    logger.With("system", "documents"),
	}
}

// Key returns the blob key configured for a template name, or the name
// itself when it already names a blob.
func (s *Store) Key(name string) (string, error) {
	if key, ok := s.keys[name]; ok {
		return key, nil
	}
	for _, key := range s.keys {
		if key == name {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
}

// FetchTemplate downloads the template registered under name.
func (s *Store) FetchTemplate(ctx context.Context, name string) ([]byte, error) {
	key, err := s.Key(name)
	if err != nil {
		return nil, err
	}

	rc, err := s.templates.Download(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch template %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}

	s.logger.DebugContext(ctx, "template fetched", "name", name, "key", key, "size", len(data))
	return data, nil
}

// StoreOutput uploads data under name and returns the blob URL.
func (s *Store) StoreOutput(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}

	if err := s.output.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}

	location, err := s.output.URL(key)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "output stored", "key", key, "size", len(data))
	return location, nil
}

// Templates checks every configured template concurrently.
func (s *Store) Templates(ctx context.Context) ([]TemplateStatus, error) {
	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	slices.Sort(names)

	statuses := make([]TemplateStatus, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			key := s.keys[name]
			ok, err := s.templates.Exists(gctx, key)
			statuses[i] = TemplateStatus{Name: name, Key: key, Available: ok}
			if err != nil {
				statuses[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}
