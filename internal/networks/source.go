package networks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

// Source loads a card-network reference document.
// Interface allows mocking in tests.
type Source interface {
	Fetch(ctx context.Context) (*Document, error)
}

// ErrNotModified is returned by a Source when the upstream document has not
// changed since the last fetch.
var ErrNotModified = errors.New("card network document not modified")

// DefaultFetchTimeout is the HTTP timeout for fetching a document.
const DefaultFetchTimeout = 10 * time.Second

// maxDocumentSize limits document bodies to 1MB.
const maxDocumentSize = 1 << 20

// FileSource reads a document from a local JSON file.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(_ context.Context) (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading card network file: %w", err)
	}
	return decodeDocument(data)
}

// HTTPSource fetches a document over HTTP, revalidating with ETags.
type HTTPSource struct {
	url    string
	client *http.Client

	mu   sync.Mutex
	etag string
}

// NewHTTPSource creates a source for url. A nil transport uses
// http.DefaultTransport.
func NewHTTPSource(url string, transport http.RoundTripper) *HTTPSource {
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout:   DefaultFetchTimeout,
			Transport: transport,
		},
	}
}

// Fetch implements Source. Returns ErrNotModified on 304.
func (s *HTTPSource) Fetch(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.mu.Lock()
	etag := s.etag
	s.mu.Unlock()
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, ErrNotModified
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.etag = resp.Header.Get("ETag")
	s.mu.Unlock()

	return doc, nil
}

func decodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse card network JSON: %w", err)
	}
	return &doc, nil
}

// Refresh fetches from src and applies the result. Unchanged upstream
// documents and stale versions are not errors.
func (r *Registry) Refresh(ctx context.Context, src Source) (bool, error) {
	doc, err := src.Fetch(ctx)
	if errors.Is(err, ErrNotModified) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := r.Update(*doc); err != nil {
		if errors.Is(err, ErrStaleVersion) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Run refreshes from src every interval until ctx is done. Failures are
// logged and the current list stays in effect.
func (r *Registry) Run(ctx context.Context, src Source, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAndLog(ctx, src, logger)
		}
	}
}

func (r *Registry) refreshAndLog(ctx context.Context, src Source, logger *slog.Logger) {
	updated, err := r.Refresh(ctx, src)
	if err != nil {
		logger.Warn("card network refresh failed", slog.String("error", err.Error()))
		return
	}
	if updated {
		version, networks := r.Snapshot()
		logger.Info("card networks updated",
			slog.String("version", version),
			slog.Int("count", len(networks)),
		)
	}
}
