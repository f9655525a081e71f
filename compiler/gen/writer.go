package gen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/zodgen"
)

// Writer writes generated files below an output directory. With a cache,
// files whose content is unchanged since the last write are skipped.
type Writer struct {
	outDir  string
	cache   zodgen.Cache
	logger  *slog.Logger
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
	WriteTime    int64 // nanoseconds
}

// OutputFile is one file to write, relative to the output directory.
type OutputFile struct {
	Name    string
	Content []byte
}

// NewWriter creates a writer for outDir. The cache may be nil.
func NewWriter(outDir string, cache zodgen.Cache) *Writer {
	return &Writer{
		outDir:  outDir,
		cache:   cache,
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithLogger sets the logger.
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	if l != nil {
		w.logger = l
	}
	return w
}

// Metrics returns a snapshot of the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll writes files in parallel.
func (w *Writer) WriteAll(ctx context.Context, files ...OutputFile) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return zodgen.NewGenerationError("write", "", "create output directory", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				_, err := w.Write(ctx, f.Name, f.Content)
				return err
			}
		})
	}
	return eg.Wait()
}

// Write writes content to name and reports whether the file was written.
// A file is skipped when it exists on disk and the cache holds the digest
// of content for it.
func (w *Writer) Write(ctx context.Context, name string, content []byte) (bool, error) {
	start := time.Now()
	path := filepath.Join(w.outDir, name)
	key := zodgen.CacheKey{Target: w.outDir, File: name}.String()
	digest := []byte(zodgen.Digest(content))

	if w.unchanged(ctx, key, path, digest) {
		w.mu.Lock()
		w.metrics.FilesSkipped++
		w.mu.Unlock()
		w.logger.Debug("zodgen: output unchanged", "file", path)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, zodgen.NewGenerationError("write", name, "create directory", err)
	}
	if err := writeFileAtomic(path, content); err != nil {
		return false, zodgen.NewGenerationError("write", name, "write file", err)
	}
	if w.cache != nil {
		if err := w.cache.Set(ctx, key, digest); err != nil {
			// The file is written; a stale cache only costs a rewrite.
			w.logger.Warn("zodgen: update output cache", "file", path, "error", err)
		}
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	w.metrics.WriteTime += time.Since(start).Nanoseconds()
	w.mu.Unlock()
	w.logger.Info("zodgen: wrote", "file", path, "bytes", len(content))
	return true, nil
}

func (w *Writer) unchanged(ctx context.Context, key, path string, digest []byte) bool {
	if w.cache == nil {
		return false
	}
	cached, err := w.cache.Get(ctx, key)
	if err != nil {
		w.logger.Warn("zodgen: read output cache", "file", path, "error", err)
		return false
	}
	if cached == nil || !bytes.Equal(cached, digest) {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// writeFileAtomic writes to a temporary file first, then renames it.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
