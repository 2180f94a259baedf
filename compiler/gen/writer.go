package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Document is one rendered output file.
type Document struct {
	// Path is relative to the sink root, using forward slashes.
	Path    string
	Content []byte
}

// Sink persists documents.
type Sink interface {
	Write(ctx context.Context, doc Document) error
}

// ErrExists is returned by a FileSink that may not overwrite a file.
var ErrExists = errors.New("graphgen: file exists")

// FileSink writes documents below a root directory. Each file is written
// to a temporary file in the target directory and renamed into place.
type FileSink struct {
	Root string
	// NoOverwrite fails writes to existing files with ErrExists.
	NoOverwrite bool
	// Perm of written files. Zero means 0o644.
	Perm fs.FileMode
}

// NewFileSink returns a sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Root: dir}
}

// Resolve returns the absolute file path of a document path. Paths
// escaping the root are rejected.
func (s *FileSink) Resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", fmt.Errorf("graphgen: invalid document path %q", path)
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("graphgen: document path %q escapes output root", path)
	}
	return filepath.Join(s.Root, clean), nil
}

// Write implements Sink.
func (s *FileSink) Write(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.Resolve(doc.Path)
	if err != nil {
		return err
	}
	if s.NoOverwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, target)
		}
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", doc.Path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", doc.Path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(doc.Content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", doc.Path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", doc.Path, err)
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod %s: %w", doc.Path, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %s: %w", doc.Path, err)
	}
	return nil
}

// MemorySink keeps written documents in memory.
type MemorySink struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{docs: make(map[string][]byte)}
}

// Write implements Sink.
func (s *MemorySink) Write(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Path] = slices.Clone(doc.Content)
	return nil
}

// Get returns the content written to path.
func (s *MemorySink) Get(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.docs[path]
	return string(b), ok
}

// Paths returns the written paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.docs))
	for p := range s.docs {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// WriterMetrics counts the work done by a Writer.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// Writer writes documents to a sink in parallel.
type Writer struct {
	sink    Sink
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewWriter returns a writer over sink.
func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel writes.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the counters of the writes done so far.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write writes every document. The first failure cancels the writes not
// yet started and is returned as a GenerationError.
func (w *Writer) Write(ctx context.Context, docs ...Document) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, doc := range docs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := w.sink.Write(ctx, doc); err != nil {
				return NewGenerationError("write", doc.Path, "write document", err)
			}
			w.mu.Lock()
			w.metrics.FilesWritten++
			w.metrics.TotalBytes += int64(len(doc.Content))
			w.mu.Unlock()
			return nil
		})
	}
	return eg.Wait()
}
