package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/render"
	"go.uber.org/zap"
)

const (
	DefaultFileName = "invoice.pdf"
	MIMEType        = "application/pdf"
)

// BackendLoader creates the document backend on first use
type BackendLoader func() (render.Backend, error)

// ExportService turns invoice snapshots into PDF documents
type ExportService interface {
	// CheckExportable reports ErrExportPrecondition if the snapshot has no
	// items or no recipient address
	CheckExportable(snapshot domain.Snapshot) error

	// Render returns the PDF bytes for the snapshot, dated at its TakenAt
	Render(ctx context.Context, snapshot domain.Snapshot) ([]byte, error)

	// Export writes the PDF to path and returns the final file path. An empty
	// path or a directory gets DefaultFileName. The file appears whole or not at all.
	Export(ctx context.Context, snapshot domain.Snapshot, path string) (string, error)
}

type exportService struct {
	layout func() render.Options
	loader BackendLoader
	logger *zap.Logger

	once    sync.Once
	backend render.Backend
	loadErr error
}

// ExportOption configures the export service
type ExportOption func(*exportService)

// WithLayout sets the page layout source. It is read on every render so
// settings edits apply to the next export.
func WithLayout(layout func() render.Options) ExportOption {
	return func(s *exportService) { s.layout = layout }
}

// WithBackendLoader replaces the PDF backend
func WithBackendLoader(loader BackendLoader) ExportOption {
	return func(s *exportService) { s.loader = loader }
}

// NewExportService creates a new export service. The backend is not loaded
// until the first render.
func NewExportService(logger *zap.Logger, opts ...ExportOption) ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &exportService{
		layout: render.DefaultOptions,
		loader: func() (render.Backend, error) { return render.NewPDFBackend() },
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *exportService) CheckExportable(snapshot domain.Snapshot) error {
	return snapshot.Exportable()
}

func (s *exportService) loadBackend() (render.Backend, error) {
	s.once.Do(func() {
		s.backend, s.loadErr = s.loader()
		if s.loadErr != nil {
			s.logger.Error("failed to load document backend", zap.Error(s.loadErr))
		}
	})
	return s.backend, s.loadErr
}

func (s *exportService) Render(ctx context.Context, snapshot domain.Snapshot) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.CheckExportable(snapshot); err != nil {
		return nil, err
	}

	backend, err := s.loadBackend()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
	}

	doc := render.Layout(snapshot, s.layout())

	var buf bytes.Buffer
	if err := backend.Write(doc, &buf); err != nil {
		s.logger.Error("failed to render invoice",
			zap.Int("items", len(snapshot.Items)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
	}

	s.logger.Debug("rendered invoice",
		zap.Int("items", len(snapshot.Items)),
		zap.Int("pages", doc.PageCount()),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (s *exportService) Export(ctx context.Context, snapshot domain.Snapshot, path string) (string, error) {
	data, err := s.Render(ctx, snapshot)
	if err != nil {
		return "", err
	}

	target := ResolvePath(path)
	if err := writeAtomic(target, data); err != nil {
		s.logger.Error("failed to write invoice", zap.String("path", target), zap.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
	}

	s.logger.Info("exported invoice",
		zap.String("path", target),
		zap.String("mime", MIMEType),
		zap.Int("bytes", len(data)),
	)
	return target, nil
}

// ResolvePath returns the file an export to path would write. An empty path
// means DefaultFileName in the working directory; an existing directory or a
// path ending in a separator gets DefaultFileName appended.
func ResolvePath(path string) string {
	if path == "" {
		return DefaultFileName
	}
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return filepath.Join(path, DefaultFileName)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFileName)
	}
	return path
}

// writeAtomic writes data to a temp file next to path and renames it into place
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gemvoice-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
