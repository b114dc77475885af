package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"go.uber.org/zap"
)

// Ensure FileMappingRepository implements mapping.Repository
var _ mapping.Repository = (*FileMappingRepository)(nil)

const mappingFileMode fs.FileMode = 0o644

// FileMappingRepository stores the mapping as a JSON file on local disk
type FileMappingRepository struct {
	path   string
	logger *zap.Logger
}

// FileMappingRepositoryOption is a functional option for FileMappingRepository
type FileMappingRepositoryOption func(*FileMappingRepository)

// WithFileLogger sets the logger for FileMappingRepository
func WithFileLogger(logger *zap.Logger) FileMappingRepositoryOption {
	return func(r *FileMappingRepository) {
		r.logger = logger
	}
}

// NewFileMappingRepository creates a repository backed by the file at path
func NewFileMappingRepository(path string, opts ...FileMappingRepositoryOption) (*FileMappingRepository, error) {
	if path == "" {
		return nil, errors.New("mapping file path is required")
	}
	r := &FileMappingRepository{
		path:   filepath.Clean(path),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the mapping file location
func (r *FileMappingRepository) Path() string {
	return r.path
}

// Get reads and decodes the mapping file. A missing file is not an error.
func (r *FileMappingRepository) Get(ctx context.Context) (*mapping.Config, bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read mapping file %s: %w", r.path, err)
	}

	cfg, err := mapping.Decode(data)
	if err != nil {
		r.logger.Error("Mapping file is corrupt", zap.String("path", r.path), zap.Error(err))
		return nil, true, fmt.Errorf("%s: %w", r.path, err)
	}
	return cfg, true, nil
}

// Put writes the mapping atomically: the document goes to a temp file in the
// same directory which is synced and then renamed over the target, so
// readers see either the old or the new file, never a partial one.
func (r *FileMappingRepository) Put(ctx context.Context, cfg *mapping.Config) error {
	data, err := mapping.Encode(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp mapping file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write mapping file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync mapping file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close mapping file: %w", err)
	}
	if err := os.Chmod(tmpName, mappingFileMode); err != nil {
		return fmt.Errorf("failed to set mapping file mode: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace mapping file: %w", err)
	}
	committed = true

	r.logger.Debug("Mapping file written", zap.String("path", r.path), zap.Int("bytes", len(data)))
	return nil
}
