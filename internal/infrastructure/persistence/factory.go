package persistence

import (
	"fmt"

	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MappingRepositoryFactory creates the mapping repository selected by configuration
type MappingRepositoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// MappingRepositoryFactoryOption is a functional option for the factory
type MappingRepositoryFactoryOption func(*MappingRepositoryFactory)

// WithLogger sets the logger for the factory and the repositories it creates
func WithLogger(logger *zap.Logger) MappingRepositoryFactoryOption {
	return func(f *MappingRepositoryFactory) {
		f.logger = logger
	}
}

// NewMappingRepositoryFactory creates a new factory
func NewMappingRepositoryFactory(cfg *config.Config, opts ...MappingRepositoryFactoryOption) *MappingRepositoryFactory {
	f := &MappingRepositoryFactory{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the configured repository. The returned close function
// releases backend connections and is never nil.
func (f *MappingRepositoryFactory) Create() (mapping.Repository, func() error, error) {
	noop := func() error { return nil }

	switch f.cfg.Mapping.Backend {
	case config.BackendMemory:
		f.logger.Warn("Using in-memory mapping repository; edits are lost on restart")
		return NewInMemoryMappingRepository(), noop, nil

	case config.BackendFile, "":
		repo, err := NewFileMappingRepository(f.cfg.Mapping.Path, WithFileLogger(f.logger))
		if err != nil {
			return nil, noop, err
		}
		f.logger.Info("Using file mapping repository", zap.String("path", repo.Path()))
		return repo, noop, nil

	case config.BackendS3:
		repo, err := NewS3MappingRepository(&f.cfg.Storage, f.cfg.Mapping.Key, WithS3Logger(f.logger))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create S3 mapping repository: %w", err)
		}
		f.logger.Info("Using S3 mapping repository",
			zap.String("bucket", f.cfg.Storage.Bucket),
			zap.String("key", f.cfg.Mapping.Key),
		)
		return repo, noop, nil

	case config.BackendRedis:
		repo, err := NewRedisMappingRepository(f.cfg.Redis, f.cfg.Mapping.Key)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create Redis mapping repository: %w", err)
		}
		f.logger.Info("Using Redis mapping repository",
			zap.String("addr", f.cfg.Redis.Addr()),
			zap.String("key", f.cfg.Mapping.Key),
		)
		return repo, repo.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown mapping backend %q", f.cfg.Mapping.Backend)
	}
}
