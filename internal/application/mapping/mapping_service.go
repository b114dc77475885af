package mappingapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service owns the process-wide mapping configuration and its persistence.
//
// Edits, saves and resets are serialised; the last writer wins. Transforms
// never read the live config, they take a Snapshot first, so a later edit or
// save cannot affect a conversion already in progress.
type Service struct {
	repo   mapping.Repository
	logger *zap.Logger

	mu      sync.RWMutex
	current *mapping.Config
}

// ServiceOption is a functional option for Service
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a mapping service backed by repo.
// The in-memory config starts as the built-in default until Init is called.
func NewService(repo mapping.Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		logger:  zap.NewNop(),
		current: mapping.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log tags entries with the request and batch IDs carried by ctx
func (s *Service) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}

// Init loads the persisted config into the service
func (s *Service) Init(ctx context.Context) error {
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}

// Load returns the persisted config, or a copy of the built-in default when
// nothing has been persisted. Corrupt persisted data is returned as an error
// wrapping mapping.ErrConfigCorrupt, never replaced by the default.
func (s *Service) Load(ctx context.Context) (*mapping.Config, error) {
	cfg, found, err := s.repo.Get(ctx)
	if err != nil {
		s.log(ctx).Error("Failed to load mapping", zap.Error(err))
		return nil, fmt.Errorf("load mapping: %w", err)
	}
	if !found {
		s.log(ctx).Info("No persisted mapping, using built-in default")
		return mapping.Default(), nil
	}

	s.log(ctx).Info("Loaded persisted mapping", zap.Int("entries", cfg.Len()))
	return cfg, nil
}

// Save persists cfg, replacing any prior state, and makes it current
func (s *Service) Save(ctx context.Context, cfg *mapping.Config) error {
	if cfg == nil {
		return fmt.Errorf("save mapping: config is required")
	}
	clone := cfg.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Put(ctx, clone); err != nil {
		s.log(ctx).Error("Failed to save mapping", zap.Error(err))
		return fmt.Errorf("save mapping: %w", err)
	}
	s.current = clone

	s.log(ctx).Info("Mapping saved", zap.Int("entries", clone.Len()))
	return nil
}

// SaveCurrent persists the current in-memory config
func (s *Service) SaveCurrent(ctx context.Context) error {
	return s.Save(ctx, s.Snapshot())
}

// Reset restores the built-in default, persists it and returns a copy
func (s *Service) Reset(ctx context.Context) (*mapping.Config, error) {
	def := mapping.Default()
	if err := s.Save(ctx, def); err != nil {
		return nil, fmt.Errorf("reset mapping: %w", err)
	}
	s.log(ctx).Info("Mapping reset to default")
	return mapping.Default(), nil
}

// ApplyEdits rebuilds the current config from edited grid rows. The edit is
// not persisted until Save. Invalid rows reject the whole edit and leave the
// current config unchanged. An empty grid is no edit: the current config is
// kept and returned.
func (s *Service) ApplyEdits(ctx context.Context, rows []mapping.EditRow) (*mapping.Config, error) {
	if len(rows) == 0 {
		s.log(ctx).Debug("Ignoring empty mapping edit")
		return s.Snapshot(), nil
	}

	cfg, err := mapping.ApplyEdits(rows)
	if err != nil {
		s.log(ctx).Warn("Rejected mapping edit", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	s.log(ctx).Debug("Mapping edited", zap.Int("entries", cfg.Len()))
	return cfg.Clone(), nil
}

// Snapshot returns a deep copy of the current config
func (s *Service) Snapshot() *mapping.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Rows returns the current config as editable grid rows
func (s *Service) Rows() []mapping.EditRow {
	return s.Snapshot().Rows()
}
