package mapping

import "context"

// Repository persists the mapping configuration.
// Put must fully replace prior state atomically: a concurrent or later Get
// observes either the old or the new config, never a partial write.
type Repository interface {
	// Get returns the persisted config. found is false when nothing has been
	// persisted yet. Malformed data returns an error wrapping ErrConfigCorrupt.
	Get(ctx context.Context) (cfg *Config, found bool, err error)

	// Put replaces the persisted config
	Put(ctx context.Context, cfg *Config) error
}
