package source

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
)

// Source is an analytics.Source that owns its connection.
type Source interface {
	analytics.Source
	Close() error
}

// Factory opens a Source for a profile of the type it was registered for.
type Factory func(ctx context.Context, profile domain.SourceProfile) (Source, error)

// Registry manages data source factories per profile type
type Registry interface {
	// Register adds a new factory for a profile type
	Register(profileType domain.ProfileType, factory Factory) error
	// Create opens a source for the profile using the factory of its type
	Create(ctx context.Context, profile domain.SourceProfile) (Source, error)
	// ListTypes returns the registered profile types, sorted
	ListTypes() []domain.ProfileType
}

type registry struct {
	mu        sync.RWMutex
	factories map[domain.ProfileType]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[domain.ProfileType]Factory),
	}
}

// NewDefaultRegistry registers the DuckDB, Postgres, Snowflake and Databricks factories.
func NewDefaultRegistry() Registry {
	r := NewRegistry()
	for profileType, factory := range map[domain.ProfileType]Factory{
		domain.ProfileTypeDuckDB:     DuckDBFactory,
		domain.ProfileTypePostgres:   PostgresFactory,
		domain.ProfileTypeSnowflake:  SnowflakeFactory,
		domain.ProfileTypeDatabricks: DatabricksFactory,
	} {
		// Registration into a fresh registry cannot collide.
		_ = r.Register(profileType, factory)
	}
	return r
}

func (r *registry) Register(profileType domain.ProfileType, factory Factory) error {
	if profileType == "" {
		return fmt.Errorf("profile type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[profileType]; exists {
		return fmt.Errorf("profile type %q is already registered", profileType)
	}

	r.factories[profileType] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, profile domain.SourceProfile) (Source, error) {
	r.mu.RLock()
	factory, exists := r.factories[profile.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("profile type %q is not registered", profile.Type)
	}

	src, err := factory(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", profile, err)
	}
	return src, nil
}

func (r *registry) ListTypes() []domain.ProfileType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.ProfileType, 0, len(r.factories))
	for profileType := range r.factories {
		types = append(types, profileType)
	}
	slices.Sort(types)
	return types
}
