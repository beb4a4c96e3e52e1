package source

import (
	"context"
	"fmt"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
)

// ProfileLookup finds a named source profile, usually in the profiles INI file.
type ProfileLookup interface {
	GetProfile(ctx context.Context, name string) (domain.SourceProfile, error)
}

// Open looks the profile up and opens it with the factory registered for its type.
func Open(ctx context.Context, registry Registry, profiles ProfileLookup, name string) (Source, error) {
	profile, err := profiles.GetProfile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source profile: %w", err)
	}
	return registry.Create(ctx, profile)
}
