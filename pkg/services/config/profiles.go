package config

import (
	"context"
	"fmt"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry exposes the data source profiles declared in an INI file.
// Each section is one profile; its "type" key selects the driver.
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.SourceProfile, error)
	GetProfile(ctx context.Context, name string) (domain.SourceProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// NewRegistryFromBytes parses profiles held in memory.
func NewRegistryFromBytes(data []byte) (Registry, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.SourceProfile, error) {
	var profiles []domain.SourceProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profile, err := toProfile(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.SourceProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.SourceProfile{}, fmt.Errorf("profile %s not found", name)
	}
	return toProfile(section)
}

func toProfile(section *ini.Section) (domain.SourceProfile, error) {
	profileType := domain.ProfileType(section.Key("type").MustString(string(domain.ProfileTypeDuckDB)))
	switch profileType {
	case domain.ProfileTypeDuckDB, domain.ProfileTypePostgres, domain.ProfileTypeSnowflake, domain.ProfileTypeDatabricks:
	default:
		return domain.SourceProfile{}, fmt.Errorf("profile %s: unknown type %q", section.Name(), profileType)
	}

	settings := make(map[string]string, len(section.Keys()))
	for _, key := range section.Keys() {
		if key.Name() == "type" {
			continue
		}
		settings[key.Name()] = key.String()
	}
	return domain.SourceProfile{
		Name:     section.Name(),
		Type:     profileType,
		Settings: settings,
	}, nil
}
