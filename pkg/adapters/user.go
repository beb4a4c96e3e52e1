package adapters

import (
	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/models/store"
)

func MapStoreUserToDomain(u *store.User) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func MapDomainUserToStore(u domain.User) *store.User {
	return &store.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func MapPrincipalToApi(p domain.Principal) api.User {
	return api.User{
		ID:       p.UserID,
		Username: p.Username,
		Role:     string(p.Role),
	}
}
