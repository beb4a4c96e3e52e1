package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownDemoRole    = errors.New(`invalid role. Use "admin" or "sales"`)
)

type Credentials struct {
	Username string
	Password string
	Role     domain.Role
}

// DemoAccounts are the accounts reachable through demo login, keyed by the
// role names clients may send.
var DemoAccounts = map[string]Credentials{
	"admin":        {Username: "admin", Password: "admin123", Role: domain.RoleAdmin},
	"sales":        {Username: "sales", Password: "sales123", Role: domain.RoleSalesPerson},
	"sales_person": {Username: "sales", Password: "sales123", Role: domain.RoleSalesPerson},
}

// DemoRoles lists the advertised demo role names.
var DemoRoles = []string{"admin", "sales"}

type UserStore interface {
	Create(ctx context.Context, u *store.User) error
	GetByUsername(ctx context.Context, username string) (*store.User, error)
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

type Service struct {
	users  UserStore
	tokens *TokenManager
}

func NewService(users UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	logger := zerolog.Ctx(ctx)

	record, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn().Str("username", username).Msg("login attempt failed - user not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	user := adapters.MapStoreUserToDomain(record)

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn().Str("username", username).Msg("login attempt failed - invalid password")
		return nil, ErrInvalidCredentials
	}

	principal := domain.Principal{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
	}
	token, expiresAt, err := s.tokens.Generate(principal)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("username", username).Msg("user logged in")
	return &Session{Token: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

// DemoLogin signs in with the demo account mapped to role.
func (s *Service) DemoLogin(ctx context.Context, role string) (*Session, error) {
	creds, ok := DemoAccounts[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, ErrUnknownDemoRole
	}
	return s.Login(ctx, creds.Username, creds.Password)
}

func (s *Service) Verify(token string) (domain.Principal, error) {
	return s.tokens.Validate(token)
}

// EnsureUser creates the user, or resets its password and role when it exists.
func (s *Service) EnsureUser(ctx context.Context, creds Credentials) (*domain.User, error) {
	if !creds.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", creds.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.New(),
		Username:     creds.Username,
		PasswordHash: string(hash),
		Role:         creds.Role,
		CreatedAt:    time.Now().UTC(),
	}
	record := adapters.MapDomainUserToStore(user)
	if err := s.users.Create(ctx, record); err != nil {
		return nil, err
	}
	return adapters.MapStoreUserToDomain(record), nil
}

// SeedDemoAccounts makes sure every demo account can log in.
func (s *Service) SeedDemoAccounts(ctx context.Context) error {
	for _, role := range DemoRoles {
		if _, err := s.EnsureUser(ctx, DemoAccounts[role]); err != nil {
			return fmt.Errorf("seed %s: %w", role, err)
		}
	}
	return nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}
