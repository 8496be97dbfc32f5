package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/taskhub/api/internal/domain/user"
	"github.com/taskhub/api/internal/security"
)

var ErrMissingFields = errors.New("all fields are required")

// Keep this small interface so tests can fake it easily; satisfied by
// both the memory and postgres user stores.
type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (user.User, error)
	UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (user.User, error)
}

// Service validates credentials against the user store and issues and
// verifies session tokens.
type Service struct {
	users  UserStore
	tokens *Manager
}

func NewService(users UserStore, tokens *Manager) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a new account and logs it in. The store enforces
// username/email uniqueness and reports user.ErrDuplicate.
func (s *Service) Register(ctx context.Context, username, email, name, password string) (user.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if username == "" || email == "" || name == "" || password == "" {
		return user.User{}, "", ErrMissingFields
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return user.User{}, "", err
	}

	u, err := s.users.Create(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})

	if err != nil {
		return user.User{}, "", err
	}

	token, err := s.tokens.Generate(u.ID, u.Username, u.Email)

	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// Login matches identifier against username OR email (trimmed, exact)
// and verifies the password against the stored bcrypt hash. A missing
// user surfaces as user.ErrNotFound and a wrong password as
// ErrInvalidCredentials; the HTTP layer reports both the same way.
func (s *Service) Login(ctx context.Context, identifier, password string) (user.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	if identifier == "" || password == "" {
		return user.User{}, "", ErrMissingFields
	}

	u, err := s.users.GetByUsernameOrEmail(ctx, identifier)

	if err != nil {
		return user.User{}, "", err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	// tokens are always freshly minted, never reused across logins
	token, err := s.tokens.Generate(u.ID, u.Username, u.Email)

	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// Verify checks a raw token and returns the identity it carries.
func (s *Service) Verify(tokenStr string) (Identity, error) {
	return s.tokens.Verify(tokenStr)
}

// Refresh re-issues a token for an already-authenticated identity. The
// user record is re-read so the claims reflect current state.
func (s *Service) Refresh(ctx context.Context, id Identity) (user.User, string, error) {
	u, err := s.users.GetByID(ctx, id.UserID)

	if err != nil {
		return user.User{}, "", err
	}

	token, err := s.tokens.Generate(u.ID, u.Username, u.Email)

	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// Profile returns the caller's own user record.
func (s *Service) Profile(ctx context.Context, id Identity) (user.User, error) {
	return s.users.GetByID(ctx, id.UserID)
}

// UpdateProfile changes name and/or email. An email change goes through
// the store's uniqueness check like registration does.
func (s *Service) UpdateProfile(ctx context.Context, id Identity, upd user.ProfileUpdate) (user.User, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		upd.Name = &trimmed
	}
	if upd.Email != nil {
		trimmed := strings.TrimSpace(*upd.Email)
		upd.Email = &trimmed
	}

	return s.users.UpdateProfile(ctx, id.UserID, upd)
}
