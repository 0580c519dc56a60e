package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/identity"
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetCurrentUser(ctx context.Context) (UserResponse, error)
	UpdateCurrentUser(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	DeleteCurrentUser(ctx context.Context) error
	GetUser(ctx context.Context, id string) (UserResponse, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRevoker ends every session held by a user.
type SessionRevoker interface {
	DeleteUser(userID string) int
}

type service struct {
	repo     Repository
	encoder  PasswordEncoder
	sessions SessionRevoker
}

func NewUserService(repo Repository, encoder PasswordEncoder, sessions SessionRevoker) Service {
	if repo == nil || encoder == nil || sessions == nil {
		panic("user service dependencies must not be nil")
	}
	return &service{
		repo:     repo,
		encoder:  encoder,
		sessions: sessions,
	}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	if err := req.Validate(); err != nil {
		return UserResponse{}, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return UserResponse{}, err
	}
	if exists {
		return UserResponse{}, fmt.Errorf("user with username '%s' already exists: %w", req.Username, apperrors.ErrConflict)
	}

	u, err := newFromRequest(req, s.encoder)
	if err != nil {
		return UserResponse{}, fmt.Errorf("could not hash password: %w", err)
	}
	u.ID = uuid.NewString()

	if err := s.repo.Create(ctx, u); err != nil {
		return UserResponse{}, err
	}

	log.Ctx(ctx).Debug().Str("username", u.Username).Msg("user successfully created")
	return ToResponse(u), nil
}

func (s *service) GetCurrentUser(ctx context.Context) (UserResponse, error) {
	current, err := identity.Current(ctx)
	if err != nil {
		return UserResponse{}, err
	}
	return s.GetUser(ctx, current.UserID)
}

func (s *service) UpdateCurrentUser(ctx context.Context, req UpdateUserRequest) (UserResponse, error) {
	current, err := identity.Current(ctx)
	if err != nil {
		return UserResponse{}, err
	}
	return s.UpdateUser(ctx, current.UserID, req)
}

func (s *service) DeleteCurrentUser(ctx context.Context) error {
	current, err := identity.Current(ctx)
	if err != nil {
		return err
	}
	return s.DeleteUser(ctx, current.UserID)
}

func (s *service) GetUser(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.loadOwned(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return ToResponse(u), nil
}

// UpdateUser applies a partial update. When the password changes the caller's
// session is rebound to the new credential so it stays authenticated.
func (s *service) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.loadOwned(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return UserResponse{}, err
	}

	passwordChanged, err := applyUpdate(req, u, s.encoder)
	if err != nil {
		return UserResponse{}, fmt.Errorf("could not hash password: %w", err)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}

	if passwordChanged {
		if session, ok := identity.SessionFrom(ctx); ok {
			session.Rebind(identity.Principal{UserID: u.ID, Username: u.Username, Credential: u.PasswordHash})
		}
		log.Ctx(ctx).Debug().Str("username", u.Username).Msg("password changed")
	}
	log.Ctx(ctx).Debug().Str("user_id", u.ID).Msg("user successfully updated")
	return ToResponse(u), nil
}

// DeleteUser removes the user, clears the caller's session and revokes every
// other session the user still holds.
func (s *service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.loadOwned(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if session, ok := identity.SessionFrom(ctx); ok {
		session.Invalidate()
	}
	revoked := s.sessions.DeleteUser(id)
	log.Ctx(ctx).Debug().Str("user_id", id).Int("revoked_sessions", revoked).Msg("user successfully deleted")
	return nil
}

func (s *service) loadOwned(ctx context.Context, id string) (*User, error) {
	current, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user with id %s: %w", id, err)
	}
	if err := identity.CheckAccess(u.ID, current.UserID); err != nil {
		return nil, fmt.Errorf("user with id %s: %w", id, err)
	}
	return u, nil
}
