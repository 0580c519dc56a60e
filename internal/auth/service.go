package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/identity"
	"github.com/sebuszqo/FinanceControl/internal/user"
)

const SessionCookieName = "session_id"

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type RegisterRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	DisplayName     *string `json:"displayName"`
	Email           *string `json:"email"`
}

type Service interface {
	Authenticate(w http.ResponseWriter, r *http.Request, req LoginRequest) (user.UserResponse, error)
	Signup(w http.ResponseWriter, r *http.Request, req RegisterRequest) (user.UserResponse, error)
	Logout(w http.ResponseWriter, r *http.Request)
}

type UserStore interface {
	UserFinder
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

type service struct {
	users        UserStore
	userService  user.Service
	encoder      user.PasswordEncoder
	sessions     *SessionManager
	rememberMe   RememberMeServices
	secureCookie bool
}

func NewAuthService(users UserStore, userService user.Service, encoder user.PasswordEncoder, sessions *SessionManager, rememberMe RememberMeServices, secureCookie bool) Service {
	return &service{
		users:        users,
		userService:  userService,
		encoder:      encoder,
		sessions:     sessions,
		rememberMe:   rememberMe,
		secureCookie: secureCookie,
	}
}

// Authenticate verifies the credentials, replaces the caller's session with a
// fresh one and only afterwards issues the remember-me cookie when asked for.
func (s *service) Authenticate(w http.ResponseWriter, r *http.Request, req LoginRequest) (user.UserResponse, error) {
	u, err := s.verify(r.Context(), req.Username, req.Password)
	if err != nil {
		s.rememberMe.LoginFail(w, r)
		log.Ctx(r.Context()).Debug().Str("username", req.Username).Err(err).Msg("authentication failed")
		return user.UserResponse{}, err
	}

	if err := s.establishSession(w, r, u); err != nil {
		s.rememberMe.LoginFail(w, r)
		return user.UserResponse{}, err
	}

	if req.RememberMe {
		if err := s.rememberMe.LoginSuccess(w, r, u); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Str("user_id", u.ID).Msg("remember-me cookie not issued")
		}
	}

	log.Ctx(r.Context()).Debug().Str("username", u.Username).Bool("remember_me", req.RememberMe).Msg("user authenticated")
	return user.ToResponse(u), nil
}

func (s *service) Signup(w http.ResponseWriter, r *http.Request, req RegisterRequest) (user.UserResponse, error) {
	if req.Password != req.ConfirmPassword {
		return user.UserResponse{}, apperrors.NewValidationError("confirmPassword", "Passwords don't match")
	}

	if _, err := s.userService.CreateUser(r.Context(), user.CreateUserRequest{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		DisplayName:     req.DisplayName,
		Email:           req.Email,
	}); err != nil {
		return user.UserResponse{}, err
	}

	return s.Authenticate(w, r, LoginRequest{Username: req.Username, Password: req.Password})
}

func (s *service) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	clearCookie(w, SessionCookieName, s.secureCookie)
	s.rememberMe.LoginFail(w, r)
}

func (s *service) verify(ctx context.Context, username, password string) (*user.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("could not load user %s: %w", username, err)
	}
	if !s.encoder.Matches(password, u.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return u, nil
}

// establishSession drops any session the request already carries, binds a new
// one to u and writes its cookie.
func (s *service) establishSession(w http.ResponseWriter, r *http.Request, u *user.User) error {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	token, err := s.sessions.Create(principalOf(u))
	if err != nil {
		return err
	}
	setSessionCookie(w, token, s.secureCookie)
	return nil
}

func principalOf(u *user.User) identity.Principal {
	return identity.Principal{UserID: u.ID, Username: u.Username, Credential: u.PasswordHash}
}

func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
