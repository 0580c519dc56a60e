package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sebuszqo/FinanceControl/internal/user"
)

const RememberMeCookieName = "remember-me"

// RememberMeServices issues and consumes the persistent login cookie.
type RememberMeServices interface {
	LoginSuccess(w http.ResponseWriter, r *http.Request, u *user.User) error
	LoginFail(w http.ResponseWriter, r *http.Request)
	AutoLogin(r *http.Request) (*user.User, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// TokenRememberMeServices stores a signed token in an HttpOnly cookie.
// The token carries an HMAC of the password hash, so it stops working
// as soon as the password changes.
type TokenRememberMeServices struct {
	tokens       *RememberMeTokens
	users        UserFinder
	secureCookie bool
}

func NewTokenRememberMeServices(tokens *RememberMeTokens, users UserFinder, secureCookie bool) *TokenRememberMeServices {
	return &TokenRememberMeServices{tokens: tokens, users: users, secureCookie: secureCookie}
}

func (s *TokenRememberMeServices) LoginSuccess(w http.ResponseWriter, _ *http.Request, u *user.User) error {
	token, err := s.tokens.Generate(u.ID, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("could not generate remember-me token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberMeCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.Duration().Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *TokenRememberMeServices) LoginFail(w http.ResponseWriter, _ *http.Request) {
	clearCookie(w, RememberMeCookieName, s.secureCookie)
}

// AutoLogin resolves the user behind the remember-me cookie of r.
func (s *TokenRememberMeServices) AutoLogin(r *http.Request) (*user.User, error) {
	cookie, err := r.Cookie(RememberMeCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidRememberMeToken
	}
	claims, err := s.tokens.Parse(cookie.Value)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("remember-me user %s: %w", claims.UserID, err)
	}
	if err := s.tokens.Verify(claims, u.PasswordHash); err != nil {
		return nil, err
	}
	return u, nil
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
