// Package identity carries the authenticated caller through a request.
//
// The auth middleware binds a Session to the request context. Services read the
// caller with Current and check resource ownership with CheckAccess.
package identity

import (
	"context"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
)

type Principal struct {
	UserID   string
	Username string
	// Credential is the stored password hash the principal authenticated against.
	Credential string
}

// Session is the request scoped view of the caller's login state.
type Session interface {
	Principal() Principal
	// Rebind replaces the bound principal in place, so the current session keeps
	// authenticating after the user's credentials changed.
	Rebind(p Principal)
	Invalidate()
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s != nil
}

// Current returns the principal bound to ctx or ErrUnauthenticated.
func Current(ctx context.Context) (Principal, error) {
	s, ok := SessionFrom(ctx)
	if !ok {
		return Principal{}, apperrors.ErrUnauthenticated
	}
	p := s.Principal()
	if p.UserID == "" {
		return Principal{}, apperrors.ErrUnauthenticated
	}
	return p, nil
}

func CheckAccess(ownerID, currentUserID string) error {
	if ownerID != currentUserID {
		return apperrors.ErrAccessDenied
	}
	return nil
}

// Static is a Session that is not backed by a session store. It serves
// background callers and tests.
type Static struct {
	P           Principal
	Invalidated bool
}

func (s *Static) Principal() Principal { return s.P }
func (s *Static) Rebind(p Principal)   { s.P = p }
func (s *Static) Invalidate()          { s.Invalidated = true; s.P = Principal{} }

// As returns ctx bound to a Static session for p.
func As(ctx context.Context, p Principal) context.Context {
	return WithSession(ctx, &Static{P: p})
}
