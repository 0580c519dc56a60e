package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/sebuszqo/FinanceControl/internal/identity"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Middleware binds the caller's session to the request context. A request
// without a live session is logged in from its remember-me cookie when that
// cookie is still valid, otherwise it is rejected with 401.
type Middleware struct {
	sessions     *SessionManager
	rememberMe   RememberMeServices
	secureCookie bool
}

func NewMiddleware(sessions *SessionManager, rememberMe RememberMeServices, secureCookie bool) *Middleware {
	return &Middleware{sessions: sessions, rememberMe: rememberMe, secureCookie: secureCookie}
}

func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if _, err := m.sessions.Lookup(cookie.Value); err == nil {
				ctx := identity.WithSession(r.Context(), m.sessions.Bind(cookie.Value))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		token, ok := m.autoLogin(w, r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		ctx := identity.WithSession(r.Context(), m.sessions.Bind(token))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) autoLogin(w http.ResponseWriter, r *http.Request) (string, bool) {
	if _, err := r.Cookie(RememberMeCookieName); err != nil {
		return "", false
	}

	u, err := m.rememberMe.AutoLogin(r)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("remember-me login rejected")
		m.rememberMe.LoginFail(w, r)
		return "", false
	}

	token, err := m.sessions.Create(principalOf(u))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("could not create session")
		return "", false
	}
	setSessionCookie(w, token, m.secureCookie)
	hlog.FromRequest(r).Debug().Str("user_id", u.ID).Msg("session restored from remember-me cookie")
	return token, true
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}
