package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
)

type Handler struct {
	authService  Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, fields ...map[string]string)
}

func NewHandler(
	authService Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, fields ...map[string]string),
) *Handler {
	return &Handler{
		authService:  authService,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/signup", h.HandleSignup)
	r.Post("/logout", h.HandleLogout)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.authService.Authenticate(w, r, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Login successful",
		"data":    u,
	})
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.authService.Signup(w, r, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "User registered successfully",
		"data":    u,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(w, r)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Logged out successfully",
	})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("auth request failed")
	}
	h.respondError(w, status, apperrors.PublicMessage(err), apperrors.FieldErrors(err))
}
