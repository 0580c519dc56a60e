package user

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
)

type Handler struct {
	userService  Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, fields ...map[string]string)
}

func NewHandler(
	userService Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, fields ...map[string]string),
) *Handler {
	return &Handler{
		userService:  userService,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// RegisterRoutes mounts the profile endpoints. It expects an authenticated router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.HandleGetMe)
	r.Patch("/me", h.HandleUpdateMe)
	r.Post("/", h.HandleCreate)
	r.Post("/me", h.HandleCreate)
	r.Delete("/me", h.HandleDeleteMe)
}

func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateCurrentUser(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}

// HandleCreate rejects creating users on behalf of another user; accounts come from signup.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.handleError(w, r, fmt.Errorf("user creation is not supported yet from another user: %w", apperrors.ErrMethodNotSupported))
}

func (h *Handler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	h.handleError(w, r, fmt.Errorf("user deletion is not supported yet: %w", apperrors.ErrMethodNotSupported))
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("user request failed")
	}
	h.respondError(w, status, apperrors.PublicMessage(err), apperrors.FieldErrors(err))
}
