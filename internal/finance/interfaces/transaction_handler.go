package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
)

type TransactionServiceInterface interface {
	Get(ctx context.Context, id string) (domain.TransactionResponse, error)
	Create(ctx context.Context, req domain.CreateTransactionRequest) (domain.TransactionResponse, error)
	Update(ctx context.Context, id string, req domain.UpdateTransactionRequest) (domain.TransactionResponse, error)
	Delete(ctx context.Context, id string) error
	ListForCurrentUser(ctx context.Context) ([]domain.TransactionResponse, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, fields ...map[string]string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, fields ...map[string]string),
) *TransactionHandler {
	if service == nil {
		panic("service must not be nil")
	}
	if respondJSON == nil || respondError == nil {
		panic("respond functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// RegisterRoutes mounts the collection on r. It expects an authenticated router.
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListForCurrentUser(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("transaction request failed")
	}
	h.respondError(w, status, apperrors.PublicMessage(err), apperrors.FieldErrors(err))
}
