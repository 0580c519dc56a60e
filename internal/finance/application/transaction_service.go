package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
	"github.com/sebuszqo/FinanceControl/internal/identity"
)

// TransactionService is the owner-scoped CRUD for one transaction Kind.
// Income and expense are two instances of it over different repositories.
type TransactionService struct {
	kind domain.Kind
	repo domain.Repository
}

func NewTransactionService(kind domain.Kind, repo domain.Repository) *TransactionService {
	if !kind.Valid() {
		panic(fmt.Sprintf("unknown transaction kind %q", kind))
	}
	if repo == nil {
		panic("transaction repository must not be nil")
	}
	return &TransactionService{kind: kind, repo: repo}
}

func (s *TransactionService) Kind() domain.Kind {
	return s.kind
}

func (s *TransactionService) Get(ctx context.Context, id string) (domain.TransactionResponse, error) {
	t, err := s.loadOwned(ctx, id)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	return domain.ToResponse(t), nil
}

func (s *TransactionService) Create(ctx context.Context, req domain.CreateTransactionRequest) (domain.TransactionResponse, error) {
	current, err := identity.Current(ctx)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}

	t := domain.NewFromRequest(req)
	t.ID = uuid.NewString()
	t.UserID = current.UserID

	if err := s.repo.Create(ctx, t); err != nil {
		return domain.TransactionResponse{}, fmt.Errorf("create %s: %w", s.kind, err)
	}

	log.Ctx(ctx).Debug().Str("kind", s.kind.String()).Str("id", t.ID).Str("user_id", current.UserID).Msg("transaction created")
	return domain.ToResponse(t), nil
}

func (s *TransactionService) Update(ctx context.Context, id string, req domain.UpdateTransactionRequest) (domain.TransactionResponse, error) {
	t, err := s.loadOwned(ctx, id)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return domain.TransactionResponse{}, err
	}

	domain.ApplyUpdate(req, t)
	if err := s.repo.Update(ctx, t); err != nil {
		return domain.TransactionResponse{}, fmt.Errorf("update %s %s: %w", s.kind, id, err)
	}
	return domain.ToResponse(t), nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if _, err := s.loadOwned(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", s.kind, id, err)
	}
	log.Ctx(ctx).Debug().Str("kind", s.kind.String()).Str("id", id).Msg("transaction deleted")
	return nil
}

// ListForCurrentUser returns the caller's transactions, most recent first.
// The result is empty, never nil, when the caller has none.
func (s *TransactionService) ListForCurrentUser(ctx context.Context) ([]domain.TransactionResponse, error) {
	current, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	ts, err := s.repo.FindAllByUserID(ctx, current.UserID)
	if err != nil {
		return nil, fmt.Errorf("list %s for user %s: %w", s.kind, current.UserID, err)
	}
	return domain.ToResponses(ts), nil
}

// loadOwned resolves the caller, then checks existence before ownership.
func (s *TransactionService) loadOwned(ctx context.Context, id string) (*domain.Transaction, error) {
	current, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s with id %s: %w", s.kind, id, err)
	}
	if err := identity.CheckAccess(t.UserID, current.UserID); err != nil {
		return nil, fmt.Errorf("%s with id %s: %w", s.kind, id, err)
	}
	return t, nil
}
