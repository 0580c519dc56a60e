package interfaces

import (
	"context"

	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
)

// MockTransactionService fails every call with Err.
type MockTransactionService struct {
	Err error
}

func (m *MockTransactionService) Get(context.Context, string) (domain.TransactionResponse, error) {
	return domain.TransactionResponse{}, m.Err
}

func (m *MockTransactionService) Create(context.Context, domain.CreateTransactionRequest) (domain.TransactionResponse, error) {
	return domain.TransactionResponse{}, m.Err
}

func (m *MockTransactionService) Update(context.Context, string, domain.UpdateTransactionRequest) (domain.TransactionResponse, error) {
	return domain.TransactionResponse{}, m.Err
}

func (m *MockTransactionService) Delete(context.Context, string) error {
	return m.Err
}

func (m *MockTransactionService) ListForCurrentUser(context.Context) ([]domain.TransactionResponse, error) {
	return nil, m.Err
}
