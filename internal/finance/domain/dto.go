package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/FinanceControl/internal/optional"
)

type CreateTransactionRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Category    *string             `json:"category"`
	CreateDate  *time.Time          `json:"createDate"`
	Description *string             `json:"description"`
}

// UpdateTransactionRequest is a partial update. Only fields present in the
// payload overwrite the stored transaction.
type UpdateTransactionRequest struct {
	Amount      optional.Value[decimal.Decimal] `json:"amount"`
	Category    optional.Value[string]          `json:"category"`
	CreateDate  optional.Value[time.Time]       `json:"createDate"`
	Description optional.Value[string]          `json:"description"`
}

// TransactionResponse never carries the owner.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CreateDate  time.Time       `json:"createDate"`
	Description *string         `json:"description"`
}
