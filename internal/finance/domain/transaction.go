package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind partitions transactions into two stores with an identical shape.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Table is the relational table holding transactions of this kind.
func (k Kind) Table() string {
	switch k {
	case KindIncome:
		return "incomes"
	case KindExpense:
		return "expenses"
	default:
		return ""
	}
}

func (k Kind) String() string {
	return string(k)
}

type Transaction struct {
	ID          string
	UserID      string // owner, set once at creation
	Amount      decimal.Decimal
	Category    string
	CreateDate  time.Time
	Description *string
}

// Repository persists transactions of one Kind.
// FindByID returns an error wrapping apperrors.ErrNotFound when no row matches.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Transaction, error)
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id string) error
	// FindAllByUserID returns the owner's transactions, most recent CreateDate first.
	FindAllByUserID(ctx context.Context, userID string) ([]Transaction, error)
}
