package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
)

const (
	MaxCategoryLength       = 128
	MaxUpdateCategoryLength = 255
	MaxDescriptionLength    = 50
)

// clockSkew tolerates clients whose clock runs slightly ahead when sending "now".
const clockSkew = time.Minute

func (r CreateTransactionRequest) Validate() error {
	return r.validateAt(time.Now())
}

func (r CreateTransactionRequest) validateAt(now time.Time) error {
	v := &apperrors.ValidationError{}

	if !r.Amount.Valid {
		v.Add("amount", "is required")
	} else if !r.Amount.Decimal.IsPositive() {
		v.Add("amount", "must be greater than zero")
	}

	if r.Category == nil {
		v.Add("category", "is required")
	} else if utf8.RuneCountInString(*r.Category) > MaxCategoryLength {
		v.Add("category", fmt.Sprintf("must be at most %d characters", MaxCategoryLength))
	}

	if r.CreateDate == nil || r.CreateDate.IsZero() {
		v.Add("createDate", "is required")
	} else if r.CreateDate.After(now.Add(clockSkew)) {
		v.Add("createDate", "must be in the past or present")
	}

	if r.Description != nil && utf8.RuneCountInString(*r.Description) > MaxDescriptionLength {
		v.Add("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength))
	}

	return v.OrNil()
}

func (r UpdateTransactionRequest) Validate() error {
	return r.validateAt(time.Now())
}

func (r UpdateTransactionRequest) validateAt(now time.Time) error {
	v := &apperrors.ValidationError{}

	if amount, ok := r.Amount.Get(); ok && !amount.IsPositive() {
		v.Add("amount", "must be greater than zero")
	}
	if category, ok := r.Category.Get(); ok && utf8.RuneCountInString(category) > MaxUpdateCategoryLength {
		v.Add("category", fmt.Sprintf("must be at most %d characters", MaxUpdateCategoryLength))
	}
	if createDate, ok := r.CreateDate.Get(); ok && createDate.After(now.Add(clockSkew)) {
		v.Add("createDate", "must be in the past or present")
	}
	if description, ok := r.Description.Get(); ok && utf8.RuneCountInString(description) > MaxDescriptionLength {
		v.Add("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength))
	}

	return v.OrNil()
}
