package domain

// NewFromRequest builds an unsaved transaction. ID and UserID are left for the caller.
func NewFromRequest(req CreateTransactionRequest) *Transaction {
	t := &Transaction{
		Amount:      req.Amount.Decimal,
		Description: cloneString(req.Description),
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.CreateDate != nil {
		t.CreateDate = *req.CreateDate
	}
	return t
}

// ApplyUpdate copies every present field of req onto t. ID and UserID are never touched.
func ApplyUpdate(req UpdateTransactionRequest, t *Transaction) {
	req.Amount.Apply(&t.Amount)
	req.Category.Apply(&t.Category)
	req.CreateDate.Apply(&t.CreateDate)
	if description, ok := req.Description.Get(); ok {
		t.Description = &description
	}
}

func ToResponse(t *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Category:    t.Category,
		CreateDate:  t.CreateDate,
		Description: cloneString(t.Description),
	}
}

func ToResponses(ts []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for i := range ts {
		out = append(out, ToResponse(&ts[i]))
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
