package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"


	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/database"
	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
)

// TransactionRepository stores one transaction kind in its own table.
type TransactionRepository struct {
	db    *database.DBService
	table string
}

func NewTransactionRepository(db *database.DBService, kind domain.Kind) *TransactionRepository {
	if !kind.Valid() {
		panic(fmt.Sprintf("unknown transaction kind %q", kind))
	}
	return &TransactionRepository{db: db, table: kind.Table()}
}

func (r *TransactionRepository) query(q string) string {
	return r.db.Rebind(fmt.Sprintf(q, r.table))
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	id, ok := database.CanonicalID(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	row := r.db.DB.QueryRowContext(ctx,
		r.query(`SELECT id, user_id, amount, category, create_date, description FROM %s WHERE id = ?`), id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.db.DB.ExecContext(ctx,
		r.query(`INSERT INTO %s (id, user_id, amount, category, create_date, description) VALUES (?, ?, ?, ?, ?, ?)`),
		t.ID, t.UserID, t.Amount, t.Category, t.CreateDate.UTC(), nullString(t.Description))
	return translate(err)
}

func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	res, err := r.db.DB.ExecContext(ctx,
		r.query(`UPDATE %s SET amount = ?, category = ?, create_date = ?, description = ? WHERE id = ?`),
		t.Amount, t.Category, t.CreateDate.UTC(), nullString(t.Description), t.ID)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	id, ok := database.CanonicalID(id)
	if !ok {
		return apperrors.ErrNotFound
	}
	res, err := r.db.DB.ExecContext(ctx, r.query(`DELETE FROM %s WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *TransactionRepository) FindAllByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	userID, ok := database.CanonicalID(userID)
	if !ok {
		return []domain.Transaction{}, nil
	}

	rows, err := r.db.DB.QueryContext(ctx,
		r.query(`SELECT id, user_id, amount, category, create_date, description FROM %s WHERE user_id = ? ORDER BY create_date DESC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var (
		t           domain.Transaction
		createDate  time.Time
		description sql.NullString
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &createDate, &description); err != nil {
		return nil, err
	}
	t.CreateDate = createDate.UTC()
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if err != nil && database.IsConstraintViolation(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	return err
}
