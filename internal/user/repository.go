package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/database"
)

// Repository persists users. Lookups return an error wrapping apperrors.ErrNotFound
// when nothing matches, and Create wraps apperrors.ErrConflict on a duplicate username.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *database.DBService
}

func NewUserRepository(db *database.DBService) Repository {
	return &userRepository{db: db}
}

const selectUser = `SELECT id, username, password_hash, display_name, email FROM users`

func (r *userRepository) Create(ctx context.Context, u *User) error {
	_, err := r.db.DB.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO users (id, username, password_hash, display_name, email) VALUES (?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.PasswordHash, u.DisplayName, nullString(u.Email))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("user with username '%s' already exists: %w", u.Username, apperrors.ErrConflict)
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	id, ok := database.CanonicalID(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.findOne(ctx, selectUser+` WHERE id = ?`, id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, selectUser+` WHERE username = ?`, username)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx,
		r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`), username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not check username: %w", err)
	}
	return exists, nil
}

func (r *userRepository) Update(ctx context.Context, u *User) error {
	res, err := r.db.DB.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET password_hash = ?, display_name = ?, email = ? WHERE id = ?`),
		u.PasswordHash, u.DisplayName, nullString(u.Email), u.ID)
	if err != nil {
		return fmt.Errorf("could not update user: %w", err)
	}
	return expectAffected(res)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	id, ok := database.CanonicalID(id)
	if !ok {
		return apperrors.ErrNotFound
	}
	res, err := r.db.DB.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	return expectAffected(res)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var (
		u     User
		email sql.NullString
	)
	err := r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	if email.Valid {
		u.Email = &email.String
	}
	return &u, nil
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
