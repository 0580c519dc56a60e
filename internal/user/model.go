package user

import (
	"github.com/sebuszqo/FinanceControl/internal/optional"
)

type User struct {
	ID           string
	Username     string // unique, never changes after creation
	PasswordHash string
	DisplayName  string
	Email        *string
}

type CreateUserRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	DisplayName     *string `json:"displayName"`
	Email           *string `json:"email"`
}

// UpdateUserRequest is a partial update; the username cannot be changed.
type UpdateUserRequest struct {
	Password        optional.Value[string] `json:"password"`
	ConfirmPassword optional.Value[string] `json:"confirmPassword"`
	DisplayName     optional.Value[string] `json:"displayName"`
	Email           optional.Value[string] `json:"email"`
}

type UserResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"`
}
