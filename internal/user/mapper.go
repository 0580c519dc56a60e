package user

import (
	"strings"
)

// newFromRequest builds an unsaved user. A blank display name falls back to the username.
func newFromRequest(req CreateUserRequest, encoder PasswordEncoder) (*User, error) {
	hash, err := encoder.Encode(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.Username,
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) != "" {
		u.DisplayName = *req.DisplayName
	}
	if req.Email != nil && *req.Email != "" {
		email := *req.Email
		u.Email = &email
	}
	return u, nil
}

// applyUpdate copies present fields onto u and re-hashes the password when one is
// supplied. It reports whether the password changed. ID and Username are never touched.
func applyUpdate(req UpdateUserRequest, u *User, encoder PasswordEncoder) (bool, error) {
	passwordChanged := false
	if password, ok := req.Password.Get(); ok {
		hash, err := encoder.Encode(password)
		if err != nil {
			return false, err
		}
		u.PasswordHash = hash
		passwordChanged = true
	}

	req.DisplayName.Apply(&u.DisplayName)
	if email, ok := req.Email.Get(); ok {
		u.Email = &email
	}
	return passwordChanged, nil
}

func ToResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
	if u.Email != nil {
		email := *u.Email
		resp.Email = &email
	}
	return resp
}
