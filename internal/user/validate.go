package user

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/badoux/checkmail"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
)

const (
	minPasswordLength    = 4
	maxUsernameLength    = 255
	maxDisplayNameLength = 128
	msgPasswordsMismatch = "Passwords don't match"
)

func (r CreateUserRequest) Validate() error {
	v := &apperrors.ValidationError{}

	if strings.TrimSpace(r.Username) == "" {
		v.Add("username", "is required")
	} else if utf8.RuneCountInString(r.Username) > maxUsernameLength {
		v.Add("username", fmt.Sprintf("must be at most %d characters", maxUsernameLength))
	}

	validatePassword(v, r.Password, r.ConfirmPassword)

	if r.DisplayName != nil {
		validateDisplayName(v, *r.DisplayName)
	}
	if r.Email != nil && *r.Email != "" {
		validateEmail(v, *r.Email)
	}

	return v.OrNil()
}

func (r UpdateUserRequest) Validate() error {
	v := &apperrors.ValidationError{}

	if password, ok := r.Password.Get(); ok {
		confirm, _ := r.ConfirmPassword.Get()
		validatePassword(v, password, confirm)
	}
	if displayName, ok := r.DisplayName.Get(); ok {
		validateDisplayName(v, displayName)
	}
	if email, ok := r.Email.Get(); ok && email != "" {
		validateEmail(v, email)
	}

	return v.OrNil()
}

func validatePassword(v *apperrors.ValidationError, password, confirm string) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if password != confirm {
		v.Add("confirmPassword", msgPasswordsMismatch)
	}
}

func validateDisplayName(v *apperrors.ValidationError, displayName string) {
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		v.Add("displayName", fmt.Sprintf("must be at most %d characters", maxDisplayNameLength))
	}
}

func validateEmail(v *apperrors.ValidationError, email string) {
	if err := checkmail.ValidateFormat(email); err != nil {
		v.Add("email", "is not a valid email address")
	}
}
