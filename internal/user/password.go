package user

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordEncoder hashes raw passwords and checks them against stored hashes.
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(raw, hash string) bool
}

type BcryptEncoder struct {
	Cost int
}

func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{Cost: cost}
}

func (e *BcryptEncoder) Encode(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), e.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (e *BcryptEncoder) Matches(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
