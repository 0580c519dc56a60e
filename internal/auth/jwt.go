package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidRememberMeToken = errors.New("remember-me token is invalid")
	ErrExpiredRememberMeToken = errors.New("remember-me token is expired")
)

const defaultRememberMeDuration = 720 * time.Hour

type RememberMeClaims struct {
	UserID string `json:"user_id"`
	// CusKey binds the token to the password hash it was issued against.
	CusKey string `json:"cus_key"`
	jwt.StandardClaims
}

// RememberMeTokens issues and verifies signed persistent-login tokens.
type RememberMeTokens struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

func NewRememberMeTokens(secret string, duration time.Duration) *RememberMeTokens {
	if duration <= 0 {
		duration = defaultRememberMeDuration
	}
	return &RememberMeTokens{secret: []byte(secret), duration: duration, now: time.Now}
}

func (j *RememberMeTokens) Duration() time.Duration {
	return j.duration
}

func generateCustomKey(userID, passwordHash string) string {
	h := hmac.New(sha256.New, []byte(passwordHash))
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

func (j *RememberMeTokens) Generate(userID, passwordHash string) (string, error) {
	now := j.now()
	claims := &RememberMeClaims{
		UserID: userID,
		CusKey: generateCustomKey(userID, passwordHash),
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Parse checks the signature and expiry and returns the claims.
// The password binding is verified separately by Verify.
func (j *RememberMeTokens) Parse(tokenString string) (*RememberMeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RememberMeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredRememberMeToken
		}
		return nil, ErrInvalidRememberMeToken
	}

	claims, ok := token.Claims.(*RememberMeClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidRememberMeToken
	}
	return claims, nil
}

// Verify reports whether claims were issued against passwordHash.
func (j *RememberMeTokens) Verify(claims *RememberMeClaims, passwordHash string) error {
	expected := generateCustomKey(claims.UserID, passwordHash)
	if !hmac.Equal([]byte(claims.CusKey), []byte(expected)) {
		return ErrInvalidRememberMeToken
	}
	return nil
}
