package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignedCodec issues HS256 JWTs whose subject is the user ID.
type SignedCodec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewSignedCodec(secret string, validity time.Duration) *SignedCodec {
	if validity <= 0 {
		validity = TokenValidity
	}
	return &SignedCodec{secret: []byte(secret), validity: validity, now: time.Now}
}

// Issue generates a signed token for a user
func (c *SignedCodec) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidToken
	}

	issuedAt := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate checks signature, algorithm and expiry before returning the subject
func (c *SignedCodec) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
