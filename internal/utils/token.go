package utils

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// TokenValidity is how long an issued bearer token stays usable.
const TokenValidity = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenCodec issues and validates the opaque bearer credential carried in
// the Authorization header.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Validate(token string) (string, error)
}

// LegacyCodec encodes base64("<userId>:<issuedAtMillis>").
//
// The token carries no signature: anyone who can build the string is
// authenticated as that user. Use SignedCodec where that matters.
type LegacyCodec struct {
	validity time.Duration
	now      func() time.Time
}

func NewLegacyCodec(validity time.Duration) *LegacyCodec {
	if validity <= 0 {
		validity = TokenValidity
	}
	return &LegacyCodec{validity: validity, now: time.Now}
}

func (c *LegacyCodec) Issue(userID string) (string, error) {
	if userID == "" || strings.Contains(userID, ":") {
		return "", ErrInvalidToken
	}
	raw := userID + ":" + strconv.FormatInt(c.now().UnixMilli(), 10)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

func (c *LegacyCodec) Validate(token string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	userID, issued, ok := strings.Cut(string(decoded), ":")
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	issuedAt, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}

	if c.now().UnixMilli()-issuedAt > c.validity.Milliseconds() {
		return "", ErrExpiredToken
	}
	return userID, nil
}
