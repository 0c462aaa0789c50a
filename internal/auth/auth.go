package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

// ClaimsKey is the request context key under which the authentication middleware
// stores the parsed Claims.
const ClaimsKey ctxKey = 1

const issuer = "barukh-sagit-storefront"

var ErrInvalidToken = errors.New("invalid order access token")

// Claims of an order access token. Subject carries the order number.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Keys struct {
	secret []byte
	ttl    time.Duration
}

func NewKeys(secret []byte, ttl time.Duration) (*Keys, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("order token secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("order token ttl must be positive")
	}
	return &Keys{secret: secret, ttl: ttl}, nil
}

// IssueOrderToken signs a token granting read access to a single order.
func (k *Keys) IssueOrderToken(orderNumber, email string) (string, error) {
	if orderNumber == "" {
		return "", errors.New("order token needs an order number")
	}
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   orderNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(k.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("signing order token: %w", err)
	}
	return signed, nil
}

func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return k.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
