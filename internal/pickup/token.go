// Package pickup issues and reads the tokens patrons show at the hub.
package pickup

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed, forged, or incomplete.
var ErrInvalidToken = errors.New("invalid pickup token")

// Claims is the payload of a pickup token.
type Claims struct {
	OrderID    string    `json:"order_id"`
	ProviderID string    `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
	jwt.RegisteredClaims
}

// Codec signs and verifies pickup tokens with an HMAC key.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec using secret as the HS256 key.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue creates the token for an order. Tokens do not expire; an order can
// only be confirmed once, which is what bounds their use.
func (c *Codec) Issue(orderID, providerID string, createdAt time.Time) (string, error) {
	claims := Claims{
		OrderID:    orderID,
		ProviderID: providerID,
		CreatedAt:  createdAt.UTC(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  orderID,
			IssuedAt: jwt.NewNumericDate(createdAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing pickup token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OrderID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
