package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// JWTProvider issues HS256 session tokens carrying the user id. Identities
// are local, so CreateIdentity only allocates an id.
type JWTProvider struct {
	secret []byte
	expiry time.Duration
}

func NewJWTProvider(secret string, expiry time.Duration) *JWTProvider {
	return &JWTProvider{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (p *JWTProvider) CreateIdentity(ctx context.Context, email, password, displayName string) (string, error) {
	return uuid.New().String(), nil
}

// UpdatePassword is a no-op: local identities keep no credentials of their own.
func (p *JWTProvider) UpdatePassword(ctx context.Context, uid, password string) error {
	return nil
}

func (p *JWTProvider) IssueToken(ctx context.Context, uid string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": uid,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(p.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *JWTProvider) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid user id in token")
	}

	return userID, nil
}
