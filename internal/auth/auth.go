package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated principal carried on the request context.
type User struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Grants     []Code `json:"grants,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents JWT token claims. Subject is the external identity.
type Claims struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Identity is what the token issuer asserts about a caller.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(id Identity) (string, error)
	GenerateRefreshToken(id Identity) (string, error)
	ValidateToken(tokenString, tokenType string) (*Claims, error)
	AccessTTL() time.Duration
}
