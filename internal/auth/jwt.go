package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tasknest/tasknest/internal/model"
)

// BearerPrefix prefixes issued tokens and Authorization header values.
const BearerPrefix = "Bearer "

var (
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("expired JWT token")
	// ErrTokenInvalid covers every other signature or claim failure.
	ErrTokenInvalid = errors.New("invalid JWT token")
)

// Claims are the JWT claims carried by an access token.
// The subject holds the user id.
type Claims struct {
	Email    string         `json:"email"`
	UserRole model.UserRole `json:"userRole"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer with the given secret and token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token for user, prefixed with "Bearer ".
func (i *TokenIssuer) Issue(user *model.User) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		Email:    user.Email,
		UserRole: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return BearerPrefix + signed, nil
}

// Parse validates a raw token (without the Bearer prefix) and returns
// the requester it identifies.
func (i *TokenIssuer) Parse(raw string) (model.AuthUser, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.AuthUser{}, ErrTokenExpired
		}
		return model.AuthUser{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return model.AuthUser{}, ErrTokenInvalid
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.AuthUser{}, ErrTokenInvalid
	}
	role, ok := model.ParseUserRole(string(claims.UserRole))
	if !ok {
		return model.AuthUser{}, ErrTokenInvalid
	}

	return model.AuthUser{ID: id, Email: claims.Email, Role: role}, nil
}

// ExtractBearer returns the token portion of an Authorization header value.
// The second result is false when the header is empty or not a Bearer credential.
func ExtractBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}
