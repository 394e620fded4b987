// Package token provides a JWT service for the contacts API.
//
// A single HS256 secret signs three kinds of tokens, told apart by a
// "scope" claim:
//   - Access token:  short-lived (15 min), authorizes API requests
//   - Refresh token: long-lived (7 days), exchanged for new pairs
//   - Email token:   medium-lived (3 days), embedded in confirmation links
//
// The subject of every token is the user's email address.
package token

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

// Package-level errors so callers can check what went wrong:
// errors.Is(err, token.ErrExpiredToken)
var (
	ErrInvalidToken     = errors.New("token: invalid token")
	ErrExpiredToken     = errors.New("token: token has expired")
	ErrTokenNotFound    = errors.New("token: token not found")
	ErrInvalidClaims    = errors.New("token: invalid claims")
	ErrTokenNotYetValid = errors.New("token: token not yet valid")
	ErrInvalidScope     = errors.New("token: invalid token scope")
)

// Token scopes. The scope claim is what keeps a refresh token from being
// accepted on an API request, or an email token from opening a session.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

// Claims are the JWT claims carried by every token this service issues.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// =============================================================================
// Token Service
// =============================================================================

// TokenService creates and validates JWT tokens.
// Create one instance and reuse it throughout the application.
type TokenService struct {
	SecretKey          []byte
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	EmailTokenExpiry   time.Duration
	Issuer             string
	parser             *jwt.Parser
}

// NewTokenService creates a new TokenService.
//
// It reads configuration from environment variables:
//   - JWT_SECRET_KEY: signing secret (required in production)
//   - JWT_ISSUER:     token issuer name (optional, default: "contacts-service")
func NewTokenService() *TokenService {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		secret = "default-secret-change-in-production!"
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "contacts-service"
	}

	// Create parser with security options
	parser := jwt.NewParser(
		// Only accept HS256 - prevents "algorithm confusion" attacks
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),

		// Reject tokens without an expiration time
		jwt.WithExpirationRequired(),

		// Enforce strict base64 encoding
		jwt.WithStrictDecoding(),

		// Validate issuer
		jwt.WithIssuer(issuer),
	)

	return &TokenService{
		SecretKey:          []byte(secret),
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		EmailTokenExpiry:   3 * 24 * time.Hour,
		Issuer:             issuer,
		parser:             parser,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// GenerateTokens creates a new access and refresh token pair.
//
// Call this after a user successfully logs in. The subject is the
// user's email address.
//
// Example:
//
//	accessToken, refreshToken, err := service.GenerateTokens(ctx, "user@example.com")
//	if err != nil {
//	    return err
//	}
func (s *TokenService) GenerateTokens(ctx context.Context, subject string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.createToken(subject, ScopeAccess, s.AccessTokenExpiry)
	if err != nil {
		return "", "", fmt.Errorf("creating access token: %w", err)
	}

	refreshToken, err = s.createToken(subject, ScopeRefresh, s.RefreshTokenExpiry)
	if err != nil {
		return "", "", fmt.Errorf("creating refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken creates a single access token.
func (s *TokenService) GenerateAccessToken(ctx context.Context, subject string) (string, error) {
	accessToken, err := s.createToken(subject, ScopeAccess, s.AccessTokenExpiry)
	if err != nil {
		return "", fmt.Errorf("creating access token: %w", err)
	}
	return accessToken, nil
}

// GenerateEmailToken creates a token for an email confirmation link.
func (s *TokenService) GenerateEmailToken(ctx context.Context, subject string) (string, error) {
	emailToken, err := s.createToken(subject, ScopeEmail, s.EmailTokenExpiry)
	if err != nil {
		return "", fmt.Errorf("creating email token: %w", err)
	}
	return emailToken, nil
}

// ParseAccessToken validates an access token and returns its claims.
//
// Call this in the authentication middleware to verify requests. A token
// signed with the right secret but carrying a different scope is rejected
// with ErrInvalidScope.
func (s *TokenService) ParseAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, ScopeAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (s *TokenService) ParseRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, ScopeRefresh)
}

// ParseEmailToken validates an email confirmation token and returns its claims.
func (s *TokenService) ParseEmailToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, ScopeEmail)
}

// GetSubjectFromToken extracts the subject (the user's email) from an
// access token.
func (s *TokenService) GetSubjectFromToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.ParseAccessToken(ctx, tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// =============================================================================
// Private Methods
// =============================================================================

// createToken builds and signs a JWT with the given scope and lifetime.
func (s *TokenService) createToken(subject, scope string, expiry time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.SecretKey)
}

// parseToken validates a token string, checks its scope and extracts claims.
func (s *TokenService) parseToken(tokenString, scope string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenNotFound
	}

	claims := &Claims{}

	token, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// Verify signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.SecretKey, nil
	})

	if err != nil {
		return nil, convertError(err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Scope != scope {
		return nil, ErrInvalidScope
	}

	return claims, nil
}

// convertError transforms jwt library errors into our custom errors.
func convertError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrTokenNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: token is malformed", ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: signature is invalid", ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
