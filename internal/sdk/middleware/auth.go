// Package middleware provides gin middleware for the contacts service.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/sdk/models"
	"github.com/nourabuild/contacts-service/internal/sdk/sqldb"
	"github.com/nourabuild/contacts-service/internal/services/token"
)

const (
	bearerPrefix = "Bearer "

	// UserKey is the gin context key holding the authenticated models.User.
	UserKey = "user"
)

// Error codes written on middleware responses. internal/app maps the same
// codes to statuses, so they are defined once here.
const (
	CodeMissingAuthHeader = "missing_authorization_header"
	CodeInvalidAuthHeader = "invalid_authorization_header"
	CodeInvalidToken      = "invalid_token"
	CodeExpiredToken      = "expired_token"
	CodeInvalidTokenScope = "invalid_token_scope"
	CodeUserNotFound      = "user_not_found"
	CodeRateLimited       = "rate_limit_exceeded"
)

// Authenticate validates the bearer access token and loads the user it
// belongs to into the request context. Tokens with the wrong scope are
// rejected, so a refresh or email token never opens a session.
func Authenticate(tokens *token.TokenService, db sqldb.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": CodeMissingAuthHeader})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": CodeInvalidAuthHeader})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := tokens.ParseAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			var errCode string
			switch {
			case errors.Is(err, token.ErrExpiredToken):
				errCode = CodeExpiredToken
			case errors.Is(err, token.ErrInvalidScope):
				errCode = CodeInvalidTokenScope
			default:
				errCode = CodeInvalidToken
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": errCode})
			c.Abort()
			return
		}

		user, err := db.GetUserByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": CodeUserNotFound})
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// GetUser extracts the authenticated user placed in the context by Authenticate.
func GetUser(c *gin.Context) (models.User, error) {
	val, exists := c.Get(UserKey)
	if !exists {
		return models.User{}, errors.New("no authenticated user in context")
	}

	user, ok := val.(models.User)
	if !ok {
		return models.User{}, errors.New("unexpected user type in context")
	}

	return user, nil
}
