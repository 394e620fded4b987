package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/sdk/models"
	"github.com/nourabuild/contacts-service/internal/sdk/sqldb"
	"github.com/nourabuild/contacts-service/internal/services/sentry"
	"github.com/nourabuild/contacts-service/internal/services/token"
)

const bearerPrefix = "Bearer "

func (a *App) HandleSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.toSentry(c, "signup", "unmarshal", sentry.LevelError, err)
		writeError(c, ErrUnmarshal, nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	errCode, validationErrors := validateSignupInput(req)
	if errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	hashedPassword, err := a.hash.HashPassword(req.Password)
	if err != nil {
		a.toSentry(c, "signup", "hash", sentry.LevelError, err)
		writeError(c, ErrHashPassword, nil)
		return
	}

	newUser := models.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}

	createdUser, err := a.db.CreateUser(c.Request.Context(), newUser)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBDuplicatedEntry) {
			writeError(c, ErrUserExists, nil)
			return
		}
		a.toSentry(c, "signup", "db", sentry.LevelError, err)
		writeError(c, ErrCreateUser, nil)
		return
	}

	// Delivery failures must not fail the signup response.
	go a.sendConfirmationEmail(createdUser)

	c.JSON(http.StatusCreated, SignupResponse{
		User:   userResponse(createdUser),
		Detail: "User successfully created. Check your email for confirmation.",
	})
}

func (a *App) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.toSentry(c, "login", "unmarshal", sentry.LevelError, err)
		writeError(c, ErrUnmarshal, nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := validateLoginInput(req); len(validationErrors) > 0 {
		writeError(c, ErrMissingFields, validationErrors)
		return
	}

	user, err := a.db.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvalidCredentials, nil)
			return
		}
		a.toSentry(c, "login", "db", sentry.LevelError, err)
		writeError(c, ErrProcessLogin, nil)
		return
	}

	if !user.Confirmed {
		writeError(c, ErrEmailNotConfirmed, nil)
		return
	}

	// Always return the same error for auth failures to avoid account enumeration.
	if !a.hash.CheckPasswordHash(req.Password, user.Password) {
		writeError(c, ErrInvalidCredentials, nil)
		return
	}

	accessToken, refreshToken, err := a.tokens.GenerateTokens(c.Request.Context(), user.Email)
	if err != nil {
		a.toSentry(c, "login", "token", sentry.LevelError, err)
		writeError(c, ErrGenerateTokens, nil)
		return
	}

	if err := a.db.UpdateRefreshToken(c.Request.Context(), user.ID, &refreshToken); err != nil {
		a.toSentry(c, "login", "db_token", sentry.LevelError, err)
		writeError(c, ErrGenerateTokens, nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

func (a *App) HandleRefreshToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		writeError(c, ErrMissingAuthHeader, nil)
		return
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		writeError(c, ErrInvalidAuthHeader, nil)
		return
	}
	refreshToken := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	claims, err := a.tokens.ParseRefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		var errCode string
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			errCode = ErrExpiredToken
		case errors.Is(err, token.ErrInvalidScope):
			errCode = ErrInvalidTokenScope
		default:
			errCode = ErrInvalidToken
		}
		writeError(c, errCode, nil)
		return
	}

	user, err := a.db.GetUserByEmail(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvalidToken, nil)
			return
		}
		a.toSentry(c, "refresh_token", "db", sentry.LevelError, err)
		writeError(c, ErrUnauthorized, nil)
		return
	}

	// A valid token that does not match the stored one means the session was
	// replaced or replayed. Clear it so neither copy works again.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := a.db.UpdateRefreshToken(c.Request.Context(), user.ID, nil); err != nil {
			a.toSentry(c, "refresh_token", "db_clear", sentry.LevelWarning, err)
		}
		writeError(c, ErrInvalidToken, nil)
		return
	}

	accessToken, newRefreshToken, err := a.tokens.GenerateTokens(c.Request.Context(), user.Email)
	if err != nil {
		a.toSentry(c, "refresh_token", "token_generate", sentry.LevelError, err)
		writeError(c, ErrGenerateTokens, nil)
		return
	}

	// Rotate the stored token to prevent reuse of the old one.
	if err := a.db.UpdateRefreshToken(c.Request.Context(), user.ID, &newRefreshToken); err != nil {
		a.toSentry(c, "refresh_token", "db_token", sentry.LevelError, err)
		writeError(c, ErrGenerateTokens, nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "bearer",
	})
}

func (a *App) HandleConfirmedEmail(c *gin.Context) {
	emailToken := c.Param("token")

	claims, err := a.tokens.ParseEmailToken(c.Request.Context(), emailToken)
	if err != nil {
		writeError(c, ErrInvalidEmailToken, nil)
		return
	}

	user, err := a.db.GetUserByEmail(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrVerification, nil)
			return
		}
		a.toSentry(c, "confirmed_email", "db", sentry.LevelError, err)
		writeError(c, ErrConfirmEmail, nil)
		return
	}

	if user.Confirmed {
		c.JSON(http.StatusOK, MessageResponse{Message: "Your email is already confirmed"})
		return
	}

	if err := a.db.ConfirmUserEmail(c.Request.Context(), user.Email); err != nil {
		a.toSentry(c, "confirmed_email", "db_confirm", sentry.LevelError, err)
		writeError(c, ErrConfirmEmail, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Email confirmed"})
}

func (a *App) HandleRequestEmail(c *gin.Context) {
	var req RequestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.toSentry(c, "request_email", "unmarshal", sentry.LevelError, err)
		writeError(c, ErrUnmarshal, nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if errCode, validationErrors := validateEmailInput(req); errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	user, err := a.db.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// The response must not reveal whether the address is registered.
		if errors.Is(err, sqldb.ErrDBNotFound) {
			c.JSON(http.StatusOK, MessageResponse{Message: "Check your email for confirmation."})
			return
		}
		a.toSentry(c, "request_email", "db", sentry.LevelError, err)
		writeError(c, ErrConfirmEmail, nil)
		return
	}

	if user.Confirmed {
		c.JSON(http.StatusOK, MessageResponse{Message: "Your email is already confirmed"})
		return
	}

	go a.sendConfirmationEmail(user)

	c.JSON(http.StatusOK, MessageResponse{Message: "Check your email for confirmation."})
}

// sendConfirmationEmail signs an email token and delivers the confirmation
// link. It runs in its own goroutine and must not touch the request context.
func (a *App) sendConfirmationEmail(user models.User) {
	defer a.sentry.Recover()

	emailToken, err := a.tokens.GenerateEmailToken(context.Background(), user.Email)
	if err != nil {
		slog.Error("generating email token", "email", user.Email, "error", err)
		a.sentry.CaptureException(err)
		return
	}

	confirmURL := a.cfg.BaseURL + "/api/auth/confirmed_email/" + emailToken
	if err := a.mail.SendEmailConfirmation(user.Email, user.Username, confirmURL); err != nil {
		slog.Error("sending confirmation email", "email", user.Email, "error", err)
		a.sentry.CaptureException(err)
	}
}
