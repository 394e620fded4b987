package sqldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nourabuild/contacts-service/internal/sdk/models"
)

// ---------------------------------------------
// User Operations
// ---------------------------------------------

// GetUserByEmail retrieves a user by their email address
func (s *service) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT
			id,
			username,
			email,
			password,
			created_at,
			refresh_token,
			avatar,
			confirmed
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.RefreshToken,
		&user.Avatar,
		&user.Confirmed,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrDBNotFound
		}
		return models.User{}, fmt.Errorf("selecting user by email: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user into the database
func (s *service) CreateUser(ctx context.Context, nu models.NewUser) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password, created_at, refresh_token, avatar, confirmed
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query,
		nu.Username,
		nu.Email,
		nu.Password,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.RefreshToken,
		&user.Avatar,
		&user.Confirmed,
	)

	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.User{}, ErrDBDuplicatedEntry
		}
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// UpdateRefreshToken stores the user's current refresh token.
// Passing nil clears the stored token and invalidates the session.
func (s *service) UpdateRefreshToken(ctx context.Context, userID int64, token *string) error {
	const query = `
		UPDATE users
		SET refresh_token = $2
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("updating refresh token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrDBNotFound
	}

	return nil
}

// ConfirmUserEmail marks the user's email address as confirmed
func (s *service) ConfirmUserEmail(ctx context.Context, email string) error {
	const query = `
		UPDATE users
		SET confirmed = true
		WHERE email = $1
	`

	tag, err := s.pool.Exec(ctx, query, email)
	if err != nil {
		return fmt.Errorf("confirming user email: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrDBNotFound
	}

	return nil
}

// UpdateUserAvatar stores the avatar URL and returns the updated user
func (s *service) UpdateUserAvatar(ctx context.Context, email, url string) (models.User, error) {
	const query = `
		UPDATE users
		SET avatar = $2
		WHERE email = $1
		RETURNING id, username, email, password, created_at, refresh_token, avatar, confirmed
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, email, url).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.RefreshToken,
		&user.Avatar,
		&user.Confirmed,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrDBNotFound
		}
		return models.User{}, fmt.Errorf("updating user avatar: %w", err)
	}

	return user, nil
}
