package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nourabuild/contacts-service/internal/sdk/models"
)

// ---------------------------------------------
// Contact Operations
// ---------------------------------------------

// ListContacts retrieves a page of the user's contacts
func (s *service) ListContacts(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error) {
	const query = `
		SELECT
			id,
			first_name,
			last_name,
			email,
			phone,
			birthday,
			created_at,
			updated_at,
			user_id
		FROM contacts
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// GetContactByID retrieves one of the user's contacts by its id
func (s *service) GetContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	const query = `
		SELECT
			id,
			first_name,
			last_name,
			email,
			phone,
			birthday,
			created_at,
			updated_at,
			user_id
		FROM contacts
		WHERE user_id = $1 AND id = $2
	`

	var contact models.Contact
	err := s.pool.QueryRow(ctx, query, userID, contactID).Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.Birthday,
		&contact.CreatedAt,
		&contact.UpdatedAt,
		&contact.UserID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, ErrDBNotFound
		}
		return models.Contact{}, fmt.Errorf("selecting contact: %w", err)
	}

	return contact, nil
}

// GetContactByEmail retrieves one of the user's contacts by email address
func (s *service) GetContactByEmail(ctx context.Context, userID int64, email string) (models.Contact, error) {
	const query = `
		SELECT
			id,
			first_name,
			last_name,
			email,
			phone,
			birthday,
			created_at,
			updated_at,
			user_id
		FROM contacts
		WHERE user_id = $1 AND email = $2
	`

	var contact models.Contact
	err := s.pool.QueryRow(ctx, query, userID, email).Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.Birthday,
		&contact.CreatedAt,
		&contact.UpdatedAt,
		&contact.UserID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, ErrDBNotFound
		}
		return models.Contact{}, fmt.Errorf("selecting contact by email: %w", err)
	}

	return contact, nil
}

// CreateContact inserts a new contact for the owning user
func (s *service) CreateContact(ctx context.Context, nc models.NewContact) (models.Contact, error) {
	const query = `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, first_name, last_name, email, phone, birthday, created_at, updated_at, user_id
	`

	var contact models.Contact
	err := s.pool.QueryRow(ctx, query,
		nc.FirstName,
		nc.LastName,
		nc.Email,
		nc.Phone,
		nc.Birthday,
		nc.UserID,
	).Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.Birthday,
		&contact.CreatedAt,
		&contact.UpdatedAt,
		&contact.UserID,
	)

	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.Contact{}, ErrDBDuplicatedEntry
		}
		return models.Contact{}, fmt.Errorf("creating contact: %w", err)
	}

	return contact, nil
}

// UpdateContact replaces all fields of the user's contact and returns the result
func (s *service) UpdateContact(ctx context.Context, userID, contactID int64, nc models.NewContact) (models.Contact, error) {
	const query = `
		UPDATE contacts
		SET first_name = $3,
		    last_name = $4,
		    email = $5,
		    phone = $6,
		    birthday = $7,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
		RETURNING id, first_name, last_name, email, phone, birthday, created_at, updated_at, user_id
	`

	var contact models.Contact
	err := s.pool.QueryRow(ctx, query,
		userID,
		contactID,
		nc.FirstName,
		nc.LastName,
		nc.Email,
		nc.Phone,
		nc.Birthday,
	).Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.Birthday,
		&contact.CreatedAt,
		&contact.UpdatedAt,
		&contact.UserID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, ErrDBNotFound
		}
		if isPgError(err, uniqueViolation) {
			return models.Contact{}, ErrDBDuplicatedEntry
		}
		return models.Contact{}, fmt.Errorf("updating contact: %w", err)
	}

	return contact, nil
}

// DeleteContact removes the user's contact by its id
func (s *service) DeleteContact(ctx context.Context, userID, contactID int64) error {
	const query = `
		DELETE FROM contacts
		WHERE user_id = $1 AND id = $2
	`

	tag, err := s.pool.Exec(ctx, query, userID, contactID)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrDBNotFound
	}

	return nil
}

// ListContactsByFirstName retrieves the user's contacts with the given first name
func (s *service) ListContactsByFirstName(ctx context.Context, userID int64, firstName string) ([]models.Contact, error) {
	const query = `
		SELECT
			id,
			first_name,
			last_name,
			email,
			phone,
			birthday,
			created_at,
			updated_at,
			user_id
		FROM contacts
		WHERE user_id = $1 AND first_name = $2
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, userID, firstName)
	if err != nil {
		return nil, fmt.Errorf("listing contacts by first name: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// ListContactsByLastName retrieves the user's contacts with the given last name
func (s *service) ListContactsByLastName(ctx context.Context, userID int64, lastName string) ([]models.Contact, error) {
	const query = `
		SELECT
			id,
			first_name,
			last_name,
			email,
			phone,
			birthday,
			created_at,
			updated_at,
			user_id
		FROM contacts
		WHERE user_id = $1 AND last_name = $2
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, userID, lastName)
	if err != nil {
		return nil, fmt.Errorf("listing contacts by last name: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// ListUpcomingBirthdays retrieves the user's contacts whose birthday falls
// within the next seven days. The window compares day-of-month within the
// current month only, so a window crossing a month boundary comes back empty.
func (s *service) ListUpcomingBirthdays(ctx context.Context, userID int64) ([]models.Contact, error) {
	const query = `
		SELECT
			id,
			first_name,
			last_name,
			email,
			phone,
			birthday,
			created_at,
			updated_at,
			user_id
		FROM contacts
		WHERE user_id = $1
		  AND EXTRACT(DAY FROM birthday) >= $2
		  AND EXTRACT(DAY FROM birthday) <= $3
		  AND EXTRACT(MONTH FROM birthday) = $4
		ORDER BY id
	`

	today := time.Now()
	weekAhead := today.AddDate(0, 0, 7)

	rows, err := s.pool.Query(ctx, query, userID, today.Day(), weekAhead.Day(), int(today.Month()))
	if err != nil {
		return nil, fmt.Errorf("listing upcoming birthdays: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// ---------------------------------------------
// Helpers
// ---------------------------------------------

// scanContacts drains a contact result set
func scanContacts(rows pgx.Rows) ([]models.Contact, error) {
	var contacts []models.Contact
	for rows.Next() {
		var contact models.Contact
		err := rows.Scan(
			&contact.ID,
			&contact.FirstName,
			&contact.LastName,
			&contact.Email,
			&contact.Phone,
			&contact.Birthday,
			&contact.CreatedAt,
			&contact.UpdatedAt,
			&contact.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}

	return contacts, nil
}
