// Package models defines data models for the contacts service.
package models

import "time"

// User represents an account owning a set of contacts.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Password     []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	RefreshToken *string   `json:"-"`
	Avatar       *string   `json:"avatar,omitempty"`
	Confirmed    bool      `json:"confirmed"`
}

// NewUser carries the fields required to create a user.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password []byte `json:"-"`
}

// Contact represents a single address-book entry. A contact always belongs
// to exactly one user and is never visible outside that user's requests.
type Contact struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  time.Time `json:"birthday"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int64     `json:"-"`
}

// NewContact carries the fields required to create or fully update a contact.
type NewContact struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  time.Time `json:"birthday"`
	UserID    int64     `json:"-"`
}
