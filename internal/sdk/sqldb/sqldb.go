// Package sqldb provides PostgreSQL persistence for the contacts service.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nourabuild/contacts-service/internal/sdk/models"
)

// PostgreSQL error codes.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var (
	ErrDBNotFound        = errors.New("not found")
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
)

// Service represents a service that interacts with the database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Close terminates the database connection pool.
	Close()

	// User operations
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, nu models.NewUser) (models.User, error)
	UpdateRefreshToken(ctx context.Context, userID int64, token *string) error
	ConfirmUserEmail(ctx context.Context, email string) error
	UpdateUserAvatar(ctx context.Context, email, url string) (models.User, error)

	// Contact operations. Every query is scoped by the owning user's id;
	// rows belonging to other users are invisible, not forbidden.
	ListContacts(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error)
	GetContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error)
	GetContactByEmail(ctx context.Context, userID int64, email string) (models.Contact, error)
	CreateContact(ctx context.Context, nc models.NewContact) (models.Contact, error)
	UpdateContact(ctx context.Context, userID, contactID int64, nc models.NewContact) (models.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID int64) error
	ListContactsByFirstName(ctx context.Context, userID int64, firstName string) ([]models.Contact, error)
	ListContactsByLastName(ctx context.Context, userID int64, lastName string) ([]models.Contact, error)
	ListUpcomingBirthdays(ctx context.Context, userID int64) ([]models.Contact, error)
}

// PgxPool is a minimal abstraction over a Postgres connection pool.
// It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type service struct {
	pool PgxPool
}

// New creates a connection pool for the given DSN and verifies connectivity.
func New(ctx context.Context, dsn string) (Service, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &service{pool: pool}, nil
}

// NewWithPool wraps an existing pool. Used by tests with pgxmock.
func NewWithPool(pool PgxPool) Service {
	return &service{pool: pool}
}

// Health checks the database connection by pinging it and reports pool stats.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	// pgxmock pools do not expose Stat; real pools do.
	if p, ok := s.pool.(interface{ Stat() *pgxpool.Stat }); ok {
		st := p.Stat()
		stats["total_conns"] = strconv.Itoa(int(st.TotalConns()))
		stats["idle_conns"] = strconv.Itoa(int(st.IdleConns()))
		stats["acquired_conns"] = strconv.Itoa(int(st.AcquiredConns()))
		stats["max_conns"] = strconv.Itoa(int(st.MaxConns()))
	}

	return stats
}

// Close closes the underlying connection pool.
func (s *service) Close() {
	s.pool.Close()
}

// isPgError checks if the error is a PostgreSQL error with the given code
func isPgError(err error, code string) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == code
	}
	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDBNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error.
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDBDuplicatedEntry)
}
