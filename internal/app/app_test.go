package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nourabuild/contacts-service/internal/config"
	"github.com/nourabuild/contacts-service/internal/metrics"
	"github.com/nourabuild/contacts-service/internal/sdk/middleware"
	"github.com/nourabuild/contacts-service/internal/sdk/models"
	"github.com/nourabuild/contacts-service/internal/services/hash"
	"github.com/nourabuild/contacts-service/internal/services/sentry"
	"github.com/nourabuild/contacts-service/internal/services/token"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type fakeDB struct {
	healthFunc                  func() map[string]string
	getUserByEmailFunc          func(ctx context.Context, email string) (models.User, error)
	createUserFunc              func(ctx context.Context, nu models.NewUser) (models.User, error)
	updateRefreshTokenFunc      func(ctx context.Context, userID int64, token *string) error
	confirmUserEmailFunc        func(ctx context.Context, email string) error
	updateUserAvatarFunc        func(ctx context.Context, email, url string) (models.User, error)
	listContactsFunc            func(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error)
	getContactByIDFunc          func(ctx context.Context, userID, contactID int64) (models.Contact, error)
	getContactByEmailFunc       func(ctx context.Context, userID int64, email string) (models.Contact, error)
	createContactFunc           func(ctx context.Context, nc models.NewContact) (models.Contact, error)
	updateContactFunc           func(ctx context.Context, userID, contactID int64, nc models.NewContact) (models.Contact, error)
	deleteContactFunc           func(ctx context.Context, userID, contactID int64) error
	listContactsByFirstNameFunc func(ctx context.Context, userID int64, firstName string) ([]models.Contact, error)
	listContactsByLastNameFunc  func(ctx context.Context, userID int64, lastName string) ([]models.Contact, error)
	listUpcomingBirthdaysFunc   func(ctx context.Context, userID int64) ([]models.Contact, error)
}

var errNotImplemented = errors.New("not implemented")

func (f *fakeDB) Health() map[string]string {
	if f.healthFunc != nil {
		return f.healthFunc()
	}
	return map[string]string{"status": "up"}
}

func (f *fakeDB) Close() {}

func (f *fakeDB) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if f.getUserByEmailFunc != nil {
		return f.getUserByEmailFunc(ctx, email)
	}
	return models.User{}, errNotImplemented
}

func (f *fakeDB) CreateUser(ctx context.Context, nu models.NewUser) (models.User, error) {
	if f.createUserFunc != nil {
		return f.createUserFunc(ctx, nu)
	}
	return models.User{}, errNotImplemented
}

func (f *fakeDB) UpdateRefreshToken(ctx context.Context, userID int64, token *string) error {
	if f.updateRefreshTokenFunc != nil {
		return f.updateRefreshTokenFunc(ctx, userID, token)
	}
	return errNotImplemented
}

func (f *fakeDB) ConfirmUserEmail(ctx context.Context, email string) error {
	if f.confirmUserEmailFunc != nil {
		return f.confirmUserEmailFunc(ctx, email)
	}
	return errNotImplemented
}

func (f *fakeDB) UpdateUserAvatar(ctx context.Context, email, url string) (models.User, error) {
	if f.updateUserAvatarFunc != nil {
		return f.updateUserAvatarFunc(ctx, email, url)
	}
	return models.User{}, errNotImplemented
}

func (f *fakeDB) ListContacts(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error) {
	if f.listContactsFunc != nil {
		return f.listContactsFunc(ctx, userID, limit, offset)
	}
	return nil, errNotImplemented
}

func (f *fakeDB) GetContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	if f.getContactByIDFunc != nil {
		return f.getContactByIDFunc(ctx, userID, contactID)
	}
	return models.Contact{}, errNotImplemented
}

func (f *fakeDB) GetContactByEmail(ctx context.Context, userID int64, email string) (models.Contact, error) {
	if f.getContactByEmailFunc != nil {
		return f.getContactByEmailFunc(ctx, userID, email)
	}
	return models.Contact{}, errNotImplemented
}

func (f *fakeDB) CreateContact(ctx context.Context, nc models.NewContact) (models.Contact, error) {
	if f.createContactFunc != nil {
		return f.createContactFunc(ctx, nc)
	}
	return models.Contact{}, errNotImplemented
}

func (f *fakeDB) UpdateContact(ctx context.Context, userID, contactID int64, nc models.NewContact) (models.Contact, error) {
	if f.updateContactFunc != nil {
		return f.updateContactFunc(ctx, userID, contactID, nc)
	}
	return models.Contact{}, errNotImplemented
}

func (f *fakeDB) DeleteContact(ctx context.Context, userID, contactID int64) error {
	if f.deleteContactFunc != nil {
		return f.deleteContactFunc(ctx, userID, contactID)
	}
	return errNotImplemented
}

func (f *fakeDB) ListContactsByFirstName(ctx context.Context, userID int64, firstName string) ([]models.Contact, error) {
	if f.listContactsByFirstNameFunc != nil {
		return f.listContactsByFirstNameFunc(ctx, userID, firstName)
	}
	return nil, errNotImplemented
}

func (f *fakeDB) ListContactsByLastName(ctx context.Context, userID int64, lastName string) ([]models.Contact, error) {
	if f.listContactsByLastNameFunc != nil {
		return f.listContactsByLastNameFunc(ctx, userID, lastName)
	}
	return nil, errNotImplemented
}

func (f *fakeDB) ListUpcomingBirthdays(ctx context.Context, userID int64) ([]models.Contact, error) {
	if f.listUpcomingBirthdaysFunc != nil {
		return f.listUpcomingBirthdaysFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

type fakeMail struct {
	sent chan string
	err  error
}

func (f *fakeMail) SendEmailConfirmation(toEmail, toUsername, confirmURL string) error {
	if f.sent != nil {
		f.sent <- toEmail
	}
	return f.err
}

type fakeAvatars struct {
	uploadFunc func(ctx context.Context, username string, reader io.Reader) (string, error)
}

func (f *fakeAvatars) UploadAvatar(ctx context.Context, username string, reader io.Reader) (string, error) {
	if f.uploadFunc != nil {
		return f.uploadFunc(ctx, username, reader)
	}
	return "", errNotImplemented
}

type fakeLimiter struct {
	allowFunc func(ctx context.Context, key string) (bool, time.Duration, error)
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if f.allowFunc != nil {
		return f.allowFunc(ctx, key)
	}
	return true, 0, nil
}

// =============================================================================
// Test Helpers
// =============================================================================

var testUser = models.User{
	ID:        1,
	Username:  "steve",
	Email:     "steve@example.com",
	Confirmed: true,
	CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
}

func setupTestApp(db *fakeDB) *App {
	return setupTestAppWithMail(db, &fakeMail{})
}

func setupTestAppWithMail(db *fakeDB, m *fakeMail) *App {
	cfg := &config.Config{
		Port:        "8000",
		Environment: "test",
		BaseURL:     "http://localhost:8000",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	return NewApp(
		cfg,
		db,
		token.NewTokenService(),
		hash.NewHashService(),
		m,
		&fakeAvatars{},
		sentry.NewSentryService(),
		&fakeLimiter{},
		metrics.New(prometheus.NewRegistry()),
	)
}

func createTestContext(method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	c.Request = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

// authedTestContext builds a context the way Authenticate leaves it, with the
// test user already resolved.
func authedTestContext(method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	w, c := createTestContext(method, path, body)
	c.Set(middleware.UserKey, testUser)
	return w, c
}

func decodeError(w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}
