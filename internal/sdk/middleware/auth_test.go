package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/sdk/models"
	"github.com/nourabuild/contacts-service/internal/sdk/sqldb"
	"github.com/nourabuild/contacts-service/internal/services/token"
)

// stubDB satisfies sqldb.Service for the single method Authenticate touches.
// Calling anything else panics via the embedded nil interface.
type stubDB struct {
	sqldb.Service
	user models.User
	err  error
}

func (s *stubDB) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.user, s.err
}

var authTestUser = models.User{
	ID:        7,
	Username:  "steve",
	Email:     "steve@example.com",
	Confirmed: true,
}

func probeRouter(tokens *token.TokenService, db sqldb.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", Authenticate(tokens, db), func(c *gin.Context) {
		user, err := GetUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func errCode(w *httptest.ResponseRecorder) string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body["error"]
}

func TestAuthenticate_Success(t *testing.T) {
	tokens := token.NewTokenService()
	db := &stubDB{user: authTestUser}
	r := probeRouter(tokens, db)

	accessToken, _, err := tokens.GenerateTokens(context.Background(), authTestUser.Email)
	if err != nil {
		t.Fatalf("generating tokens: %v", err)
	}

	w := probe(r, "Bearer "+accessToken)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["email"] != authTestUser.Email {
		t.Errorf("expected email %s, got %s", authTestUser.Email, body["email"])
	}
}

func TestAuthenticate_HeaderErrors(t *testing.T) {
	tokens := token.NewTokenService()
	r := probeRouter(tokens, &stubDB{user: authTestUser})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{
			name:     "missing header",
			header:   "",
			wantCode: "missing_authorization_header",
		},
		{
			name:     "wrong scheme",
			header:   "Basic dXNlcjpwYXNz",
			wantCode: "invalid_authorization_header",
		},
		{
			name:     "garbage token",
			header:   "Bearer not.a.token",
			wantCode: "invalid_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := probe(r, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if got := errCode(w); got != tt.wantCode {
				t.Errorf("expected error %s, got %s", tt.wantCode, got)
			}
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tokens := token.NewTokenService()
	r := probeRouter(tokens, &stubDB{user: authTestUser})

	expired := *tokens
	expired.AccessTokenExpiry = -time.Minute
	accessToken, err := expired.GenerateAccessToken(context.Background(), authTestUser.Email)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	w := probe(r, "Bearer "+accessToken)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if got := errCode(w); got != "expired_token" {
		t.Errorf("expected error expired_token, got %s", got)
	}
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	tokens := token.NewTokenService()
	r := probeRouter(tokens, &stubDB{user: authTestUser})

	_, refreshToken, err := tokens.GenerateTokens(context.Background(), authTestUser.Email)
	if err != nil {
		t.Fatalf("generating tokens: %v", err)
	}

	w := probe(r, "Bearer "+refreshToken)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if got := errCode(w); got != "invalid_token_scope" {
		t.Errorf("expected error invalid_token_scope, got %s", got)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	tokens := token.NewTokenService()
	r := probeRouter(tokens, &stubDB{err: sqldb.ErrDBNotFound})

	accessToken, _, err := tokens.GenerateTokens(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("generating tokens: %v", err)
	}

	w := probe(r, "Bearer "+accessToken)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if got := errCode(w); got != "user_not_found" {
		t.Errorf("expected error user_not_found, got %s", got)
	}
}

func TestGetUser_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, err := GetUser(c); err == nil {
		t.Error("expected error when no user is set")
	}
}
