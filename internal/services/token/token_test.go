package token

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

const (
	testIssuer = "test-issuer"
	testSecret = "test-secret-key"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("JWT_SECRET_KEY", testSecret)
	_ = os.Setenv("JWT_ISSUER", testIssuer)

	code := m.Run()
	os.Exit(code)
}

func TestNewTokenService(t *testing.T) {
	srv := NewTokenService()
	if srv == nil {
		t.Fatal("NewTokenService() returned nil")
	}
	if srv.Issuer != testIssuer {
		t.Fatalf("expected issuer %q, got %q", testIssuer, srv.Issuer)
	}
	if string(srv.SecretKey) != testSecret {
		t.Fatalf("expected secret %q, got %q", testSecret, srv.SecretKey)
	}
}

func TestGenerateTokens(t *testing.T) {
	srv := NewTokenService()
	access, refresh, err := srv.GenerateTokens(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}
	if access == "" {
		t.Fatal("expected non-empty access token")
	}
	if refresh == "" {
		t.Fatal("expected non-empty refresh token")
	}
	if access == refresh {
		t.Fatal("expected access and refresh tokens to differ")
	}
}

func TestParseAccessToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := NewTokenService()
		access, err := srv.GenerateAccessToken(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("GenerateAccessToken returned error: %v", err)
		}

		claims, err := srv.ParseAccessToken(context.Background(), access)
		if err != nil {
			t.Fatalf("ParseAccessToken returned error: %v", err)
		}
		if claims.Subject != "user@example.com" {
			t.Fatalf("expected subject user@example.com, got %q", claims.Subject)
		}
		if claims.Scope != ScopeAccess {
			t.Fatalf("expected scope %q, got %q", ScopeAccess, claims.Scope)
		}
		if claims.ID == "" {
			t.Fatal("expected non-empty token id")
		}
	})

	t.Run("empty token", func(t *testing.T) {
		srv := NewTokenService()

		_, err := srv.ParseAccessToken(context.Background(), "")
		if !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		srv := NewTokenService()

		_, err := srv.ParseAccessToken(context.Background(), "not-a-jwt")
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		srv := NewTokenService()
		access, err := srv.GenerateAccessToken(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("GenerateAccessToken returned error: %v", err)
		}

		other := NewTokenService()
		other.SecretKey = []byte("a-completely-different-secret")
		_, err = other.ParseAccessToken(context.Background(), access)
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		srv := NewTokenService()
		srv.AccessTokenExpiry = -time.Minute

		access, err := srv.GenerateAccessToken(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("GenerateAccessToken returned error: %v", err)
		}

		_, err = srv.ParseAccessToken(context.Background(), access)
		if !errors.Is(err, ErrExpiredToken) {
			t.Fatalf("expected ErrExpiredToken, got %v", err)
		}
	})
}

func TestScopeEnforcement(t *testing.T) {
	srv := NewTokenService()
	ctx := context.Background()

	access, refresh, err := srv.GenerateTokens(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}
	email, err := srv.GenerateEmailToken(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateEmailToken returned error: %v", err)
	}

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, err := srv.ParseAccessToken(ctx, refresh)
		if !errors.Is(err, ErrInvalidScope) {
			t.Fatalf("expected ErrInvalidScope, got %v", err)
		}
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		_, err := srv.ParseRefreshToken(ctx, access)
		if !errors.Is(err, ErrInvalidScope) {
			t.Fatalf("expected ErrInvalidScope, got %v", err)
		}
	})

	t.Run("email token rejected as access token", func(t *testing.T) {
		_, err := srv.ParseAccessToken(ctx, email)
		if !errors.Is(err, ErrInvalidScope) {
			t.Fatalf("expected ErrInvalidScope, got %v", err)
		}
	})

	t.Run("email token accepted as email token", func(t *testing.T) {
		claims, err := srv.ParseEmailToken(ctx, email)
		if err != nil {
			t.Fatalf("ParseEmailToken returned error: %v", err)
		}
		if claims.Scope != ScopeEmail {
			t.Fatalf("expected scope %q, got %q", ScopeEmail, claims.Scope)
		}
	})
}

func TestParseRefreshToken(t *testing.T) {
	srv := NewTokenService()
	_, refresh, err := srv.GenerateTokens(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}

	claims, err := srv.ParseRefreshToken(context.Background(), refresh)
	if err != nil {
		t.Fatalf("ParseRefreshToken returned error: %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Fatalf("expected subject user@example.com, got %q", claims.Subject)
	}
	if claims.Scope != ScopeRefresh {
		t.Fatalf("expected scope %q, got %q", ScopeRefresh, claims.Scope)
	}
}

func TestGetSubjectFromToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := NewTokenService()
		access, err := srv.GenerateAccessToken(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("GenerateAccessToken returned error: %v", err)
		}

		subject, err := srv.GetSubjectFromToken(context.Background(), access)
		if err != nil {
			t.Fatalf("GetSubjectFromToken returned error: %v", err)
		}
		if subject != "user@example.com" {
			t.Fatalf("expected subject user@example.com, got %q", subject)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		srv := NewTokenService()

		_, err := srv.GetSubjectFromToken(context.Background(), "not-a-jwt")
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}
