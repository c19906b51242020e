package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/trailmeals/server/internal/config"
	"github.com/trailmeals/server/internal/userctx"
)

func testConfig() *config.Config {
	return &config.Config{
		AuthMode:      "dev",
		AuthRequired:  true,
		JWTSecret:     "test_secret",
		JWTIssuer:     "trailmeals-test",
		JWTTTLMinutes: 60,
	}
}

func TestSignInDevAndVerify(t *testing.T) {
	svc := NewService(testConfig())

	resp, err := svc.SignInDev("")
	if err != nil {
		t.Fatalf("SignInDev failed: %v", err)
	}
	if resp.UserID != "dev-user" {
		t.Fatalf("expected default user id dev-user, got %s", resp.UserID)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("expected Bearer token type, got %s", resp.TokenType)
	}

	sub, err := svc.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyJWT failed: %v", err)
	}
	if sub != "dev-user" {
		t.Fatalf("expected sub dev-user, got %s", sub)
	}
}

func TestSignInDevCustomUser(t *testing.T) {
	svc := NewService(testConfig())

	resp, err := svc.SignInDev("alice")
	if err != nil {
		t.Fatalf("SignInDev failed: %v", err)
	}

	sub, err := svc.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyJWT failed: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("expected sub alice, got %s", sub)
	}
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	svc := NewService(testConfig())

	if _, err := svc.VerifyJWT("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewService(testConfig())
	resp, err := issuer.SignInDev("bob")
	if err != nil {
		t.Fatalf("SignInDev failed: %v", err)
	}

	other := testConfig()
	other.JWTSecret = "different_secret"
	verifier := NewService(other)

	if _, err := verifier.VerifyJWT(resp.AccessToken); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestHandleDevAuth(t *testing.T) {
	h := NewHandlers(NewService(testConfig()))

	body := bytes.NewBufferString(`{"user_id":"carol"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", body)
	rec := httptest.NewRecorder()

	h.HandleDevAuth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp DevAuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != "carol" {
		t.Fatalf("expected user_id carol, got %s", resp.UserID)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected non-empty access token")
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	svc := NewService(cfg)
	mw := NewMiddleware(cfg, svc, zerolog.Nop())

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = userctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := mw.RequireAuth(next)

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/trips", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "unauthorized") {
			t.Fatalf("expected unauthorized error body, got %s", rec.Body.String())
		}
	})

	t.Run("valid token passes and sets user", func(t *testing.T) {
		resp, err := svc.SignInDev("dave")
		if err != nil {
			t.Fatalf("SignInDev failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/trips", nil)
		req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUserID != "dave" {
			t.Fatalf("expected user dave in context, got %q", gotUserID)
		}
	})

	t.Run("public path skips auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for public path, got %d", rec.Code)
		}
	})
}
