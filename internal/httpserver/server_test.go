package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/trailmeals/server/internal/config"
)

func testServer() *Server {
	cfg := &config.Config{
		Port:      8080,
		AuthMode:  "none",
		Catalog:   config.CatalogConfig{Mode: config.CatalogModeMemory},
		Blob:      config.BlobConfig{Mode: config.BlobModeLocal},
		Nutrition: config.NutritionConfig{BaseURL: "https://api.example.com"},
	}
	return New(cfg, zerolog.Nop())
}

func TestHealthz(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

// TestDevAuthAndCreateTrip walks the full middleware chain: obtain a dev
// token, then create a trip with it.
func TestDevAuthAndCreateTrip(t *testing.T) {
	cfg := &config.Config{
		Port:          8080,
		AuthMode:      "dev",
		AuthRequired:  true,
		JWTSecret:     "test_secret",
		JWTIssuer:     "trailmeals-test",
		JWTTTLMinutes: 60,
		Catalog:       config.CatalogConfig{Mode: config.CatalogModeMemory},
		Blob:          config.BlobConfig{Mode: config.BlobModeLocal},
		Nutrition:     config.NutritionConfig{BaseURL: "https://api.example.com"},
	}
	srv := New(cfg, zerolog.Nop())
	handler := srv.Handler()

	// Without a token the trips API is closed.
	req := httptest.NewRequest(http.MethodGet, "/v1/trips", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// Issue a dev token.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/dev", bytes.NewBufferString(`{"user_id":"hiker"}`))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from dev auth, got %d: %s", w.Code, w.Body.String())
	}

	var authResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	// Create a trip with the token.
	body := bytes.NewBufferString(`{"name":"Sierra Loop","days":3,"start_date":"2026-06-01"}`)
	req = httptest.NewRequest(http.MethodPost, "/v1/trips", body)
	req.Header.Set("Authorization", "Bearer "+authResp.AccessToken)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}
