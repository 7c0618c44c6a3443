package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trenatra/auth-api/internal/infrastructure/db/sqlite"
	"github.com/trenatra/auth-api/internal/pkg/config"
)

func newTestRouter(t *testing.T) (*echo.Echo, *sql.DB) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Port:    "8080",
		Env:     "test",
		Session: config.SessionConfig{TTL: 7 * 24 * time.Hour},
	}
	return NewRouter(db, nil, cfg, zerolog.Nop()), db
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string, mutate func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	resp := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: invalid json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestRouter_RegisterLoginMe_RoundTrip(t *testing.T) {
	e, db := newTestRouter(t)

	// Register.
	rec, resp := doJSON(t, e, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"p1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if resp["id"] != float64(1) || resp["name"] != "Alice" || resp["email"] != "a@x.com" {
		t.Fatalf("register payload: %+v", resp)
	}

	// The stored credential must never equal the plaintext.
	var hash string
	if err := db.QueryRow(`SELECT password_hash FROM user WHERE email = ?`, "a@x.com").Scan(&hash); err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if hash == "p1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("password stored without bcrypt hashing: %q", hash)
	}

	// Duplicate registration conflicts.
	rec, resp = doJSON(t, e, http.MethodPost, "/auth/register",
		`{"name":"Alice2","email":"a@x.com","password":"p2"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}
	if resp["error"] != "email already registered" {
		t.Fatalf("duplicate register message: %+v", resp)
	}

	// Login with Basic credentials.
	before := time.Now().UTC()
	rec, resp = doJSON(t, e, http.MethodPost, "/auth/login", "", func(r *http.Request) {
		r.SetBasicAuth("a@x.com", "p1")
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if resp["id"] != float64(1) || resp["email"] != "a@x.com" {
		t.Fatalf("login payload: %+v", resp)
	}
	session, _ := resp["session"].(map[string]any)
	token, _ := session["token"].(string)
	if len(token) != 43 {
		t.Fatalf("unexpected token: %q", token)
	}
	expiresAt, err := time.Parse(time.RFC3339, session["expires_at"].(string))
	if err != nil {
		t.Fatalf("expires_at not RFC3339: %v", err)
	}
	want := before.Add(7 * 24 * time.Hour)
	if d := expiresAt.Sub(want); d < -5*time.Second || d > 5*time.Second {
		t.Fatalf("expiry %v not ~7 days out (want ~%v)", expiresAt, want)
	}

	// The issued token resolves to the same identity.
	rec, resp = doJSON(t, e, http.MethodGet, "/auth/me", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if resp["id"] != float64(1) || resp["name"] != "Alice" || resp["email"] != "a@x.com" {
		t.Fatalf("me payload: %+v", resp)
	}

	// Garbage token is rejected.
	rec, garbage := doJSON(t, e, http.MethodGet, "/auth/me", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}

	// A backdated (expired) token fails exactly like an unknown one.
	if _, err := db.Exec(`UPDATE session SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Minute), token); err != nil {
		t.Fatalf("backdate session: %v", err)
	}
	rec, expired := doJSON(t, e, http.MethodGet, "/auth/me", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", rec.Code)
	}
	if expired["error"] != garbage["error"] {
		t.Fatalf("expired (%v) and unknown (%v) tokens must be indistinguishable", expired["error"], garbage["error"])
	}
}

func TestRouter_Login_Failures(t *testing.T) {
	e, _ := newTestRouter(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"p1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d", rec.Code)
	}

	// Wrong password.
	rec, resp := doJSON(t, e, http.MethodPost, "/auth/login", "", func(r *http.Request) {
		r.SetBasicAuth("a@x.com", "wrong")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}
	if resp["error"] != "invalid credentials" {
		t.Fatalf("wrong password message: %+v", resp)
	}

	// Unknown email.
	rec, resp = doJSON(t, e, http.MethodPost, "/auth/login", "", func(r *http.Request) {
		r.SetBasicAuth("ghost@x.com", "p1")
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", rec.Code)
	}
	if resp["error"] != "user not found" {
		t.Fatalf("unknown email message: %+v", resp)
	}

	// No credentials at all.
	rec, _ = doJSON(t, e, http.MethodPost, "/auth/login", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing credentials: expected 401, got %d", rec.Code)
	}
}

func TestRouter_WelcomeAndHealth(t *testing.T) {
	e, _ := newTestRouter(t)

	rec, resp := doJSON(t, e, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK || resp["message"] != "Welcome to Trenatra API" {
		t.Fatalf("welcome: %d %+v", rec.Code, resp)
	}

	rec, resp = doJSON(t, e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("health: %d %+v", rec.Code, resp)
	}

	rec, resp = doJSON(t, e, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("readiness: %d %+v", rec.Code, resp)
	}
}
