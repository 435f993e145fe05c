package commands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"BrainrotKeeper/internal/cli/auth"
)

// --- login tests ---
func TestLogin_Run_SuccessAndErrors(t *testing.T) {
	// HTTP сервер имитирует /api/user/login
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/user/login") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok-123"})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"u1","login":"alice"}`))
	}))
	defer ts.Close()

	cfg := newTestConfig(t, ts.URL)
	cmd := loginCmd{}
	if err := cmd.Run(context.Background(), cfg, []string{"alice", "secret"}); err != nil {
		t.Fatalf("login should succeed: %v", err)
	}
	store := auth.NewFileStore(cfg.TokenFile)
	if tok, err := store.Load(); err != nil || tok != "tok-123" {
		t.Fatalf("auth token not saved: %q %v", tok, err)
	}
	if login, err := store.LoadLogin(); err != nil || login != "alice" {
		t.Fatalf("login not saved: %q %v", login, err)
	}

	// 401 Unauthorized
	ts401 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer ts401.Close()
	if err := cmd.Run(context.Background(), newTestConfig(t, ts401.URL), []string{"alice", "bad"}); err == nil {
		t.Fatalf("expected error for 401")
	}

	// недостаточно аргументов → ErrUsage
	if err := cmd.Run(context.Background(), cfg, []string{"onlyLogin"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}

	// server 500 → ошибка
	ts500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts500.Close()
	if err := cmd.Run(context.Background(), newTestConfig(t, ts500.URL), []string{"a", "b"}); err == nil {
		t.Fatalf("expected error for 500")
	}
}

// --- register tests ---
func TestRegister_Run_SuccessAndErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/user/register") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok-xyz"})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"u2","login":"bob"}`))
	}))
	defer ts.Close()

	cfg := newTestConfig(t, ts.URL)
	cmd := registerCmd{}
	if err := cmd.Run(context.Background(), cfg, []string{"bob", "pwd"}); err != nil {
		t.Fatalf("register should succeed: %v", err)
	}
	if login, err := auth.NewFileStore(cfg.TokenFile).LoadLogin(); err != nil || login != "bob" {
		t.Fatalf("last_login not saved: %q %v", login, err)
	}

	// 409 Conflict
	ts409 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer ts409.Close()
	err := cmd.Run(context.Background(), newTestConfig(t, ts409.URL), []string{"bob", "pwd"})
	if err == nil || !strings.Contains(err.Error(), "already in use") {
		t.Fatalf("expected conflict error, got %v", err)
	}

	if err := cmd.Run(context.Background(), cfg, []string{"onlyLogin"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestLogout_ClearsToken(t *testing.T) {
	cfg := newTestConfig(t, "http://unused")
	store := auth.NewFileStore(cfg.TokenFile)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}
	if err := (logoutCmd{}).Run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, auth.ErrNoToken) {
		t.Fatalf("token must be removed, got %v", err)
	}
	// без токена команды, требующие входа, подсказывают login
	err := (profilesCmd{}).Run(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "login") {
		t.Fatalf("expected login hint, got %v", err)
	}
}
