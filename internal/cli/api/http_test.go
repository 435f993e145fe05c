package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"BrainrotKeeper/internal/cli/auth"
)

func TestPostJSON_SendsToken_And_ParsesBody(t *testing.T) {
	// test server проверяет cookie и JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Cookie"); !strings.Contains(c, "auth_token=tok123") {
			t.Fatalf("Cookie header missing token, got: %q", c)
		}
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if m["x"] != float64(1) { // JSON number → float64
			t.Fatalf("unexpected payload: %#v", m)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	resp, body, err := PostJSON(context.Background(), ts.URL+"/api", map[string]any{"x": 1}, "tok123")
	if err != nil {
		t.Fatalf("PostJSON err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(body)) != `{"ok":true}` {
		t.Fatalf("body: %s", string(body))
	}
}

// PostJSON без токена — Cookie заголовок не должен устанавливаться
func TestPostJSON_NoToken_NoCookieHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Cookie"); c != "" {
			t.Fatalf("Cookie must be empty when token not provided, got: %q", c)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if _, _, err := PostJSON(context.Background(), ts.URL, map[string]any{"x": 1}, ""); err != nil {
		t.Fatalf("PostJSON err: %v", err)
	}
}

func TestPostJSON_JSONMarshalError(t *testing.T) {
	// chan в payload вызовет ошибку json.Marshal
	_, _, err := PostJSON(context.Background(), "http://example.invalid", map[string]any{"c": make(chan int)}, "")
	if err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestPersistAuthFromResponse(t *testing.T) {
	store := auth.NewFileStore(filepath.Join(t.TempDir(), "token"))

	// auth_token вторым cookie — должен сохраниться
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Add("Set-Cookie", (&http.Cookie{Name: "other", Value: "abc"}).String())
	resp.Header.Add("Set-Cookie", (&http.Cookie{Name: "auth_token", Value: "tok-abc"}).String())
	if err := PersistAuthFromResponse(resp, store); err != nil {
		t.Fatalf("persist: %v", err)
	}
	tok, err := store.Load()
	if err != nil || tok != "tok-abc" {
		t.Fatalf("token not saved, got %q err=%v", tok, err)
	}

	// нет cookie
	if err := PersistAuthFromResponse(&http.Response{Header: http.Header{}}, store); err == nil {
		t.Fatalf("expected error when no auth cookie")
	}
}

func TestClient_Do(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err != nil || c.Value != "tok" {
			t.Fatalf("missing auth cookie")
		}
		switch r.URL.Path {
		case "/api/profiles/My%20Main/items", "/api/profiles/My Main/items":
			if r.URL.Query().Get("sort") != "name_asc" {
				t.Fatalf("query lost: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"items":[{"id":"1"}]}`))
		case "/api/profiles":
			if r.Header.Get("Content-Type") != "application/json" {
				t.Fatalf("content type: %s", r.Header.Get("Content-Type"))
			}
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"already exists: profile \"Main\""}`))
		case "/api/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := New(ts.URL+"/", "tok")
	ctx := context.Background()

	var out struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	err := c.Do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape("My Main")+"/items", url.Values{"sort": {"name_asc"}}, nil, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != "1" {
		t.Fatalf("decoded: %+v", out)
	}

	err = c.Do(ctx, http.MethodPost, "/api/profiles", nil, map[string]string{"name": "Main"}, nil)
	if StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("server message lost: %v", err)
	}

	if err := c.Do(ctx, http.MethodDelete, "/api/empty", nil, nil, &out); err != nil {
		t.Fatalf("empty body must not fail: %v", err)
	}

	err = c.Do(ctx, http.MethodGet, "/missing", nil, nil, nil)
	if StatusOf(err) != http.StatusNotFound || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("plain text error expected, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	if err := c.Do(context.Background(), http.MethodGet, "/", nil, nil, nil); err == nil {
		t.Fatalf("expected network error")
	}
	if StatusOf(nil) != 0 {
		t.Fatalf("nil error has no status")
	}
}

func TestErrorMessage_Fields(t *testing.T) {
	msg := errorMessage([]byte(`{"error":"invalid request","fields":{"name":"This field is required"}}`))
	if msg != "invalid request; name: This field is required" {
		t.Fatalf("msg: %q", msg)
	}
}
