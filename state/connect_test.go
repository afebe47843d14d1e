package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"chapterprep/api"
	"chapterprep/config"
	"chapterprep/session"
)

func connectedEnv(t *testing.T, url string) *LocalEnv {
	t.Helper()

	env := &LocalEnv{
		Cfg: &config.Config{
			Version: 1,
			API:     config.APIConfig{URL: url, Timeout: 5 * time.Second, UserAgent: "chapterprep"},
			Session: config.SessionConfig{Path: filepath.Join(t.TempDir(), "session.db")},
		},
		Log:   zaptest.NewLogger(t),
		start: time.Now(),
	}
	if err := env.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() {
		if err := env.Disconnect(); err != nil {
			t.Errorf("Disconnect() error = %v", err)
		}
	})
	return env
}

func TestConnect_RequireSession(t *testing.T) {
	env := connectedEnv(t, "http://localhost:8000")

	if _, err := env.RequireSession(); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("RequireSession() error = %v, want ErrLoginRequired", err)
	}

	want := session.Session{Token: "tkn", Username: "alice", UserID: 3}
	if err := env.Session.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := env.RequireSession()
	if err != nil {
		t.Fatalf("RequireSession() error = %v", err)
	}
	if got != want {
		t.Errorf("RequireSession() = %+v, want %+v", got, want)
	}
}

func TestConnect_UnauthorizedClearsSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	env := connectedEnv(t, srv.URL)
	if err := env.Session.Save(session.Session{Token: "expired", Username: "alice", UserID: 3}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := env.API.ListBooks(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("ListBooks() error = %v, want ErrUnauthorized", err)
	}
	if gotAuth != "Bearer expired" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if _, err := env.RequireSession(); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("session must be cleared after 401, got %v", err)
	}
}

func TestConnect_BadURL(t *testing.T) {
	env := &LocalEnv{
		Cfg: &config.Config{
			API:     config.APIConfig{URL: "ftp://example.org", Timeout: time.Second},
			Session: config.SessionConfig{Path: ":memory:"},
		},
	}
	if err := env.Connect(); err == nil {
		t.Fatal("Connect() expected error for unsupported scheme")
	}
	if env.Session != nil || env.API != nil {
		t.Error("failed Connect() must not leave anything behind")
	}
}

func TestDisconnect_NotConnected(t *testing.T) {
	env := &LocalEnv{}
	if err := env.Disconnect(); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}
	if _, err := env.RequireSession(); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("RequireSession() error = %v", err)
	}
}
