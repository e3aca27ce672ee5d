package main

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// newTestDB opens a fresh database file in a per-test temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openDB(filepath.Join(t.TempDir(), "warbler-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testConfig() *Config {
	return &Config{
		Addr:          ":0",
		SecretKey:     "test-secret",
		StaticDir:     "static",
		LogLevel:      "panic",
		LogFormat:     "text",
		TimelineLimit: 100,
		ProfileLimit:  100,
	}
}

// setupTestServer starts the full router against a fresh database. The
// returned client keeps cookies and follows redirects.
func setupTestServer(t *testing.T) (*httptest.Server, *http.Client, *server) {
	t.Helper()

	cfg := testConfig()
	s, err := newServer(cfg, newTestDB(t), newLogger(cfg, io.Discard))
	require.NoError(t, err)

	ts := httptest.NewServer(s.setupRouter())
	t.Cleanup(ts.Close)

	return ts, newClient(t, ts), s
}

// newClient returns a client for ts with its own cookie jar, so several
// users can be logged in at once.
func newClient(t *testing.T, ts *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := *ts.Client()
	c.Jar = jar
	return &c
}

// noRedirect returns a copy of client that reports redirects instead of
// following them, sharing the cookie jar.
func noRedirect(client *http.Client) *http.Client {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &c
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func get(t *testing.T, client *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(u)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func post(t *testing.T, client *http.Client, u string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(u, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func signup(t *testing.T, ts *httptest.Server, client *http.Client, username, password string) string {
	t.Helper()
	_, body := post(t, client, ts.URL+"/signup", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {password},
	})
	return body
}

func login(t *testing.T, ts *httptest.Server, client *http.Client, username, password string) string {
	t.Helper()
	_, body := post(t, client, ts.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	return body
}

func logout(t *testing.T, ts *httptest.Server, client *http.Client) string {
	t.Helper()
	_, body := get(t, client, ts.URL+"/logout")
	return body
}

// seedUser creates a user straight through the store, bypassing HTTP.
func seedUser(t *testing.T, users *UserStore, username string) *User {
	t.Helper()
	u, err := users.Signup(context.Background(), users.db, SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	return u
}

func seedMessage(t *testing.T, messages *MessageStore, userID int64, text string) *Message {
	t.Helper()
	m := &Message{Text: text, UserID: userID}
	require.NoError(t, messages.Create(context.Background(), m))
	return m
}

func containsAll(body string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(body, p) {
			return false
		}
	}
	return true
}
