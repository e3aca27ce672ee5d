package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionValues decodes the session cookie the client currently holds.
func sessionValues(t *testing.T, ts *httptest.Server, client *http.Client, s *server) map[any]any {
	t.Helper()
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	store := s.store.(*sessions.CookieStore)
	values := map[any]any{}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == sessionName {
			require.NoError(t, securecookie.DecodeMulti(sessionName, c.Value, &values, store.Codecs...))
		}
	}
	return values
}

// forgeSession plants a session cookie claiming userID without going
// through the login form.
func forgeSession(t *testing.T, ts *httptest.Server, client *http.Client, s *server, userID int64) {
	t.Helper()
	store := s.store.(*sessions.CookieStore)
	encoded, err := securecookie.EncodeMulti(sessionName, map[any]any{currUserKey: userID}, store.Codecs...)
	require.NoError(t, err)
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	client.Jar.SetCookies(u, []*http.Cookie{sessions.NewCookie(sessionName, encoded, store.Options)})
}

func TestSignupLogsIn(t *testing.T) {
	ts, client, s := setupTestServer(t)

	body := signup(t, ts, client, "testuser", "password")
	assert.Contains(t, body, "@testuser")
	assert.Contains(t, body, "Log out")

	u, err := s.users.GetByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sessionValues(t, ts, client, s)[currUserKey])
}

func TestSignupValidation(t *testing.T) {
	ts, client, _ := setupTestServer(t)

	_, body := post(t, client, ts.URL+"/signup", url.Values{
		"username": {""},
		"email":    {"not-an-email"},
		"password": {"123"},
	})
	assert.True(t, containsAll(body,
		"Username is required.",
		"Invalid email address.",
		"Password must be at least 6 characters."))
}

func TestSignupDuplicateUsername(t *testing.T) {
	ts, client, _ := setupTestServer(t)
	signup(t, ts, client, "testuser", "password")
	logout(t, ts, client)

	body := signup(t, ts, client, "testuser", "password")
	assert.Contains(t, body, "Username already taken")
}

func TestLogin(t *testing.T) {
	ts, client, s := setupTestServer(t)
	seedUser(t, s.users, "testuser")

	body := login(t, ts, client, "testuser", "password")
	assert.Contains(t, body, "Hello, testuser!")

	other := newClient(t, ts)
	body = login(t, ts, other, "testuser", "wrongpassword")
	assert.Contains(t, body, "Invalid credentials.")
	body = login(t, ts, other, "nobody", "password")
	assert.Contains(t, body, "Invalid credentials.")
}

func TestLogout(t *testing.T) {
	ts, client, s := setupTestServer(t)
	signup(t, ts, client, "testuser", "password")

	body := logout(t, ts, client)
	assert.Contains(t, body, "You have successfully logged out.")
	assert.NotContains(t, sessionValues(t, ts, client, s), currUserKey)

	resp, _ := get(t, noRedirect(client), ts.URL+"/messages/new")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestStaleSessionIsAnonymous(t *testing.T) {
	ts, client, s := setupTestServer(t)
	forgeSession(t, ts, client, s, 4242)

	_, body := get(t, client, ts.URL+"/")
	assert.Contains(t, body, "New to Warbler?")
}

func TestForgedSessionLogsIn(t *testing.T) {
	ts, client, s := setupTestServer(t)
	u := seedUser(t, s.users, "testuser")
	forgeSession(t, ts, client, s, u.ID)

	_, body := get(t, client, ts.URL+"/")
	assert.Contains(t, body, "@testuser")
}

func TestShowUser(t *testing.T) {
	ts, client, s := setupTestServer(t)
	u := seedUser(t, s.users, "testuser")
	u.Bio = "a <b>bold</b> bio"
	require.NoError(t, s.users.Update(context.Background(), s.db, u))
	seedMessage(t, s.messages, u.ID, "profile message")

	resp, body := get(t, client, fmt.Sprintf("%s/users/%d", ts.URL, u.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@testuser")
	assert.Contains(t, body, "profile message")
	assert.NotContains(t, body, "<b>bold</b>")

	resp, body = get(t, client, ts.URL+"/users/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "404")
}

func TestProtectedUserPages(t *testing.T) {
	ts, client, s := setupTestServer(t)
	u := seedUser(t, s.users, "testuser")

	for _, path := range []string{
		fmt.Sprintf("/users/%d/following", u.ID),
		fmt.Sprintf("/users/%d/followers", u.ID),
		fmt.Sprintf("/users/%d/likes", u.ID),
		"/users/profile",
	} {
		t.Run(path, func(t *testing.T) {
			_, body := get(t, client, ts.URL+path)
			assert.Contains(t, body, "Access unauthorized.")
		})
	}

	login(t, ts, client, "testuser", "password")
	resp, body := get(t, client, fmt.Sprintf("%s/users/%d/followers", ts.URL, u.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Access unauthorized.")
}

func TestFollowUnknownUser(t *testing.T) {
	ts, client, _ := setupTestServer(t)
	signup(t, ts, client, "testuser", "password")

	resp, _ := post(t, client, ts.URL+"/users/follow/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStopFollowing(t *testing.T) {
	ts, client, s := setupTestServer(t)
	bob := seedUser(t, s.users, "bob")
	signup(t, ts, client, "alice", "password")
	alice, err := s.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)

	post(t, client, fmt.Sprintf("%s/users/follow/%d", ts.URL, bob.ID), nil)
	_, body := post(t, client, fmt.Sprintf("%s/users/stop-following/%d", ts.URL, bob.ID), nil)
	assert.NotContains(t, body, "@bob")

	following, err := s.users.IsFollowing(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestEditProfile(t *testing.T) {
	ts, client, s := setupTestServer(t)
	signup(t, ts, client, "testuser", "password")

	_, body := get(t, client, ts.URL+"/users/profile")
	assert.Contains(t, body, "Edit Your Profile.")

	form := url.Values{
		"username": {"renamed"},
		"email":    {"renamed@example.com"},
		"bio":      {"new bio"},
		"password": {"wrongpassword"},
	}
	_, body = post(t, client, ts.URL+"/users/profile", form)
	assert.Contains(t, body, "Wrong password, please try again.")

	form.Set("password", "password")
	_, body = post(t, client, ts.URL+"/users/profile", form)
	assert.Contains(t, body, "@renamed")
	assert.Contains(t, body, "new bio")

	u, err := s.users.GetByUsername(context.Background(), "renamed")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "renamed@example.com", u.Email)
}

func TestDeleteUser(t *testing.T) {
	ts, client, s := setupTestServer(t)
	signup(t, ts, client, "testuser", "password")
	post(t, client, ts.URL+"/messages/new", url.Values{"text": {"bye"}})

	resp, _ := post(t, noRedirect(client), ts.URL+"/users/delete", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Header.Get("Location"))

	u, err := s.users.GetByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Zero(t, messageCount(t, s))
}

func TestSearchUsersPage(t *testing.T) {
	ts, client, s := setupTestServer(t)
	seedUser(t, s.users, "alice")
	seedUser(t, s.users, "bob")

	_, body := get(t, client, ts.URL+"/users?q=ali")
	assert.Contains(t, body, "@alice")
	assert.NotContains(t, body, "@bob")

	_, body = get(t, client, ts.URL+"/users?q=zzz")
	assert.Contains(t, body, "Sorry, no users found")
}

func TestMetricsEndpoint(t *testing.T) {
	ts, client, _ := setupTestServer(t)
	get(t, client, ts.URL+"/")

	resp, body := get(t, client, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "warbler_http_request_duration_seconds")
}
