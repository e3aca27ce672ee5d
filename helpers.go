package main

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	sessionName = "session"
	currUserKey = "curr_user"
)

type flashMessage struct {
	Category string
	Message  string
}

func init() {
	gob.Register(flashMessage{})
}

// --- Session helpers ---

// newStore builds the cookie store. An empty secret gets a random key,
// which invalidates sessions on every restart.
func newStore(secret string) *sessions.CookieStore {
	key := []byte(secret)
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
	}
	s := sessions.NewCookieStore(key)
	s.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return s
}

// session returns the request's session. A cookie that fails to decode
// yields a fresh, empty session.
func (s *server) session(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		s.log.WithError(err).Debug("discarding undecodable session cookie")
	}
	return sess
}

func (s *server) saveSession(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Error("save session")
	}
}

func (s *server) doLogin(w http.ResponseWriter, r *http.Request, u *User) {
	sess := s.session(r)
	sess.Values[currUserKey] = u.ID
	s.saveSession(w, r, sess)
}

func (s *server) doLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	delete(sess.Values, currUserKey)
	s.saveSession(w, r, sess)
}

func (s *server) flash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess := s.session(r)
	sess.AddFlash(flashMessage{Category: category, Message: message})
	s.saveSession(w, r, sess)
}

// popFlashes drains pending flashes. The session is only re-saved when
// there was something to drain.
func (s *server) popFlashes(w http.ResponseWriter, r *http.Request) []map[string]any {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	s.saveSession(w, r, sess)

	out := make([]map[string]any, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(flashMessage); ok {
			out = append(out, map[string]any{"category": fm.Category, "message": fm.Message})
		}
	}
	return out
}

// --- Current user ---

type ctxKey int

const currentUserKey ctxKey = iota

// loadUser resolves the session's user id once per request. An id whose
// user no longer exists is treated as anonymous.
func (s *server) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var u *User
		if id, ok := s.session(r).Values[currUserKey].(int64); ok {
			var err error
			if u, err = s.users.GetByID(r.Context(), id); err != nil {
				s.serverError(w, r, err)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentUserKey, u)))
	})
}

func currentUser(r *http.Request) *User {
	u, _ := r.Context().Value(currentUserKey).(*User)
	return u
}

// requireLogin rejects anonymous requests with a flash and a redirect to
// the home page before next runs.
func (s *server) requireLogin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			unauthorizedRequests.WithLabelValues(routeName(r)).Inc()
			s.flash(w, r, "danger", "Access unauthorized.")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	})
}

// --- Rendering ---

func (s *server) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if u := currentUser(r); u != nil {
		data["current_user"] = userView(u)
	}
	data["flashes"] = s.popFlashes(w, r)

	body, err := s.views.render(page, data)
	if err != nil {
		s.log.WithError(err).WithField("template", page).Error("render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error.html", map[string]any{
		"title":   http.StatusText(status),
		"status":  status,
		"message": message,
	})
}

func (s *server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

func (s *server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
