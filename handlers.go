package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// GET /
// Logged-in users get their timeline, everyone else the landing page.
func (s *server) homepageHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		s.render(w, r, http.StatusOK, "home-anon.html", nil)
		return
	}

	ctx := r.Context()
	messages, err := s.messages.Timeline(ctx, user.ID, s.cfg.TimelineLimit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	liked, err := s.messages.LikedIDs(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data, err := s.profileStats(r, user)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data["user"] = userView(user)
	data["messages"] = messagesView(messages, liked)
	s.render(w, r, http.StatusOK, "home.html", data)
}

// GET + POST /signup
func (s *server) signupHandler(w http.ResponseWriter, r *http.Request) {
	var form signupForm
	var errs formErrors

	if r.Method == http.MethodPost {
		form = parseSignupForm(r)
		if errs = form.validate(); errs.ok() {
			var user *User
			err := withTx(r.Context(), s.db, func(tx *sql.Tx) error {
				var err error
				user, err = s.users.Signup(r.Context(), tx, SignupInput{
					Username: form.Username,
					Email:    form.Email,
					Password: form.Password,
					ImageURL: form.ImageURL,
				})
				return err
			})
			switch {
			case err == nil:
				signupSuccess.Inc()
				s.log.WithField("user_id", user.ID).Info("user signed up")
				s.doLogin(w, r, user)
				http.Redirect(w, r, "/", http.StatusFound)
				return
			case isUniqueViolation(err):
				s.flash(w, r, "danger", "Username already taken")
			default:
				s.serverError(w, r, err)
				return
			}
		}
	}

	s.render(w, r, http.StatusOK, "signup.html", map[string]any{
		"title":       "Sign up",
		"form":        form.values(),
		"form_errors": errs.list("username", "email", "password"),
	})
}

// GET + POST /login
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	var errs formErrors

	if r.Method == http.MethodPost {
		form = parseLoginForm(r)
		if errs = form.validate(); errs.ok() {
			user, err := s.users.Authenticate(r.Context(), form.Username, form.Password)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			if user != nil {
				loginSuccess.Inc()
				s.doLogin(w, r, user)
				s.flash(w, r, "success", fmt.Sprintf("Hello, %s!", user.Username))
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			loginFailure.Inc()
			s.flash(w, r, "danger", "Invalid credentials.")
		}
	}

	s.render(w, r, http.StatusOK, "login.html", map[string]any{
		"title":       "Log in",
		"form":        map[string]any{"username": form.Username},
		"form_errors": errs.list("username", "password"),
	})
}

// GET /logout
func (s *server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.doLogout(w, r)
	s.flash(w, r, "success", "You have successfully logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// pathID returns the {id} route variable. The routes only match digits.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// profileStats collects the counters shown next to a user.
func (s *server) profileStats(r *http.Request, user *User) (map[string]any, error) {
	ctx := r.Context()
	messageCount, err := s.messages.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.users.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.users.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"message_count":   messageCount,
		"following_count": len(following),
		"followers_count": len(followers),
	}, nil
}
