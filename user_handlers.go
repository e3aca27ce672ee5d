package main

import (
	"database/sql"
	"fmt"
	"net/http"
)

// GET /users?q=
func (s *server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "users-index.html", map[string]any{
		"title": "Users",
		"users": usersView(users),
	})
}

// userFromPath loads the {id} user, rendering a 404 page when it does not
// exist. A nil user means the response has been written.
func (s *server) userFromPath(w http.ResponseWriter, r *http.Request) *User {
	user, err := s.users.GetByID(r.Context(), pathID(r))
	if err != nil {
		s.serverError(w, r, err)
		return nil
	}
	if user == nil {
		s.notFound(w, r)
		return nil
	}
	return user
}

// GET /users/{id}
func (s *server) showUserHandler(w http.ResponseWriter, r *http.Request) {
	user := s.userFromPath(w, r)
	if user == nil {
		return
	}

	ctx := r.Context()
	messages, err := s.messages.ListByUser(ctx, user.ID, s.cfg.ProfileLimit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	likes, err := s.messages.LikedBy(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data, err := s.profileStats(r, user)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if me := currentUser(r); me != nil {
		following, err := s.users.IsFollowing(ctx, me, user)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		data["is_self"] = me.ID == user.ID
		data["is_following"] = following
	}
	data["title"] = "@" + user.Username
	data["user"] = userView(user)
	data["messages"] = messagesView(messages, nil)
	data["likes_count"] = len(likes)
	s.render(w, r, http.StatusOK, "users-show.html", data)
}

// GET /users/{id}/following
func (s *server) showFollowingHandler(w http.ResponseWriter, r *http.Request) {
	user := s.userFromPath(w, r)
	if user == nil {
		return
	}
	following, err := s.users.Following(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "users-following.html", map[string]any{
		"title":   "Following",
		"user":    userView(user),
		"users":   usersView(following),
		"is_self": currentUser(r).ID == user.ID,
	})
}

// GET /users/{id}/followers
func (s *server) showFollowersHandler(w http.ResponseWriter, r *http.Request) {
	user := s.userFromPath(w, r)
	if user == nil {
		return
	}
	followers, err := s.users.Followers(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "users-followers.html", map[string]any{
		"title": "Followers",
		"user":  userView(user),
		"users": usersView(followers),
	})
}

// GET /users/{id}/likes
func (s *server) showLikesHandler(w http.ResponseWriter, r *http.Request) {
	user := s.userFromPath(w, r)
	if user == nil {
		return
	}
	liked, err := s.messages.LikedBy(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "users-likes.html", map[string]any{
		"title":    "Likes",
		"user":     userView(user),
		"messages": messagesView(liked, nil),
	})
}

// POST /users/follow/{id}
func (s *server) followHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	followed := s.userFromPath(w, r)
	if followed == nil {
		return
	}
	if err := s.users.Follow(r.Context(), me.ID, followed.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", me.ID), http.StatusFound)
}

// POST /users/stop-following/{id}
func (s *server) stopFollowingHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	followed := s.userFromPath(w, r)
	if followed == nil {
		return
	}
	if err := s.users.Unfollow(r.Context(), me.ID, followed.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", me.ID), http.StatusFound)
}

// GET + POST /users/profile
func (s *server) editProfileHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	form := profileFormFor(me)
	var errs formErrors

	if r.Method == http.MethodPost {
		form = parseProfileForm(r)
		if errs = form.validate(); errs.ok() {
			user, err := s.users.Authenticate(r.Context(), me.Username, form.Password)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			if user == nil {
				s.flash(w, r, "danger", "Wrong password, please try again.")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			user.Username = form.Username
			user.Email = form.Email
			user.ImageURL = form.ImageURL
			user.HeaderImageURL = form.HeaderImageURL
			user.Bio = form.Bio
			user.Location = form.Location
			err = withTx(r.Context(), s.db, func(tx *sql.Tx) error {
				return s.users.Update(r.Context(), tx, user)
			})
			switch {
			case err == nil:
				http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
				return
			case isUniqueViolation(err):
				s.flash(w, r, "danger", "Username or email already taken")
			default:
				s.serverError(w, r, err)
				return
			}
		}
	}

	s.render(w, r, http.StatusOK, "users-edit.html", map[string]any{
		"title":       "Edit Profile",
		"form":        form.values(),
		"form_errors": errs.list("username", "email", "password"),
	})
}

// POST /users/delete
func (s *server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	err := withTx(r.Context(), s.db, func(tx *sql.Tx) error {
		return s.users.Delete(r.Context(), tx, me.ID)
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.log.WithField("user_id", me.ID).Info("user deleted")
	s.doLogout(w, r)
	http.Redirect(w, r, "/signup", http.StatusFound)
}
