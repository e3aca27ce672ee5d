package main

import (
	"fmt"
	"net/http"
)

// GET + POST /messages/new
func (s *server) newMessageHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	var text string
	var errs formErrors

	if r.Method == http.MethodPost {
		text = r.FormValue("text")
		if errs = validateMessageText(text); errs.ok() {
			msg := &Message{Text: text, UserID: me.ID}
			if err := s.messages.Create(r.Context(), msg); err != nil {
				s.serverError(w, r, err)
				return
			}
			messagesPosted.Inc()
			http.Redirect(w, r, fmt.Sprintf("/users/%d", me.ID), http.StatusFound)
			return
		}
	}

	s.render(w, r, http.StatusOK, "messages-new.html", map[string]any{
		"title":       "New Message",
		"form":        map[string]any{"text": text},
		"form_errors": errs.list("text"),
	})
}

// messageFromPath loads the {id} message, rendering a 404 page when it does
// not exist. A nil message means the response has been written.
func (s *server) messageFromPath(w http.ResponseWriter, r *http.Request) *Message {
	msg, err := s.messages.GetByID(r.Context(), pathID(r))
	if err != nil {
		s.serverError(w, r, err)
		return nil
	}
	if msg == nil {
		s.notFound(w, r)
		return nil
	}
	return msg
}

// GET /messages/{id}
func (s *server) showMessageHandler(w http.ResponseWriter, r *http.Request) {
	msg := s.messageFromPath(w, r)
	if msg == nil {
		return
	}
	me := currentUser(r)
	s.render(w, r, http.StatusOK, "messages-show.html", map[string]any{
		"title":    "Message",
		"message":  messageView(msg, nil),
		"is_owner": me != nil && me.ID == msg.UserID,
	})
}

// POST /messages/{id}/delete
func (s *server) deleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	msg := s.messageFromPath(w, r)
	if msg == nil {
		return
	}
	if msg.UserID != me.ID {
		s.flash(w, r, "danger", "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := s.messages.Delete(r.Context(), msg.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", me.ID), http.StatusFound)
}

// POST /messages/{id}/like
func (s *server) likeMessageHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	msg := s.messageFromPath(w, r)
	if msg == nil {
		return
	}
	if msg.UserID == me.ID {
		s.renderError(w, r, http.StatusForbidden, "You cannot like your own warble.")
		return
	}
	if _, err := s.messages.ToggleLike(r.Context(), me.ID, msg.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
