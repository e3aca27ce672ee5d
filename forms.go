package main

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const minPasswordLength = 6

// formErrors maps a field name to its error message.
type formErrors map[string]string

func (e formErrors) add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

func (e formErrors) ok() bool {
	return len(e) == 0
}

// list returns the messages in a stable field order for templates.
func (e formErrors) list(fields ...string) []string {
	out := make([]string, 0, len(e))
	for _, f := range fields {
		if msg, ok := e[f]; ok {
			out = append(out, msg)
		}
	}
	return out
}

type signupForm struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

func parseSignupForm(r *http.Request) signupForm {
	return signupForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		ImageURL: strings.TrimSpace(r.FormValue("image_url")),
	}
}

func (f signupForm) validate() formErrors {
	errs := formErrors{}
	if f.Username == "" {
		errs.add("username", "Username is required.")
	}
	validateEmail(f.Email, errs)
	if len(f.Password) < minPasswordLength {
		errs.add("password", "Password must be at least 6 characters.")
	}
	return errs
}

func (f signupForm) values() map[string]any {
	return map[string]any{"username": f.Username, "email": f.Email, "image_url": f.ImageURL}
}

type loginForm struct {
	Username string
	Password string
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
}

func (f loginForm) validate() formErrors {
	errs := formErrors{}
	if f.Username == "" {
		errs.add("username", "Username is required.")
	}
	if len(f.Password) < minPasswordLength {
		errs.add("password", "Password must be at least 6 characters.")
	}
	return errs
}

type profileForm struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

func profileFormFor(u *User) profileForm {
	return profileForm{
		Username:       u.Username,
		Email:          u.Email,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
	}
}

func parseProfileForm(r *http.Request) profileForm {
	return profileForm{
		Username:       strings.TrimSpace(r.FormValue("username")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		ImageURL:       strings.TrimSpace(r.FormValue("image_url")),
		HeaderImageURL: strings.TrimSpace(r.FormValue("header_image_url")),
		Bio:            strings.TrimSpace(r.FormValue("bio")),
		Location:       strings.TrimSpace(r.FormValue("location")),
		Password:       r.FormValue("password"),
	}
}

func (f profileForm) validate() formErrors {
	errs := formErrors{}
	if f.Username == "" {
		errs.add("username", "Username is required.")
	}
	validateEmail(f.Email, errs)
	if f.Password == "" {
		errs.add("password", "Password is required to confirm changes.")
	}
	return errs
}

func (f profileForm) values() map[string]any {
	return map[string]any{
		"username":         f.Username,
		"email":            f.Email,
		"image_url":        f.ImageURL,
		"header_image_url": f.HeaderImageURL,
		"bio":              f.Bio,
		"location":         f.Location,
	}
}

// validateMessageText is a courtesy check for the form; the messages table
// enforces the same limits on its own.
func validateMessageText(text string) formErrors {
	errs := formErrors{}
	switch {
	case strings.TrimSpace(text) == "":
		errs.add("text", "Message text is required.")
	case utf8.RuneCountInString(text) > maxMessageLength:
		errs.add("text", "Messages are limited to 140 characters.")
	}
	return errs
}

func validateEmail(email string, errs formErrors) {
	if email == "" {
		errs.add("email", "E-mail is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.add("email", "Invalid email address.")
	}
}
