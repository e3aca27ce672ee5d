package main

import (
	"fmt"
	"time"
)

const (
	defaultImageURL       = "/static/images/default-pic.png"
	defaultHeaderImageURL = "/static/images/warbler-hero.jpg"

	// maxMessageLength is enforced by the messages table, not by Go code.
	maxMessageLength = 140
)

// User represents a registered user.
type User struct {
	ID             int64
	Username       string
	Email          string
	Password       string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// Message is a warble, optionally joined with its author's display info.
type Message struct {
	ID        int64
	Text      string
	Timestamp time.Time
	UserID    int64

	Username string
	ImageURL string
}
