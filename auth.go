package main

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so a missing
// user and a wrong password take the same time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("warbler-dummy-password"), bcrypt.DefaultCost)

var bcryptCost = bcrypt.DefaultCost

type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// Signup hashes the password and inserts the user through q. Pass a
// transaction to control when the row becomes visible. Duplicate usernames
// or emails come back as the database's unique-constraint error.
func (s *UserStore) Signup(ctx context.Context, q dbtx, in SignupInput) (*User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		ImageURL: in.ImageURL,
	}
	if err := s.insert(ctx, q, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user when username and password match. An
// unknown username and a wrong password both yield (nil, nil); err is only
// set when the lookup itself fails.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil
	}
	if !checkPassword(u.Password, password) {
		return nil, nil
	}
	return u, nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
