package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const userColumns = `id, username, email, password, image_url, header_image_url, bio, location`

type scanner interface {
	Scan(dest ...any) error
}

// UserStore is the data-access object for the users table and the
// follows join table.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts u as given, without hashing the password. Empty required
// fields reach the database as NULL and fail there.
func (s *UserStore) Create(ctx context.Context, u *User) error {
	return s.insert(ctx, s.db, u)
}

func (s *UserStore) insert(ctx context.Context, q dbtx, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if u.ImageURL == "" {
		u.ImageURL = defaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = defaultHeaderImageURL
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO users (username, email, password, image_url, header_image_url, bio, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullString(u.Username), nullString(u.Email), nullString(u.Password),
		u.ImageURL, u.HeaderImageURL, u.Bio, u.Location)
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// Search lists users whose username contains term. An empty term lists
// everyone.
func (s *UserStore) Search(ctx context.Context, term string) ([]User, error) {
	if term == "" {
		return s.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	}
	return s.list(ctx, `SELECT `+userColumns+` FROM users WHERE username LIKE ? ORDER BY username`, "%"+term+"%")
}

// Update writes every editable column of u. The password column is only
// touched by signup.
func (s *UserStore) Update(ctx context.Context, q dbtx, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if u.ImageURL == "" {
		u.ImageURL = defaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = defaultHeaderImageURL
	}
	_, err := q.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, image_url = ?, header_image_url = ?, bio = ?, location = ?
		 WHERE id = ?`,
		nullString(u.Username), nullString(u.Email), u.ImageURL, u.HeaderImageURL, u.Bio, u.Location, u.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

// Delete removes the user; messages, follow edges and likes go with it.
func (s *UserStore) Delete(ctx context.Context, q dbtx, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *UserStore) list(ctx context.Context, query string, args ...any) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row scanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password,
		&u.ImageURL, &u.HeaderImageURL, &u.Bio, &u.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
