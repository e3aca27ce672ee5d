package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const messageSelect = `SELECT m.id, m.text, m.timestamp, m.user_id, u.username, u.image_url
	FROM messages m JOIN users u ON u.id = m.user_id`

// MessageStore is the data-access object for messages and likes.
type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Create persists m. Text is not checked here: an empty text is sent as
// NULL and an over-long one is rejected by the table's CHECK constraint.
func (s *MessageStore) Create(ctx context.Context, m *Message) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (text, timestamp, user_id) VALUES (?, ?, ?)`,
		nullString(m.Text), m.Timestamp, m.UserID)
	if err != nil {
		return fmt.Errorf("insert message for user %d: %w", m.UserID, err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (s *MessageStore) GetByID(ctx context.Context, id int64) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	m, err := scanMessage(s.db.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// ListByUser returns the user's messages, newest first.
func (s *MessageStore) ListByUser(ctx context.Context, userID int64, limit int) ([]Message, error) {
	return s.list(ctx, messageSelect+`
		WHERE m.user_id = ?
		ORDER BY m.timestamp DESC, m.id DESC LIMIT ?`, userID, limit)
}

// Timeline returns the messages of userID and of everyone userID follows,
// newest first.
func (s *MessageStore) Timeline(ctx context.Context, userID int64, limit int) ([]Message, error) {
	return s.list(ctx, messageSelect+`
		WHERE m.user_id = ? OR m.user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)
		ORDER BY m.timestamp DESC, m.id DESC LIMIT ?`, userID, userID, limit)
}

// All returns every message in insertion order.
func (s *MessageStore) All(ctx context.Context) ([]Message, error) {
	return s.list(ctx, messageSelect+` ORDER BY m.id`)
}

func (s *MessageStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

func (s *MessageStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (s *MessageStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	return nil
}

func (s *MessageStore) list(ctx context.Context, query string, args ...any) ([]Message, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func scanMessage(row scanner) (*Message, error) {
	var m Message
	if err := row.Scan(&m.ID, &m.Text, &m.Timestamp, &m.UserID, &m.Username, &m.ImageURL); err != nil {
		return nil, err
	}
	return &m, nil
}
