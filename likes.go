package main

import (
	"context"
	"fmt"
)

// ToggleLike likes the message for userID, or removes the like if it is
// already there. It reports whether the message is liked afterwards.
func (s *MessageStore) ToggleLike(ctx context.Context, userID, messageID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND message_id = ?`, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("unlike message %d: %w", messageID, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO likes (user_id, message_id) VALUES (?, ?)`, userID, messageID); err != nil {
		return false, fmt.Errorf("like message %d: %w", messageID, err)
	}
	return true, nil
}

// LikedBy returns the messages userID has liked, newest first.
func (s *MessageStore) LikedBy(ctx context.Context, userID int64) ([]Message, error) {
	return s.list(ctx, messageSelect+`
		JOIN likes l ON l.message_id = m.id
		WHERE l.user_id = ?
		ORDER BY m.timestamp DESC, m.id DESC`, userID)
}

// LikedIDs returns the set of message ids userID has liked.
func (s *MessageStore) LikedIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT message_id FROM likes WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
