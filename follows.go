package main

import (
	"context"
	"fmt"
)

// Follow records the directed edge follower -> followed. Repeating an
// existing edge is a no-op.
func (s *UserStore) Follow(ctx context.Context, followerID, followedID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (followed_id, follower_id) VALUES (?, ?)`,
		followedID, followerID)
	if err != nil {
		return fmt.Errorf("follow %d -> %d: %w", followerID, followedID, err)
	}
	return nil
}

func (s *UserStore) Unfollow(ctx context.Context, followerID, followedID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE followed_id = ? AND follower_id = ?`,
		followedID, followerID)
	if err != nil {
		return fmt.Errorf("unfollow %d -> %d: %w", followerID, followedID, err)
	}
	return nil
}

// IsFollowing reports whether u follows other.
func (s *UserStore) IsFollowing(ctx context.Context, u, other *User) (bool, error) {
	return s.edgeExists(ctx, u.ID, other.ID)
}

// IsFollowedBy reports whether other follows u.
func (s *UserStore) IsFollowedBy(ctx context.Context, u, other *User) (bool, error) {
	return s.edgeExists(ctx, other.ID, u.ID)
}

func (s *UserStore) edgeExists(ctx context.Context, followerID, followedID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).Scan(&n)
	return n > 0, err
}

// Following lists the users userID follows.
func (s *UserStore) Following(ctx context.Context, userID int64) ([]User, error) {
	return s.list(ctx,
		`SELECT `+prefixed("u", userColumns)+` FROM users u
		 JOIN follows f ON f.followed_id = u.id
		 WHERE f.follower_id = ? ORDER BY u.username`, userID)
}

// Followers lists the users following userID.
func (s *UserStore) Followers(ctx context.Context, userID int64) ([]User, error) {
	return s.list(ctx,
		`SELECT `+prefixed("u", userColumns)+` FROM users u
		 JOIN follows f ON f.follower_id = u.id
		 WHERE f.followed_id = ? ORDER BY u.username`, userID)
}
