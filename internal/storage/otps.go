package storage

import (
	"context"
	"fmt"
	"time"

	"traveleo/internal/core"
)

func (q *Queries) CreateOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	if _, err := q.exec(ctx, `INSERT INTO otps (user_id, code, expires_at) VALUES (?, ?, ?)`,
		userID, code, expiresAt.UTC()); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// DeleteOTPsForUser removes every passcode of the user.
func (q *Queries) DeleteOTPsForUser(ctx context.Context, userID int64) (int64, error) {
	n, err := q.exec(ctx, `DELETE FROM otps WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete otps: %w", err)
	}
	return n, nil
}

// FindOTP returns the passcode matching (userID, code) or ErrNotFound.
func (q *Queries) FindOTP(ctx context.Context, userID int64, code string) (core.OneTimePasscode, error) {
	var otp core.OneTimePasscode
	err := q.get(ctx, &otp, `SELECT id, user_id, code, expires_at FROM otps
WHERE user_id = ? AND code = ?
ORDER BY id DESC
LIMIT 1`, userID, code)
	return otp, err
}

func (q *Queries) CountOTPsForUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM otps WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("count otps: %w", err)
	}
	return n, nil
}
