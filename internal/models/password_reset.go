package models

import "time"

// PasswordResetToken is single-use: a successful reset deletes it, and
// observing it past expiry deletes it as well.
type PasswordResetToken struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
