package repository

import (
	"context"
	"time"

	"todoapp/internal/logger"
	"todoapp/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PasswordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// ReplaceForUser removes any prior token for the user and stores the new one
// in a single transaction, so there is never a moment with zero or two live
// tokens for the same user.
func (r *PasswordResetRepository) ReplaceForUser(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		logger.Log.Error("begin token replace failed (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
		logger.Log.Error("deleting old reset token failed (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	); err != nil {
		logger.Log.Error("inserting reset token failed (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	return tx.Commit(ctx)
}

// GetByToken fetches the token row regardless of expiry; the service decides
// what an expired row means.
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`, token)

	var t models.PasswordResetToken
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PasswordResetRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("deleting reset token failed (repo)", zap.Error(err), zap.Int64("token_id", id))
	}
	return err
}

// ConsumeWithNewPassword applies the new password hash and burns the token in
// one transaction.
func (r *PasswordResetRepository) ConsumeWithNewPassword(ctx context.Context, tokenID int64, userID int, passwordHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		logger.Log.Error("begin token consume failed (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, userID,
	); err != nil {
		logger.Log.Error("password update failed (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, tokenID); err != nil {
		logger.Log.Error("consuming reset token failed (repo)", zap.Error(err), zap.Int64("token_id", tokenID))
		return err
	}

	return tx.Commit(ctx)
}
