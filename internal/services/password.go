package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoapp/internal/logger"
	"todoapp/internal/models"
	"todoapp/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrTokenInvalid     = errors.New("invalid or expired token")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("invalid current password")
	ErrPasswordTooShort = errors.New("password too short")
	ErrEmailDelivery    = errors.New("failed to send password reset email")
)

type PasswordService struct {
	users    UserRepo
	tokens   ResetTokenRepo
	sender   EmailSender
	appURL   string
	tokenTTL time.Duration
}

type ResetTokenRepo interface {
	ReplaceForUser(ctx context.Context, userID int, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, id int64) error
	ConsumeWithNewPassword(ctx context.Context, tokenID int64, userID int, passwordHash string) error
}

type EmailSender interface {
	Send(to []string, subject, body string) error
}

func NewPasswordService(users UserRepo, tokens ResetTokenRepo, sender EmailSender, appURL string, tokenTTL time.Duration) *PasswordService {
	return &PasswordService{
		users:    users,
		tokens:   tokens,
		sender:   sender,
		appURL:   appURL,
		tokenTTL: tokenTTL,
	}
}

// RequestReset mints a single-use token and emails a reset link. An unknown
// email returns nil so the caller's response never reveals whether the
// account exists. A delivery failure for a known account is reported: the
// token is already persisted at that point and a retry simply overwrites it.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("password reset requested (service)")

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Log.Warn("password reset for unknown email (service)")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expiresAt := time.Now().UTC().Add(s.tokenTTL)

	if err := s.tokens.ReplaceForUser(ctx, user.ID, token, expiresAt); err != nil {
		logger.Log.Error("storing reset token failed (service)", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appURL, token)
	body := resetEmailBody(user.FirstName, resetLink, token, s.tokenTTL)

	if err := s.sender.Send([]string{user.Email}, "Password Reset Request", body); err != nil {
		logger.Log.Error("sending reset email failed (service)", zap.Error(err), zap.Int("user_id", user.ID))
		return ErrEmailDelivery
	}

	logger.Log.Info("reset email sent (service)", zap.Int("user_id", user.ID), zap.Time("expires_at", expiresAt))
	return nil
}

// ResetPassword confirms the token and sets the new password. The token is
// single-use: success consumes it, and merely observing an expired token
// deletes it, so a replay fails as unknown.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger.Log.Info("password reset attempt (service)")

	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	rec, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Log.Warn("unknown reset token (service)")
			return ErrTokenInvalid
		}
		return err
	}

	if rec.Expired(time.Now().UTC()) {
		logger.Log.Warn("expired reset token (service)", zap.Int("user_id", rec.UserID))
		if err := s.tokens.Delete(ctx, rec.ID); err != nil {
			logger.Log.Error("deleting expired token failed (service)", zap.Error(err), zap.Int64("token_id", rec.ID))
		}
		return ErrTokenInvalid
	}

	if _, err := s.users.GetUserByID(ctx, rec.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Log.Warn("reset token owner gone (service)", zap.Int("user_id", rec.UserID))
			return ErrUserNotFound
		}
		return err
	}

	pwHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("password hashing failed (service)", zap.Error(err), zap.Int("user_id", rec.UserID))
		return err
	}

	if err := s.tokens.ConsumeWithNewPassword(ctx, rec.ID, rec.UserID, pwHash); err != nil {
		logger.Log.Error("consuming reset token failed (service)", zap.Error(err), zap.Int("user_id", rec.UserID))
		return err
	}

	logger.Log.Info("password reset (service)", zap.Int("user_id", rec.UserID))
	return nil
}

// ChangePassword rotates the password of an authenticated user after
// verifying the current one.
func (s *PasswordService) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	logger.Log.Info("password change (service)", zap.Int("user_id", userID))

	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		logger.Log.Warn("current password mismatch (service)", zap.Int("user_id", userID))
		return ErrWrongPassword
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("password hashing failed (service)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		logger.Log.Error("password update failed (service)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	logger.Log.Info("password changed (service)", zap.Int("user_id", userID))
	return nil
}

func resetEmailBody(firstName, resetLink, token string, ttl time.Duration) string {
	return fmt.Sprintf(`Hello %s,

You have requested to reset your password.
Please click on the link below to reset your password:

%s

If the link does not work, you can copy the token below and paste it into the 'Token' field on the reset password page:
Token: %s

This link and token will expire in %s.
If you did not request a password reset, please ignore this email.

Thanks,
Your App Team
`, firstName, resetLink, token, ttl)
}
