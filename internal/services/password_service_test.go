package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todoapp/internal/models"
	"todoapp/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResetRepo struct {
	users  *mockUserRepo
	byUser map[int]*models.PasswordResetToken
	nextID int64
}

func newMockResetRepo(users *mockUserRepo) *mockResetRepo {
	return &mockResetRepo{users: users, byUser: make(map[int]*models.PasswordResetToken)}
}

func (m *mockResetRepo) ReplaceForUser(_ context.Context, userID int, token string, expiresAt time.Time) error {
	m.nextID++
	m.byUser[userID] = &models.PasswordResetToken{
		ID:        m.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (m *mockResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	for _, t := range m.byUser {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockResetRepo) Delete(_ context.Context, id int64) error {
	for userID, t := range m.byUser {
		if t.ID == id {
			delete(m.byUser, userID)
			return nil
		}
	}
	return nil
}

func (m *mockResetRepo) ConsumeWithNewPassword(ctx context.Context, tokenID int64, userID int, passwordHash string) error {
	if err := m.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}
	return m.Delete(ctx, tokenID)
}

type mockSender struct {
	sent []string // bodies
	fail error
}

func (m *mockSender) Send(to []string, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, body)
	return nil
}

func newPasswordFixture(t *testing.T) (*PasswordService, *mockUserRepo, *mockResetRepo, *mockSender) {
	t.Helper()
	users := newMockUserRepo()
	tokens := newMockResetRepo(users)
	sender := &mockSender{}
	svc := NewPasswordService(users, tokens, sender, "http://localhost:8080", time.Hour)
	return svc, users, tokens, sender
}

func TestRequestReset_UnknownEmailStaysQuiet(t *testing.T) {
	svc, _, tokens, sender := newPasswordFixture(t)

	err := svc.RequestReset(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, tokens.byUser)
	assert.Empty(t, sender.sent)
}

func TestRequestReset_SecondRequestInvalidatesFirstToken(t *testing.T) {
	svc, users, tokens, _ := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")

	require.NoError(t, svc.RequestReset(context.Background(), "alice@x.com"))
	first := tokens.byUser[u.ID].Token

	require.NoError(t, svc.RequestReset(context.Background(), "alice@x.com"))
	second := tokens.byUser[u.ID].Token

	require.NotEqual(t, first, second)
	require.Len(t, tokens.byUser, 1)

	err := svc.ResetPassword(context.Background(), first, "newpassword1")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	assert.NoError(t, svc.ResetPassword(context.Background(), second, "newpassword1"))
}

func TestRequestReset_EmailContainsToken(t *testing.T) {
	svc, users, tokens, sender := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")

	require.NoError(t, svc.RequestReset(context.Background(), "alice@x.com"))
	require.Len(t, sender.sent, 1)
	assert.True(t, strings.Contains(sender.sent[0], tokens.byUser[u.ID].Token))
}

func TestRequestReset_DeliveryFailureAfterPersist(t *testing.T) {
	svc, users, tokens, sender := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")
	sender.fail = errors.New("smtp: connection refused")

	err := svc.RequestReset(context.Background(), "alice@x.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)
	// the token is already stored; a fresh request simply overwrites it
	assert.Contains(t, tokens.byUser, u.ID)
}

func TestResetPassword_ValidTokenSucceedsExactlyOnce(t *testing.T) {
	svc, users, tokens, _ := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")

	require.NoError(t, svc.RequestReset(context.Background(), "alice@x.com"))
	token := tokens.byUser[u.ID].Token

	require.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword1"))
	assert.True(t, utils.CheckPasswordHash("newpassword1", u.PasswordHash))
	assert.False(t, utils.CheckPasswordHash("password1", u.PasswordHash))

	// replay: the token was consumed
	err := svc.ResetPassword(context.Background(), token, "evenlonger123")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetPassword_ExpiredTokenDeletedOnObservation(t *testing.T) {
	svc, users, tokens, _ := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")

	require.NoError(t, svc.RequestReset(context.Background(), "alice@x.com"))
	rec := tokens.byUser[u.ID]
	rec.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	token := rec.Token

	err := svc.ResetPassword(context.Background(), token, "newpassword1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Empty(t, tokens.byUser)

	// second attempt fails the same way: the token row is gone
	err = svc.ResetPassword(context.Background(), token, "newpassword1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	svc, _, _, _ := newPasswordFixture(t)

	err := svc.ResetPassword(context.Background(), "no-such-token", "newpassword1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetPassword_OwnerGone(t *testing.T) {
	svc, users, tokens, _ := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")

	require.NoError(t, svc.RequestReset(context.Background(), "alice@x.com"))
	token := tokens.byUser[u.ID].Token
	delete(users.users, "alice")

	err := svc.ResetPassword(context.Background(), token, "newpassword1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword_TooShort(t *testing.T) {
	svc, _, _, _ := newPasswordFixture(t)

	err := svc.ResetPassword(context.Background(), "whatever", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestChangePassword_WrongCurrentLeavesHashUnchanged(t *testing.T) {
	svc, users, _, _ := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")
	before := u.PasswordHash

	err := svc.ChangePassword(context.Background(), u.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, before, u.PasswordHash)
}

func TestChangePassword_Success(t *testing.T) {
	svc, users, _, _ := newPasswordFixture(t)
	u := registeredUser(t, users, "alice", "alice@x.com", "password1")

	err := svc.ChangePassword(context.Background(), u.ID, "password1", "newpassword1")
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("newpassword1", u.PasswordHash))
}

func TestChangePassword_UserGone(t *testing.T) {
	svc, _, _, _ := newPasswordFixture(t)

	err := svc.ChangePassword(context.Background(), 42, "password1", "newpassword1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
